// Package executor is the public face of the module: it submits work to an
// execution resource without blocking the caller and, for result-producing
// work, hands back a Future that is resolved exactly once.
//
// An Executor is built by one of four factory functions:
//
//	New(res)                  // tasks run directly on res
//	NewLimited(res, n)        // at most n tasks of this executor run at once
//	NewDefault()              // the process-wide shared resource
//	NewDefaultLimited(n)      // the shared resource, capped at n
//
// All four expose the same contract. Rejections by the resource are
// returned synchronously from Execute, Go and Submit and never through a
// Future. Task failures, returned errors and panics alike, stay with the
// task: a Future resolves to them, and fire-and-forget failures go to the
// configured error handler or are dropped.
//
// There is no cancellation of running tasks. Bodies that need to stop early
// watch Executor.Context, which is cancelled by Shutdown.
package executor
