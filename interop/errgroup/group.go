// Package errgroup provides an adapter with golang.org/x/sync/errgroup
// semantics that runs its functions on an executor.Executor, so a fan-out
// shares the executor's resource and concurrency limit.
package errgroup

import (
	"context"
	"sync"

	"github.com/NetPo4ki/go-taskexec/executor"
)

// Group is an errgroup-like fan-out over an Executor.
type Group struct {
	e      *executor.Executor
	cancel context.CancelCauseFunc

	mu      sync.Mutex
	err     error
	futures []*executor.Future[struct{}]
}

// WithExecutor creates a Group that runs on e. The returned context is
// canceled when any function passed to Go fails or when Wait returns.
func WithExecutor(ctx context.Context, e *executor.Executor) (*Group, context.Context) {
	ctx, cancel := context.WithCancelCause(ctx)
	return &Group{e: e, cancel: cancel}, ctx
}

// Go submits f. Unlike errgroup, a rejection by the executor is returned
// to the caller and also recorded as the group's error.
func (g *Group) Go(f func() error) error {
	if f == nil {
		return nil
	}
	fut, err := executor.Submit(g.e, func() (struct{}, error) {
		err := f()
		g.fail(err)
		return struct{}{}, err
	})
	if err != nil {
		g.fail(err)
		return err
	}
	g.mu.Lock()
	g.futures = append(g.futures, fut)
	g.mu.Unlock()
	return nil
}

// Wait blocks until every submitted function has returned and reports the
// first failure, panics included.
func (g *Group) Wait() error {
	g.mu.Lock()
	futures := g.futures
	g.futures = nil
	g.mu.Unlock()

	results, _ := executor.AwaitAll(context.Background(), futures...)
	for _, r := range results {
		g.fail(r.Err)
	}
	g.cancel(nil)

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

func (g *Group) fail(err error) {
	if err == nil {
		return
	}
	g.mu.Lock()
	first := g.err == nil
	if first {
		g.err = err
	}
	g.mu.Unlock()
	if first {
		g.cancel(err)
	}
}
