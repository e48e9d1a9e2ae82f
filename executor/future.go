package executor

import (
	"context"
	"sync"
)

// Result is the outcome of a result-producing task.
type Result[R any] struct {
	Value R
	Err   error
}

// Future is a single-assignment cell for a task's Result. It can be read
// by any number of goroutines.
type Future[R any] struct {
	done chan struct{}

	mu        sync.Mutex
	completed bool
	res       Result[R]
	callbacks []func(Result[R])
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// complete stores r and reports whether this call resolved the future.
// Every callback runs even if an earlier one panics; the first panic is
// raised again once they have all returned.
func (f *Future[R]) complete(r Result[R]) bool {
	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		return false
	}
	f.completed = true
	f.res = r
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	var first any
	for _, cb := range callbacks {
		if p := runCallback(cb, r); p != nil && first == nil {
			first = p
		}
	}
	if first != nil {
		panic(first)
	}
	return true
}

func runCallback[R any](cb func(Result[R]), r Result[R]) (p any) {
	defer func() { p = recover() }()
	cb(r)
	return nil
}

// Done is closed once the future is resolved.
func (f *Future[R]) Done() <-chan struct{} { return f.done }

// Poll returns the result without blocking. ok is false while the task is
// still pending.
func (f *Future[R]) Poll() (res Result[R], ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.res, f.completed
}

// Get waits for the result or for ctx to be done. A ctx error leaves the
// task running; it only stops the wait.
func (f *Future[R]) Get(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.res.Value, f.res.Err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// OnComplete registers fn to run with the result. If the future is already
// resolved fn runs immediately on the caller's goroutine, otherwise on the
// goroutine that resolves it. On that goroutine a panic in fn is recovered
// by the executor and does not affect the task or its slot.
func (f *Future[R]) OnComplete(fn func(Result[R])) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	if f.completed {
		res := f.res
		f.mu.Unlock()
		fn(res)
		return
	}
	f.callbacks = append(f.callbacks, fn)
	f.mu.Unlock()
}

// AwaitAll waits for every future in order and returns their results.
// It stops at the first ctx error, returning the results gathered so far.
func AwaitAll[R any](ctx context.Context, futures ...*Future[R]) ([]Result[R], error) {
	out := make([]Result[R], 0, len(futures))
	for _, f := range futures {
		select {
		case <-f.done:
			out = append(out, f.res)
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
	return out, nil
}
