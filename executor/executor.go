package executor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/NetPo4ki/go-taskexec/resource"
	"github.com/NetPo4ki/go-taskexec/scope"
)

var (
	// ErrNilResource is returned by the explicit-resource factories.
	ErrNilResource = errors.New("executor: nil resource")
	ErrNilTask     = scope.ErrNilTask
	// ErrRejected matches every synchronous refusal to accept a task.
	ErrRejected = resource.ErrRejected
)

// Executor submits tasks to a scope bound to one execution resource.
type Executor struct {
	name     string
	scope    *scope.Scope
	resource resource.Resource
	onError  func(error)
	logger   *slog.Logger
}

// Execute runs task once, at some later time, on the bound resource. A
// panic in task is isolated and reported to the error handler.
func (e *Executor) Execute(task func()) error {
	if task == nil {
		return ErrNilTask
	}
	return e.scope.Launch(func() error {
		task()
		return nil
	}, e.report)
}

// Go is Execute for tasks that return an error; a non-nil error is
// reported like a panic.
func (e *Executor) Go(task func() error) error {
	if task == nil {
		return ErrNilTask
	}
	return e.scope.Launch(task, e.report)
}

// Submit runs task on e and returns a Future for its result. The Future
// resolves to the returned value and error, or to a *scope.PanicError if
// task panics. Rejection is returned here and no Future is created.
func Submit[R any](e *Executor, task func() (R, error)) (*Future[R], error) {
	if task == nil {
		return nil, ErrNilTask
	}
	f := newFuture[R]()
	var value R
	err := e.scope.Launch(func() error {
		v, err := task()
		value = v
		return err
	}, func(err error) {
		f.complete(Result[R]{Value: value, Err: err})
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (e *Executor) report(err error) {
	if err == nil {
		return
	}
	if e.logger != nil {
		e.logger.Error("task failed", "executor", e.name, "error", err)
	}
	if e.onError != nil {
		e.onError(err)
	}
}

// ExecutionResource returns the resource passed to New or NewLimited, or
// nil when the executor runs on the shared default resource.
func (e *Executor) ExecutionResource() resource.Resource { return e.resource }

// Context is cancelled by Shutdown or by cancellation of the parent given
// with WithContext.
func (e *Executor) Context() context.Context { return e.scope.Context() }

func (e *Executor) Name() string { return e.name }

// Stats is a point-in-time view of an executor's load.
type Stats struct {
	InFlight int
	Running  int
	Pending  int
	Limit    int
}

func (e *Executor) Stats() Stats {
	st := Stats{InFlight: e.scope.InFlight()}
	if l, ok := e.scope.Resource().(*scope.Limiter); ok {
		st.Running = l.Running()
		st.Pending = l.Pending()
		st.Limit = l.Limit()
	}
	return st
}

// Shutdown rejects further submissions and waits for accepted tasks,
// including queued ones, to finish or for ctx to be done. A nil ctx waits
// without a bound. The resource itself is left running.
func (e *Executor) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	e.scope.Close(nil)
	select {
	case <-e.scope.Idle():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
