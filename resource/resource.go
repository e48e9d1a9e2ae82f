package resource

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrRejected is returned synchronously when a resource refuses a task.
	ErrRejected = errors.New("resource: task rejected")
	// ErrShutdown is the rejection reason for a resource that has been shut down.
	ErrShutdown = errors.New("resource: shut down")
	// ErrSaturated is the rejection reason for a bounded resource with no free worker.
	ErrSaturated = errors.New("resource: saturated")
)

// Resource runs submitted functions on goroutines it controls.
//
// Execute must neither run the function on the calling goroutine nor wait
// for it. A refusal is reported by returning an error that wraps
// ErrRejected; once Execute returns nil the function will run exactly once.
type Resource interface {
	Execute(fn func()) error
}

// Terminable is implemented by resources with an explicit shutdown.
type Terminable interface {
	Resource
	Shutdown(ctx context.Context) error
	IsShutdown() bool
}

// Func adapts an ordinary function to the Resource interface.
type Func func(fn func()) error

// Execute calls f(fn).
func (f Func) Execute(fn func()) error { return f(fn) }

// Rejected wraps reason so that it matches both ErrRejected and reason.
func Rejected(reason error) error {
	if reason == nil {
		return ErrRejected
	}
	return fmt.Errorf("%w: %w", ErrRejected, reason)
}
