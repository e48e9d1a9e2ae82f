package scope

import (
	"context"
	"time"
)

// Observer receives scope and task lifecycle events. Implementations must
// be safe for concurrent use; hooks run on the task's goroutine.
type Observer interface {
	ScopeCreated(ctx context.Context)
	ScopeClosed(ctx context.Context, cause error)
	ScopeJoined(ctx context.Context, wait time.Duration)
	TaskStarted(ctx context.Context)
	TaskFinished(ctx context.Context, dur time.Duration, err error, panicked bool)
	TaskRejected(ctx context.Context, err error)
}

// Observers fans events out to every non-nil observer in obs.
func Observers(obs ...Observer) Observer {
	out := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

type multiObserver []Observer

func (m multiObserver) ScopeCreated(ctx context.Context) {
	for _, o := range m {
		o.ScopeCreated(ctx)
	}
}

func (m multiObserver) ScopeClosed(ctx context.Context, cause error) {
	for _, o := range m {
		o.ScopeClosed(ctx, cause)
	}
}

func (m multiObserver) ScopeJoined(ctx context.Context, wait time.Duration) {
	for _, o := range m {
		o.ScopeJoined(ctx, wait)
	}
}

func (m multiObserver) TaskStarted(ctx context.Context) {
	for _, o := range m {
		o.TaskStarted(ctx)
	}
}

func (m multiObserver) TaskFinished(ctx context.Context, dur time.Duration, err error, panicked bool) {
	for _, o := range m {
		o.TaskFinished(ctx, dur, err, panicked)
	}
}

func (m multiObserver) TaskRejected(ctx context.Context, err error) {
	for _, o := range m {
		o.TaskRejected(ctx, err)
	}
}
