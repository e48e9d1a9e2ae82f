// Package logobs writes scope and task lifecycle events to a log/slog
// logger. Successful task events are logged at debug level; failures and
// rejections at warn.
package logobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/NetPo4ki/go-taskexec/scope"
)

// Observer is a scope.Observer backed by a *slog.Logger.
type Observer struct {
	log *slog.Logger
}

var _ scope.Observer = (*Observer)(nil)

// New returns an Observer writing to l, or to slog.Default when l is nil.
func New(l *slog.Logger) *Observer {
	if l == nil {
		l = slog.Default()
	}
	return &Observer{log: l}
}

func (o *Observer) ScopeCreated(ctx context.Context) {
	o.log.DebugContext(ctx, "scope created")
}

func (o *Observer) ScopeClosed(ctx context.Context, cause error) {
	if cause != nil {
		o.log.InfoContext(ctx, "scope closed", "cause", cause)
		return
	}
	o.log.InfoContext(ctx, "scope closed")
}

func (o *Observer) ScopeJoined(ctx context.Context, wait time.Duration) {
	o.log.DebugContext(ctx, "scope joined", "wait", wait)
}

func (o *Observer) TaskStarted(ctx context.Context) {
	o.log.DebugContext(ctx, "task started")
}

func (o *Observer) TaskFinished(ctx context.Context, dur time.Duration, err error, panicked bool) {
	if err != nil || panicked {
		o.log.WarnContext(ctx, "task failed", "duration", dur, "panicked", panicked, "error", err)
		return
	}
	o.log.DebugContext(ctx, "task finished", "duration", dur)
}

func (o *Observer) TaskRejected(ctx context.Context, err error) {
	o.log.WarnContext(ctx, "task rejected", "error", err)
}
