package executor

import (
	"context"
	"log/slog"

	"github.com/NetPo4ki/go-taskexec/resource"
	"github.com/NetPo4ki/go-taskexec/scope"
)

type Option func(*Options)

// Options configures an Executor. The zero value selects the shared
// default resource with no concurrency limit and drops fire-and-forget
// failures.
type Options struct {
	Context          context.Context
	Resource         resource.Resource
	ConcurrencyLimit int
	Name             string
	ErrorHandler     func(error)
	Logger           *slog.Logger
	Observer         scope.Observer
}

// WithResource binds the executor to res. A nil res selects the shared
// default resource.
func WithResource(res resource.Resource) Option { return func(o *Options) { o.Resource = res } }

// WithConcurrencyLimit caps running tasks at n; n <= 0 means no cap.
func WithConcurrencyLimit(n int) Option { return func(o *Options) { o.ConcurrencyLimit = n } }

// WithContext sets the parent of the executor's context.
func WithContext(ctx context.Context) Option { return func(o *Options) { o.Context = ctx } }

func WithName(name string) Option { return func(o *Options) { o.Name = name } }

// WithErrorHandler receives failures of tasks started by Execute and Go.
// It runs on the failing task's goroutine; a panic in fn is recovered.
func WithErrorHandler(fn func(error)) Option { return func(o *Options) { o.ErrorHandler = fn } }

// WithLogger logs failures of tasks started by Execute and Go at error level.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

func WithObserver(obs scope.Observer) Option { return func(o *Options) { o.Observer = obs } }
