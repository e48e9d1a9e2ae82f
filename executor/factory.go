package executor

import (
	"github.com/NetPo4ki/go-taskexec/resource"
	"github.com/NetPo4ki/go-taskexec/scope"
)

// New returns an executor that runs tasks directly on res.
func New(res resource.Resource, opts ...Option) (*Executor, error) {
	if res == nil {
		return nil, ErrNilResource
	}
	return Build(append(opts[:len(opts):len(opts)], WithResource(res), WithConcurrencyLimit(0))...), nil
}

// NewLimited returns an executor on res that runs at most n of its tasks at
// once. Excess tasks wait in submission order.
func NewLimited(res resource.Resource, n int, opts ...Option) (*Executor, error) {
	if res == nil {
		return nil, ErrNilResource
	}
	return Build(append(opts[:len(opts):len(opts)], WithResource(res), WithConcurrencyLimit(n))...), nil
}

// NewDefault returns an executor on the shared default resource.
func NewDefault(opts ...Option) *Executor {
	return Build(append(opts[:len(opts):len(opts)], WithResource(nil), WithConcurrencyLimit(0))...)
}

// NewDefaultLimited returns an executor on the shared default resource,
// capped at n running tasks. The cap applies to this executor only.
func NewDefaultLimited(n int, opts ...Option) *Executor {
	return Build(append(opts[:len(opts):len(opts)], WithResource(nil), WithConcurrencyLimit(n))...)
}

// Build assembles an executor from options alone; the factory functions
// above are shorthands for it.
func Build(opts ...Option) *Executor {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	base := o.Resource
	if base == nil {
		base = resource.Default()
	}
	s := scope.New(o.Context, scope.NewLimiter(base, o.ConcurrencyLimit),
		scope.WithName(o.Name),
		scope.WithObserver(o.Observer),
	)
	return &Executor{
		name:     o.Name,
		scope:    s,
		resource: o.Resource,
		onError:  o.ErrorHandler,
		logger:   o.Logger,
	}
}
