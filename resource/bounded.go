package resource

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Bounded is a resource with a fixed number of worker slots. When every
// slot is busy it rejects new work with ErrSaturated instead of queueing;
// callers that want queueing put a scope.Limiter in front of it.
type Bounded struct {
	name    string
	workers int

	mu     sync.RWMutex
	closed bool
	group  errgroup.Group
}

// NewBounded returns a resource running at most workers functions at once.
// A non-positive workers value removes the bound.
func NewBounded(name string, workers int) *Bounded {
	b := &Bounded{name: name, workers: workers}
	if workers > 0 {
		b.group.SetLimit(workers)
	}
	return b
}

func (b *Bounded) Name() string { return b.name }

// Workers returns the configured slot count, or 0 when unbounded.
func (b *Bounded) Workers() int {
	if b.workers < 0 {
		return 0
	}
	return b.workers
}

func (b *Bounded) Execute(fn func()) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return Rejected(ErrShutdown)
	}
	ok := b.group.TryGo(func() error {
		fn()
		return nil
	})
	if !ok {
		return Rejected(ErrSaturated)
	}
	return nil
}

// Shutdown stops accepting work and waits for running functions to return
// or for ctx to be done.
func (b *Bounded) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return waitFor(ctx, func() { _ = b.group.Wait() })
}

func (b *Bounded) IsShutdown() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}
