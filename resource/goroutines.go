package resource

import (
	"context"
	"sync"
	"sync/atomic"
)

// Goroutines starts one goroutine per submitted function. It has no worker
// limit of its own; the Go scheduler multiplexes the goroutines onto
// threads. After Shutdown it rejects new work.
type Goroutines struct {
	name string

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	active atomic.Int64
}

// NewGoroutines returns a running Goroutines resource.
func NewGoroutines(name string) *Goroutines {
	return &Goroutines{name: name}
}

// Name returns the name given at construction.
func (g *Goroutines) Name() string { return g.name }

// Active reports the number of functions currently running.
func (g *Goroutines) Active() int64 { return g.active.Load() }

func (g *Goroutines) Execute(fn func()) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed {
		return Rejected(ErrShutdown)
	}
	g.wg.Add(1)
	g.active.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.active.Add(-1)
		fn()
	}()
	return nil
}

// Shutdown stops accepting work and waits for running functions to return
// or for ctx to be done, whichever comes first.
func (g *Goroutines) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	return waitFor(ctx, g.wg.Wait)
}

func (g *Goroutines) IsShutdown() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.closed
}

func waitFor(ctx context.Context, wait func()) error {
	if ctx == nil {
		ctx = context.Background()
	}
	done := make(chan struct{})
	go func() {
		wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
