package resource

import (
	"context"
	"sync"
)

// DefaultName is the name of the process-wide shared resource.
const DefaultName = "task-"

var (
	defaultMu  sync.Mutex
	defaultRes *Goroutines
)

// Default returns the process-wide shared resource, creating it on first
// use. After ShutdownDefault the next call creates a fresh instance.
func Default() *Goroutines {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRes == nil {
		defaultRes = NewGoroutines(DefaultName)
	}
	return defaultRes
}

// ShutdownDefault tears down the shared resource, if one was created, and
// waits for its running functions. Executors still bound to it reject
// further work.
func ShutdownDefault(ctx context.Context) error {
	defaultMu.Lock()
	r := defaultRes
	defaultRes = nil
	defaultMu.Unlock()
	if r == nil {
		return nil
	}
	return r.Shutdown(ctx)
}
