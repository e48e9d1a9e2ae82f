package scope

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/NetPo4ki/go-taskexec/resource"
)

// Limiter bounds the number of functions running on an underlying
// resource. Submissions beyond the limit wait in a FIFO queue. A function
// that returns while others are queued keeps its worker and runs the oldest
// one next, so a queued function never has to be dispatched again.
type Limiter struct {
	res   resource.Resource
	limit int

	mu      sync.Mutex
	running int
	pending *queue.Queue
}

type job struct {
	run func()
	// after runs once the slot has been handed on.
	after func()
}

// NewLimiter wraps res so that at most n functions run at once. For n <= 0
// it returns res unchanged.
//
// res must not run fn on the calling goroutine: the limiter holds its lock
// while it dispatches.
func NewLimiter(res resource.Resource, n int) resource.Resource {
	if res == nil {
		panic("scope: NewLimiter requires a resource")
	}
	if n <= 0 {
		return res
	}
	return &Limiter{res: res, limit: n, pending: queue.New()}
}

// Execute runs fn on a free slot or queues it. It fails only when the
// underlying resource is shut down or refuses a direct dispatch. Once it
// returns nil, fn runs exactly once.
func (l *Limiter) Execute(fn func()) error {
	return l.enqueue(job{run: fn})
}

// Unwrap returns the resource the limiter dispatches to.
func (l *Limiter) Unwrap() resource.Resource { return l.res }

func (l *Limiter) Limit() int { return l.limit }

// Running reports the number of occupied slots.
func (l *Limiter) Running() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Pending reports the number of queued functions waiting for a slot.
func (l *Limiter) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending.Length()
}

func (l *Limiter) enqueue(j job) error {
	if t, ok := l.res.(resource.Terminable); ok && t.IsShutdown() {
		return resource.Rejected(resource.ErrShutdown)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	// The queue is only non-empty while every slot is taken.
	if l.running >= l.limit {
		l.pending.Add(j)
		return nil
	}
	if err := l.res.Execute(l.worker(j)); err != nil {
		return err
	}
	l.running++
	return nil
}

// worker runs j and then keeps draining the queue on the same slot.
func (l *Limiter) worker(j job) func() {
	return func() {
		for l.step(&j) {
		}
	}
}

// step runs j, then either loads the next queued job into j and reports
// true, or frees the slot and reports false.
func (l *Limiter) step(j *job) (more bool) {
	cur := *j
	returned := false
	defer func() {
		*j, more = l.next()
		if cur.after != nil {
			cur.after()
		}
		if !returned && more {
			// cur panicked. Drain the queue before the panic resumes.
			l.worker(*j)()
		}
	}()
	cur.run()
	returned = true
	return false
}

func (l *Limiter) next() (job, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending.Length() == 0 {
		l.running--
		return job{}, false
	}
	return l.pending.Remove().(job), true
}
