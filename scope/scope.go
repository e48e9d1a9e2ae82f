package scope

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/NetPo4ki/go-taskexec/resource"
)

var (
	// ErrClosed is the rejection reason for launches on a closed scope.
	ErrClosed = errors.New("scope: closed")
	// ErrNilTask is returned when Launch is called without a task.
	ErrNilTask = errors.New("scope: nil task")
)

type Option func(*Options)

type Options struct {
	Name         string
	PanicAsError bool
	Observer     Observer
}

func defaultOptions() Options { return Options{PanicAsError: true} }

func WithName(name string) Option { return func(o *Options) { o.Name = name } }

func WithPanicAsError(v bool) Option { return func(o *Options) { o.PanicAsError = v } }

func WithObserver(obs Observer) Option { return func(o *Options) { o.Observer = obs } }

// Scope launches tasks on one resource for its whole lifetime.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	res    resource.Resource
	lim    *Limiter

	mu       sync.Mutex
	closed   bool
	cause    error
	firstErr error
	nextID   uint64
	inflight map[uint64]struct{}
	idle     chan struct{}

	opts Options
	obs  Observer
}

// New binds a scope to res. When res is a *Limiter the scope routes through
// its queue so that a task is untracked only after its slot is handed on.
func New(parent context.Context, res resource.Resource, optFns ...Option) *Scope {
	if res == nil {
		panic("scope: New requires a resource")
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	s := &Scope{
		ctx:      ctx,
		cancel:   cancel,
		res:      res,
		inflight: make(map[uint64]struct{}),
		idle:     make(chan struct{}),
		opts:     defaultOptions(),
	}
	close(s.idle)
	if l, ok := res.(*Limiter); ok {
		s.lim = l
	}
	for _, fn := range optFns {
		fn(&s.opts)
	}
	s.obs = s.opts.Observer
	if s.obs != nil {
		s.obs.ScopeCreated(ctx)
	}
	return s
}

// Context is cancelled when the scope is closed. Tasks that want to stop
// early check it themselves.
func (s *Scope) Context() context.Context { return s.ctx }

func (s *Scope) Resource() resource.Resource { return s.res }

func (s *Scope) Name() string { return s.opts.Name }

// Launch dispatches fn and calls done exactly once with its outcome: nil,
// the returned error or a *PanicError. A rejection is returned instead and
// done is not called. A panic in done is recovered and recorded as a
// scope failure.
func (s *Scope) Launch(fn func() error, done func(error)) error {
	if fn == nil {
		return ErrNilTask
	}
	id, err := s.track()
	if err != nil {
		s.rejected(err)
		return err
	}

	finish := func() { s.untrack(id) }
	run := func() { s.deliver(done, s.protect(fn)) }

	if s.lim != nil {
		err = s.lim.enqueue(job{run: run, after: finish})
	} else {
		err = s.res.Execute(func() {
			defer finish()
			run()
		})
	}
	if err != nil {
		s.untrack(id)
		s.rejected(err)
		return err
	}
	return nil
}

func (s *Scope) deliver(done func(error), err error) {
	if done == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.record(newPanicError(r))
		}
	}()
	done(err)
}

func (s *Scope) protect(fn func() error) (err error) {
	var start time.Time
	if s.obs != nil {
		start = time.Now()
		s.obs.TaskStarted(s.ctx)
	}
	defer func() {
		panicked := false
		if r := recover(); r != nil {
			if !s.opts.PanicAsError {
				if s.obs != nil {
					s.obs.TaskFinished(s.ctx, time.Since(start), nil, true)
				}
				panic(r)
			}
			panicked = true
			err = newPanicError(r)
		}
		s.record(err)
		if s.obs != nil {
			s.obs.TaskFinished(s.ctx, time.Since(start), err, panicked)
		}
	}()
	return fn()
}

func (s *Scope) track() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, resource.Rejected(ErrClosed)
	}
	if len(s.inflight) == 0 {
		s.idle = make(chan struct{})
	}
	id := s.nextID
	s.nextID++
	s.inflight[id] = struct{}{}
	return id, nil
}

func (s *Scope) untrack(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inflight[id]; !ok {
		return
	}
	delete(s.inflight, id)
	if len(s.inflight) == 0 {
		close(s.idle)
	}
}

func (s *Scope) record(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.firstErr == nil {
		s.firstErr = err
	}
	s.mu.Unlock()
}

func (s *Scope) rejected(err error) {
	if s.obs != nil {
		s.obs.TaskRejected(s.ctx, err)
	}
}

// InFlight reports the number of launched tasks that have not finished,
// including those still queued in a Limiter.
func (s *Scope) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops the scope from accepting launches and cancels its context.
// Running and queued tasks are left to finish. Only the first cause is kept.
func (s *Scope) Close(cause error) {
	s.mu.Lock()
	wasClosed := s.closed
	s.closed = true
	if s.cause == nil && cause != nil {
		s.cause = cause
	}
	cause = s.cause
	s.mu.Unlock()

	s.cancel()
	if !wasClosed && s.obs != nil {
		s.obs.ScopeClosed(s.ctx, cause)
	}
}

// Wait blocks until no task is in flight and returns the first task
// failure the scope has seen.
func (s *Scope) Wait() error {
	return s.Join(context.Background())
}

// Idle returns a channel closed once the tasks in flight at the time of
// the call, and any launched before the set drains, have finished.
func (s *Scope) Idle() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idle
}

// Join is Wait bounded by ctx. A nil ctx waits without a bound.
func (s *Scope) Join(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var start time.Time
	if s.obs != nil {
		start = time.Now()
	}
	select {
	case <-s.Idle():
	case <-ctx.Done():
		return ctx.Err()
	}
	if s.obs != nil {
		s.obs.ScopeJoined(s.ctx, time.Since(start))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstErr
}
