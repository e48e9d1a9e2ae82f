// Package prom exports scope and task lifecycle events as Prometheus
// metrics. A *Metrics is a scope.Observer; pass it to executor.WithObserver.
package prom

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/NetPo4ki/go-taskexec/scope"
)

// Options controls collector naming.
type Options struct {
	// Namespace prefixes every metric name. Defaults to "taskexec".
	Namespace string
	// Executor is the value of the "executor" label. Defaults to "default".
	Executor        string
	DurationBuckets []float64
}

// Metrics records executor activity. Several Metrics may share one
// registry as long as their Executor labels differ.
type Metrics struct {
	tasksStarted  prometheus.Counter
	tasksOK       prometheus.Counter
	tasksErrored  prometheus.Counter
	tasksPanicked prometheus.Counter
	tasksRejected prometheus.Counter
	activeTasks   prometheus.Gauge
	taskDuration  prometheus.Observer

	scopesCreated prometheus.Counter
	scopesClosed  prometheus.Counter
	joinWait      prometheus.Observer
}

var _ scope.Observer = (*Metrics)(nil)

// New creates the collectors and registers them with reg, reusing any that
// an earlier call already registered. A nil reg means the default registry.
func New(reg prometheus.Registerer, opts Options) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := opts.Namespace
	if ns == "" {
		ns = "taskexec"
	}
	name := opts.Executor
	if name == "" {
		name = "default"
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	started := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "tasks_started_total",
		Help:      "Tasks that began running.",
	}, []string{"executor"})
	finished := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "tasks_finished_total",
		Help:      "Tasks that finished, by outcome.",
	}, []string{"executor", "outcome"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "tasks_rejected_total",
		Help:      "Tasks refused by a closed scope or by the resource.",
	}, []string{"executor"})
	active := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: ns,
		Name:      "tasks_active",
		Help:      "Tasks currently running.",
	}, []string{"executor"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "task_duration_seconds",
		Help:      "Task run time in seconds.",
		Buckets:   buckets,
	}, []string{"executor"})
	scopes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "scope_events_total",
		Help:      "Scope lifecycle events.",
	}, []string{"executor", "event"})
	join := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "join_wait_seconds",
		Help:      "Time spent waiting for in-flight tasks.",
		Buckets:   buckets,
	}, []string{"executor"})

	var err error
	if started, err = registerCollector(reg, started); err != nil {
		return nil, err
	}
	if finished, err = registerCollector(reg, finished); err != nil {
		return nil, err
	}
	if rejected, err = registerCollector(reg, rejected); err != nil {
		return nil, err
	}
	if active, err = registerCollector(reg, active); err != nil {
		return nil, err
	}
	if duration, err = registerCollector(reg, duration); err != nil {
		return nil, err
	}
	if scopes, err = registerCollector(reg, scopes); err != nil {
		return nil, err
	}
	if join, err = registerCollector(reg, join); err != nil {
		return nil, err
	}

	return &Metrics{
		tasksStarted:  started.WithLabelValues(name),
		tasksOK:       finished.WithLabelValues(name, "ok"),
		tasksErrored:  finished.WithLabelValues(name, "error"),
		tasksPanicked: finished.WithLabelValues(name, "panic"),
		tasksRejected: rejected.WithLabelValues(name),
		activeTasks:   active.WithLabelValues(name),
		taskDuration:  duration.WithLabelValues(name),
		scopesCreated: scopes.WithLabelValues(name, "created"),
		scopesClosed:  scopes.WithLabelValues(name, "closed"),
		joinWait:      join.WithLabelValues(name),
	}, nil
}

func (m *Metrics) ScopeCreated(_ context.Context) { m.scopesCreated.Inc() }

func (m *Metrics) ScopeClosed(_ context.Context, _ error) { m.scopesClosed.Inc() }

func (m *Metrics) ScopeJoined(_ context.Context, wait time.Duration) {
	m.joinWait.Observe(wait.Seconds())
}

func (m *Metrics) TaskStarted(_ context.Context) {
	m.activeTasks.Inc()
	m.tasksStarted.Inc()
}

// TaskFinished counts a panicking task under "panic" only, not "error".
func (m *Metrics) TaskFinished(_ context.Context, dur time.Duration, err error, panicked bool) {
	m.activeTasks.Dec()
	switch {
	case panicked:
		m.tasksPanicked.Inc()
	case err != nil:
		m.tasksErrored.Inc()
	default:
		m.tasksOK.Inc()
	}
	m.taskDuration.Observe(dur.Seconds())
}

func (m *Metrics) TaskRejected(_ context.Context, _ error) { m.tasksRejected.Inc() }

func registerCollector[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		existing, ok := already.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("prom: collector type mismatch for %T", collector)
		}
		return existing, nil
	}
	return collector, fmt.Errorf("prom: register collector: %w", err)
}
