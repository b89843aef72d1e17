// Package metrics exposes Prometheus collectors for the progress hub:
// event bus activity, domain counters fed from events, and store latency.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

const namespace = "academy"

// Metrics owns a registry and every collector registered on it.
type Metrics struct {
	registry *prometheus.Registry

	eventsPublished  *prometheus.CounterVec
	handlerDuration  *prometheus.HistogramVec
	handlerErrors    *prometheus.CounterVec
	lessonsCompleted prometheus.Counter
	quizzesSubmitted *prometheus.CounterVec
	stepsCompleted   prometheus.Counter
	achievements     *prometheus.CounterVec
	goalsCompleted   prometheus.Counter
	streakDays       *prometheus.GaugeVec
	streaksBroken    prometheus.Counter
	storeDuration    *prometheus.HistogramVec
}

// New creates collectors on a fresh registry (plus Go and process collectors).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		eventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events published by type",
		}, []string{"event_type"}),
		handlerDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_handler_duration_seconds",
			Help:      "Event handler duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}, []string{"event_type"}),
		handlerErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_handler_errors_total",
			Help:      "Event handler failures by type",
		}, []string{"event_type"}),
		lessonsCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lessons_completed_total",
			Help:      "Lessons marked complete",
		}),
		quizzesSubmitted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quizzes_submitted_total",
			Help:      "Quiz results stored, by first attempt or retake",
		}, []string{"attempt"}),
		stepsCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "project_steps_completed_total",
			Help:      "Project steps marked complete",
		}),
		achievements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "achievements_unlocked_total",
			Help:      "Achievements unlocked by id",
		}, []string{"achievement_id"}),
		goalsCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "goals_completed_total",
			Help:      "Goals that became completed",
		}),
		streakDays: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streak_days",
			Help:      "Current streak per profile",
		}, []string{"profile"}),
		streaksBroken: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streaks_broken_total",
			Help:      "Streaks reset after a missed day",
		}),
		storeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Key-value store operation latency",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 14),
		}, []string{"operation", "result"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordPublish implements messaging.Observer.
func (m *Metrics) RecordPublish(eventType shared.EventType) {
	m.eventsPublished.WithLabelValues(string(eventType)).Inc()
}

// RecordHandler implements messaging.Observer.
func (m *Metrics) RecordHandler(eventType shared.EventType, d time.Duration, err error) {
	m.handlerDuration.WithLabelValues(string(eventType)).Observe(d.Seconds())
	if err != nil {
		m.handlerErrors.WithLabelValues(string(eventType)).Inc()
	}
}

// Subscribe feeds the domain counters from bus events.
func (m *Metrics) Subscribe(bus shared.EventSubscriber) error {
	return bus.SubscribeAll(m.handle)
}

func (m *Metrics) handle(event shared.Event) error {
	switch e := event.(type) {
	case *shared.LessonCompletedEvent:
		m.lessonsCompleted.Inc()
	case *shared.QuizSubmittedEvent:
		attempt := "first"
		if e.Retake {
			attempt = "retake"
		}
		m.quizzesSubmitted.WithLabelValues(attempt).Inc()
	case *shared.StepCompletedEvent:
		m.stepsCompleted.Inc()
	case *shared.AchievementUnlockedEvent:
		m.achievements.WithLabelValues(e.AchievementID).Inc()
	case *shared.GoalCompletedEvent:
		m.goalsCompleted.Inc()
	case *shared.StreakUpdatedEvent:
		m.streakDays.WithLabelValues(e.AggregateID()).Set(float64(e.StreakDays))
	case *shared.StreakBrokenEvent:
		m.streaksBroken.Inc()
		m.streakDays.WithLabelValues(e.AggregateID()).Set(1)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// INSTRUMENTED STORE
// ══════════════════════════════════════════════════════════════════════════════

// InstrumentedStore decorates a shared.Store with latency histograms.
type InstrumentedStore struct {
	inner   shared.Store
	metrics *Metrics
}

// InstrumentStore wraps store.
func (m *Metrics) InstrumentStore(store shared.Store) *InstrumentedStore {
	return &InstrumentedStore{inner: store, metrics: m}
}

// Get implements shared.Store.
func (s *InstrumentedStore) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, found, err := s.inner.Get(ctx, key)
	s.observe("get", start, err)
	return v, found, err
}

// Set implements shared.Store.
func (s *InstrumentedStore) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.inner.Set(ctx, key, value)
	s.observe("set", start, err)
	return err
}

// Ping forwards to the inner store when it supports it.
func (s *InstrumentedStore) Ping(ctx context.Context) error {
	if p, ok := s.inner.(shared.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.storeDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}
