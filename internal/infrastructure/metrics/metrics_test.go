package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/internal/infrastructure/messaging"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/memory"
)

func TestMetrics_FromEvents(t *testing.T) {
	m := New()
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{Observer: m})
	defer bus.Close()
	require.NoError(t, m.Subscribe(bus))

	now := time.Now()
	require.NoError(t, bus.Publish(shared.NewLessonCompletedEvent("default", "intro", 1, 12, now)))
	require.NoError(t, bus.Publish(shared.NewQuizSubmittedEvent("default", "intro", 3, 5, true, now)))
	require.NoError(t, bus.Publish(shared.NewAchievementUnlockedEvent("default", "first_lesson", "First Steps", "lessons", now)))
	require.NoError(t, bus.Publish(shared.NewStreakUpdatedEvent("default", 4, now)))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.lessonsCompleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.quizzesSubmitted.WithLabelValues("retake")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.achievements.WithLabelValues("first_lesson")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.streakDays.WithLabelValues("default")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublished.WithLabelValues(string(shared.EventLessonCompleted))))
}

func TestInstrumentedStore(t *testing.T) {
	m := New()
	inner := memory.NewStore()
	s := m.InstrumentStore(inner)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v"))
	v, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)

	inner.SetFault(func(string, string) error { return errors.New("io") })
	_, _, err = s.Get(ctx, "k")
	assert.Error(t, err)

	assert.Equal(t, 3, testutil.CollectAndCount(m.storeDuration))
	assert.NoError(t, s.Ping(ctx))
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordPublish(shared.EventGoalCompleted)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "academy_events_published_total")
}
