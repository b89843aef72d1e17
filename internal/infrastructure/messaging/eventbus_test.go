package messaging

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

type recordingObserver struct {
	mu        sync.Mutex
	published []shared.EventType
	failures  int
}

func (o *recordingObserver) RecordPublish(t shared.EventType) {
	o.mu.Lock()
	o.published = append(o.published, t)
	o.mu.Unlock()
}

func (o *recordingObserver) RecordHandler(_ shared.EventType, _ time.Duration, err error) {
	if err == nil {
		return
	}
	o.mu.Lock()
	o.failures++
	o.mu.Unlock()
}

func TestInMemoryEventBus_SyncDelivery(t *testing.T) {
	obs := &recordingObserver{}
	cfg := DefaultInMemoryEventBusConfig()
	cfg.Observer = obs
	bus := NewInMemoryEventBus(cfg)
	defer bus.Close()

	var typed, all []shared.EventType
	require.NoError(t, bus.Subscribe(shared.EventStreakUpdated, func(e shared.Event) error {
		typed = append(typed, e.EventType())
		return nil
	}))
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		all = append(all, e.EventType())
		return nil
	}))

	now := time.Now()
	require.NoError(t, bus.Publish(shared.NewStreakUpdatedEvent("default", 3, now)))
	require.NoError(t, bus.Publish(shared.NewGoalCompletedEvent("default", "g1", "Ship", now)))

	assert.Equal(t, []shared.EventType{shared.EventStreakUpdated}, typed)
	assert.Equal(t, []shared.EventType{shared.EventStreakUpdated, shared.EventGoalCompleted}, all)
	assert.Len(t, obs.published, 2)
}

func TestInMemoryEventBus_HandlerFailuresAreContained(t *testing.T) {
	obs := &recordingObserver{}
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{Observer: obs})
	defer bus.Close()

	var reached bool
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error { return errors.New("boom") }))
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error { panic("bad handler") }))
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error { reached = true; return nil }))

	err := bus.Publish(shared.NewStreakUpdatedEvent("default", 1, time.Now()))
	assert.NoError(t, err)
	assert.True(t, reached)
	assert.Equal(t, 2, obs.failures)
}

func TestInMemoryEventBus_Async(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: true, WorkerPoolSize: 2})

	var count atomic.Int32
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error {
		count.Add(1)
		return nil
	}))

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(shared.NewStreakUpdatedEvent("default", i, time.Now())))
	}
	require.NoError(t, bus.Close())
	assert.Equal(t, int32(10), count.Load())
}

func TestInMemoryEventBus_Closed(t *testing.T) {
	bus := NewInMemoryEventBus(DefaultInMemoryEventBusConfig())
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(shared.NewStreakUpdatedEvent("default", 1, time.Now())), ErrEventBusClosed)
	assert.ErrorIs(t, bus.SubscribeAll(func(shared.Event) error { return nil }), ErrEventBusClosed)
	assert.Error(t, bus.Publish(nil))
}
