package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClock_UsesLocation(t *testing.T) {
	almaty := time.FixedZone("Asia/Almaty", 5*60*60)

	assert.Equal(t, almaty, NewSystemClock(almaty).Now().Location())
	assert.Equal(t, time.UTC, NewSystemClock(nil).Now().Location())
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
	clock := NewFixedClock(start)

	clock.AddDays(1)
	assert.Equal(t, time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC), clock.Now())

	clock.Set(start)
	assert.Equal(t, start, clock.Now())
}
