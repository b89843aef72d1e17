package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistent key-value port every repository is built on.
// Values are opaque strings (JSON text in practice). Get reports found=false
// for a missing key rather than an error. Implementations live in
// infrastructure/persistence and are injected by the composition root.
//
// There is no compare-and-swap: a read-modify-write by two writers on the same
// key resolves as last write wins.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Clock is the time source injected wherever "today" matters.
type Clock interface {
	Now() time.Time
}

// NewID generates a time-ordered identifier for user-created records.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
