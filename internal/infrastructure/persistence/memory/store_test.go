package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, found, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "a", "2"))

	v, found, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2", v)
	assert.Equal(t, 1, s.Len())
}

func TestStore_KeysAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, k := range []string{"ns:p:b", "ns:p:a", "ns:q:a"} {
		require.NoError(t, s.Set(ctx, k, "x"))
	}

	keys, err := s.Keys(ctx, "ns:p:")
	require.NoError(t, err)
	assert.Equal(t, []string{"ns:p:a", "ns:p:b"}, keys)

	require.NoError(t, s.Delete(ctx, "ns:p:a", "missing"))
	assert.Equal(t, 2, s.Len())
}

func TestStore_Fault(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("disk unavailable")

	s.SetFault(func(op, key string) error {
		if op == "set" {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, s.Set(ctx, "a", "1"), boom)

	_, _, err := s.Get(ctx, "a")
	assert.NoError(t, err)

	s.SetFault(nil)
	assert.NoError(t, s.Set(ctx, "a", "1"))
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewStore().Get(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}
