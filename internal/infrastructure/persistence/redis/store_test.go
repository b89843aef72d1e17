package redis

import (
	"context"
	"os"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return NewStoreFromClient(client)
}

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, found, err := s.Get(ctx, "test:default:plan")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "test:default:plan", `{"streak_days":2}`))
	v, found, err := s.Get(ctx, "test:default:plan")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"streak_days":2}`, v)

	keys, err := s.Keys(ctx, "test:default:")
	require.NoError(t, err)
	assert.Equal(t, []string{"test:default:plan"}, keys)

	require.NoError(t, s.Delete(ctx, "test:default:plan"))
	_, found, err = s.Get(ctx, "test:default:plan")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_EmptyKey(t *testing.T) {
	s := NewStoreFromClient(goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"}))
	defer s.Close()

	_, _, err := s.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrKeyEmpty)
	assert.ErrorIs(t, s.Set(context.Background(), "", "x"), ErrKeyEmpty)
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, "localhost:6379", DefaultConfig().Addr())
}
