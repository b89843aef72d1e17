package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_InMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(InMemoryConfig(), nil)
	require.NoError(t, err)
	defer s.Close()

	_, found, err := s.Get(ctx, "rnacademy:default:plan")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "rnacademy:default:plan", `{"level":"beginner"}`))
	v, found, err := s.Get(ctx, "rnacademy:default:plan")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"level":"beginner"}`, v)

	require.NoError(t, s.Set(ctx, "rnacademy:other:plan", `{}`))
	keys, err := s.Keys(ctx, "rnacademy:default:")
	require.NoError(t, err)
	assert.Equal(t, []string{"rnacademy:default:plan"}, keys)

	require.NoError(t, s.Delete(ctx, "rnacademy:default:plan"))
	_, found, err = s.Get(ctx, "rnacademy:default:plan")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, s.Ping(ctx))
}

func TestStore_Persistent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := DefaultConfig(dir)
	cfg.GCInterval = 0

	s, err := Open(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	s, err = Open(cfg, nil)
	require.NoError(t, err)
	defer s.Close()

	v, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{}, nil)
	assert.Error(t, err)
}
