package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_InMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, found, err := s.Get(ctx, "ns:default:goals")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "ns:default:goals", "[]"))
	require.NoError(t, s.Set(ctx, "ns:default:goals", `[{"id":"g1"}]`))
	require.NoError(t, s.Set(ctx, "ns:other:goals", "[]"))

	v, found, err := s.Get(ctx, "ns:default:goals")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"g1"}]`, v)

	keys, err := s.Keys(ctx, "ns:default:")
	require.NoError(t, err)
	assert.Equal(t, []string{"ns:default:goals"}, keys)

	require.NoError(t, s.Delete(ctx, "ns:default:goals", "ns:other:goals"))
	keys, err = s.Keys(ctx, "ns:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStore_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "academy.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)
	assert.NoError(t, s.Ping(ctx))
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
