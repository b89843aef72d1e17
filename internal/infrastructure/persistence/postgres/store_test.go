package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := Open(ctx, Config{URL: url})
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = s.conn.Exec(ctx, `DELETE FROM kv_records WHERE key LIKE 'test:%'`)
		_ = s.Close()
	})
	return s
}

func TestStore_GetSetUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, found, err := s.Get(ctx, "test:default:plan")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "test:default:plan", `{"streak_days":1}`))
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

func TestMigrator_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := NewMigrator(s.conn)
	require.NoError(t, m.Migrate(ctx))

	status, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.True(t, status[0].IsApplied)
}

func TestConfig_DSN(t *testing.T) {
	cfg := DefaultConfig()
	assert.Contains(t, cfg.DSN(), "dbname=academy")

	cfg.URL = "postgres://u:p@h:5432/db"
	assert.Equal(t, "postgres://u:p@h:5432/db", cfg.DSN())
}
