package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rn-academy/progress-hub/internal/domain/notification"
	"github.com/rn-academy/progress-hub/pkg/logger"
)

func mustNotification(t *testing.T, profile, title string) *notification.Notification {
	t.Helper()
	n, err := notification.New(profile, notification.TypeAchievement, title, "", time.Now())
	require.NoError(t, err)
	return n
}

func TestInbox_DrainAndCap(t *testing.T) {
	ctx := context.Background()
	inbox := NewInbox(2)

	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, inbox.Send(ctx, mustNotification(t, "default", title)))
	}
	require.NoError(t, inbox.Send(ctx, mustNotification(t, "other", "x")))

	got := inbox.Drain("default")
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Title)
	assert.Equal(t, "c", got[1].Title)
	assert.Empty(t, inbox.Drain("default"))
	assert.Len(t, inbox.Drain("other"), 1)
}

func TestLogSender_WritesLine(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf, Level: logger.LevelInfo, Format: "json"})

	n := mustNotification(t, "default", "First Steps").WithMetadata("achievement_id", "first_lesson")
	require.NoError(t, NewLogSender(log).Send(context.Background(), n))

	out := buf.String()
	assert.Contains(t, out, "First Steps")
	assert.Contains(t, out, `"achievement_id":"first_lesson"`)
	assert.Contains(t, out, `"component":"notifier"`)
}

func TestFanout_JoinsErrors(t *testing.T) {
	inbox := NewInbox(0)
	boom := errors.New("boom")
	failing := notification.SenderFunc(func(context.Context, *notification.Notification) error { return boom })

	err := Fanout{failing, inbox}.Send(context.Background(), mustNotification(t, "default", "t"))
	assert.ErrorIs(t, err, boom)
	assert.Len(t, inbox.Drain("default"), 1)
}
