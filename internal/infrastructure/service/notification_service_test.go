package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/notification"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/internal/infrastructure/persistence/store"
	"github.com/brayner/brayner/pkg/timeutil"
)

type recordingChannel struct {
	sent []*notification.Notification
	err  error
}

func (c *recordingChannel) Type() notification.ChannelType { return notification.ChannelTypeLog }

func (c *recordingChannel) Send(_ context.Context, n *notification.Notification) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, n)
	return nil
}

func newService(t *testing.T, ch notification.Channel, gate notification.Gate, hour int) (*NotificationService, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemoryBackend(), nil)
	clock := timeutil.NewFixedClock(time.Date(2025, 3, 1, hour, 0, 0, 0, timeutil.DhakaTZ))
	return NewNotificationService(st, ch, gate, clock, nil), st
}

func TestNotify_Delivers(t *testing.T) {
	ch := &recordingChannel{}
	svc, _ := newService(t, ch, notification.Gate{Permission: true}, 10)

	n, err := svc.Notify(context.Background(), notification.TypeDayCompleted, "Day Completed!", "Congratulations! You have completed Day 1.")
	require.NoError(t, err)
	assert.Equal(t, notification.StatusDelivered, n.Status)
	require.Len(t, ch.sent, 1)
	assert.Equal(t, "Day Completed!", ch.sent[0].Title)
}

func TestNotify_SkipsWhenGateCloses(t *testing.T) {
	ctx := context.Background()

	t.Run("no permission", func(t *testing.T) {
		ch := &recordingChannel{}
		svc, _ := newService(t, ch, notification.Gate{}, 10)

		n, err := svc.Notify(ctx, notification.TypeLevelUp, "Level up", "")
		require.NoError(t, err)
		assert.Equal(t, notification.StatusSkipped, n.Status)
		assert.Equal(t, notification.ReasonNoPermission, n.Reason)
		assert.Empty(t, ch.sent)
	})

	t.Run("comeback toggled off", func(t *testing.T) {
		ch := &recordingChannel{}
		svc, st := newService(t, ch, notification.Gate{Permission: true}, 10)
		prefs := document.DefaultPreferences()
		prefs.Notifications.ComebackReminder = false
		st.Update(ctx, document.Partial{Preferences: &prefs})

		n, err := svc.Notify(ctx, notification.TypeComeback, "Come back", "")
		require.NoError(t, err)
		assert.Equal(t, notification.ReasonComebackDisabled, n.Reason)

		n, err = svc.Notify(ctx, notification.TypeFocusCompleted, "Focus Session Complete!", "")
		require.NoError(t, err)
		assert.Equal(t, notification.StatusDelivered, n.Status)
		assert.Len(t, ch.sent, 1)
	})

	t.Run("quiet hours", func(t *testing.T) {
		ch := &recordingChannel{}
		svc, _ := newService(t, ch, notification.Gate{Permission: true, RespectQuietHours: true}, 23)

		n, err := svc.Notify(ctx, notification.TypeDayCompleted, "Day Completed!", "")
		require.NoError(t, err)
		assert.Equal(t, notification.ReasonQuietHours, n.Reason)
	})
}

func TestNotify_ChannelFailure(t *testing.T) {
	boom := errors.New("socket closed")
	svc, _ := newService(t, &recordingChannel{err: boom}, notification.Gate{Permission: true}, 10)

	n, err := svc.Notify(context.Background(), notification.TypeLevelUp, "Level up", "")
	assert.ErrorIs(t, err, shared.ErrNotificationFailed)
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, n)
	assert.Equal(t, notification.StatusFailed, n.Status)
}

func TestNotify_InvalidType(t *testing.T) {
	svc, _ := newService(t, &recordingChannel{}, notification.Gate{Permission: true}, 10)
	_, err := svc.Notify(context.Background(), "fireworks", "x", "")
	assert.ErrorIs(t, err, notification.ErrInvalidType)
}

func TestActivate_PrintsToConsole(t *testing.T) {
	var buf bytes.Buffer
	svc, _ := newService(t, NewConsoleChannel(&buf), notification.Gate{Permission: true}, 10)

	n, err := svc.Activate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, notification.TypeActivated, n.Type)
	assert.Equal(t, "🔔 BRAYNER: Notifications are now active. Prepare for your comeback.\n", buf.String())
}
