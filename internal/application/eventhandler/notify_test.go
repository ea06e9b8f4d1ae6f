package eventhandler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/notification"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/internal/infrastructure/messaging"
	"github.com/brayner/brayner/internal/infrastructure/persistence/store"
)

type sent struct {
	t     notification.Type
	title string
	body  string
}

type fakeSender struct {
	sent []sent
}

func (f *fakeSender) Notify(_ context.Context, t notification.Type, title, body string) (*notification.Notification, error) {
	f.sent = append(f.sent, sent{t, title, body})
	return &notification.Notification{Type: t, Title: title, Body: body, Status: notification.StatusDelivered}, nil
}

func setup(t *testing.T, lang document.Language) (*messaging.InMemoryEventBus, *fakeSender) {
	t.Helper()
	st := store.New(store.NewMemoryBackend(), nil)
	prefs := document.DefaultPreferences()
	prefs.Language = lang
	st.Update(context.Background(), document.Partial{Preferences: &prefs})

	bus := messaging.NewInMemoryEventBus(messaging.DefaultInMemoryEventBusConfig())
	t.Cleanup(func() { _ = bus.Close() })

	sender := &fakeSender{}
	require.NoError(t, NewNotificationHandler(sender, st, nil).Register(bus))
	require.NoError(t, NewAuditLog(nil).Register(bus))
	return bus, sender
}

func TestNotificationHandler_English(t *testing.T) {
	bus, sender := setup(t, document.LanguageEnglish)

	require.NoError(t, bus.Publish(shared.NewDayAdvancedEvent("u1", 3, 2, "2025-03-03")))
	require.NoError(t, bus.Publish(shared.NewFocusCompletedEvent("u1", 25, 50)))
	require.NoError(t, bus.Publish(shared.NewDaysMissedEvent("u1", []int{4, 5}, 6)))
	require.NoError(t, bus.Publish(shared.NewLevelUpEvent("u1", 1, 2, "Consistent")))

	assert.Equal(t, []sent{
		{notification.TypeDayCompleted, "Day Completed!", "Congratulations! You have completed Day 3."},
		{notification.TypeFocusCompleted, "Focus Session Complete!", "Your 25-minute focus session is done. Great work!"},
		{notification.TypeComeback, "Time for your comeback", "You missed 2 day(s). Day 6 is waiting for you."},
		{notification.TypeLevelUp, "Level Up!", "You reached Level 2: Consistent."},
	}, sender.sent)
}

func TestNotificationHandler_SystemLanguageUsesBangla(t *testing.T) {
	bus, sender := setup(t, document.LanguageSystem)

	require.NoError(t, bus.Publish(shared.NewDayAdvancedEvent("u1", 1, 1, "2025-03-01")))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "দিন সম্পন্ন!", sender.sent[0].title)
	assert.Contains(t, sender.sent[0].body, "1")
}

func TestNotificationHandler_IgnoresOtherEvents(t *testing.T) {
	bus, sender := setup(t, document.LanguageEnglish)

	require.NoError(t, bus.Publish(shared.NewTaskCompletedEvent("u1", "t1", "2025-03-01")))
	require.NoError(t, bus.Publish(shared.NewDaysMissedEvent("u1", nil, 2)))
	assert.Empty(t, sender.sent)
}

func TestNotificationHandler_RejectsWrongPayload(t *testing.T) {
	h := NewNotificationHandler(&fakeSender{}, store.New(store.NewMemoryBackend(), nil), nil)
	err := h.OnLevelUp(shared.NewFocusCompletedEvent("u1", 25, 50))
	assert.Error(t, err)
}

func TestNotificationHandler_Filter(t *testing.T) {
	st := store.New(store.NewMemoryBackend(), nil)
	sender := &fakeSender{}
	h := NewNotificationHandler(sender, st, nil)
	h.SetFilter(func(nt notification.Type) bool { return nt != notification.TypeLevelUp })

	require.NoError(t, h.OnLevelUp(shared.NewLevelUpEvent("u1", 1, 2, "Consistent")))
	require.NoError(t, h.OnFocusCompleted(shared.NewFocusCompletedEvent("u1", 25, 50)))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, notification.TypeFocusCompleted, sender.sent[0].t)
}
