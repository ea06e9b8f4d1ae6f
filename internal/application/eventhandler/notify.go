// Package eventhandler reacts to progress events published by the ledger.
package eventhandler

import (
	"context"
	"fmt"
	"time"

	"github.com/brayner/brayner/internal/application/settings"
	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/notification"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/pkg/logger"
)

// Subscriber is the part of the event bus handlers register with.
type Subscriber interface {
	Subscribe(eventType shared.EventType, handler shared.EventHandler) error
	SubscribeAll(handler shared.EventHandler) error
}

// ═══════════════════════════════════════════════════════════════════════════
// NOTIFICATION HANDLER
// Turns progress events into user notifications in the preferred language.
// ═══════════════════════════════════════════════════════════════════════════

// NotificationHandler sends a notification for day, focus, comeback and
// level events.
type NotificationHandler struct {
	sender  notification.Sender
	repo    document.Repository
	log     *logger.Logger
	timeout time.Duration
	allow   func(notification.Type) bool
}

// NewNotificationHandler creates a handler. repo supplies the language.
func NewNotificationHandler(sender notification.Sender, repo document.Repository, log *logger.Logger) *NotificationHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &NotificationHandler{
		sender:  sender,
		repo:    repo,
		log:     log.With(logger.Component("eventhandler")),
		timeout: 15 * time.Second,
	}
}

// SetFilter restricts which notification types are sent. nil allows all.
func (h *NotificationHandler) SetFilter(allow func(notification.Type) bool) {
	h.allow = allow
}

// Register subscribes every handler method to its event type.
func (h *NotificationHandler) Register(bus Subscriber) error {
	subs := []struct {
		eventType shared.EventType
		handler   shared.EventHandler
	}{
		{shared.EventDayAdvanced, h.OnDayAdvanced},
		{shared.EventFocusCompleted, h.OnFocusCompleted},
		{shared.EventDaysMissed, h.OnDaysMissed},
		{shared.EventLevelUp, h.OnLevelUp},
	}
	for _, s := range subs {
		if err := bus.Subscribe(s.eventType, s.handler); err != nil {
			return fmt.Errorf("subscribe %s: %w", s.eventType, err)
		}
	}
	return nil
}

// OnDayAdvanced congratulates the user on a completed day.
func (h *NotificationHandler) OnDayAdvanced(event shared.Event) error {
	e, ok := event.(shared.DayAdvancedEvent)
	if !ok {
		return unexpected(event)
	}
	return h.send(notification.TypeDayCompleted, dayCompletedMsg, e.Day)
}

// OnFocusCompleted confirms a finished focus session.
func (h *NotificationHandler) OnFocusCompleted(event shared.Event) error {
	e, ok := event.(shared.FocusCompletedEvent)
	if !ok {
		return unexpected(event)
	}
	return h.send(notification.TypeFocusCompleted, focusCompletedMsg, e.Minutes)
}

// OnDaysMissed nudges the user back after missed days.
func (h *NotificationHandler) OnDaysMissed(event shared.Event) error {
	e, ok := event.(shared.DaysMissedEvent)
	if !ok {
		return unexpected(event)
	}
	if len(e.Days) == 0 {
		return nil
	}
	return h.send(notification.TypeComeback, comebackMsg, len(e.Days), e.UnlockedDay)
}

// OnLevelUp announces a new level.
func (h *NotificationHandler) OnLevelUp(event shared.Event) error {
	e, ok := event.(shared.LevelUpEvent)
	if !ok {
		return unexpected(event)
	}
	return h.send(notification.TypeLevelUp, levelUpMsg, e.NewLevel, e.Label)
}

func (h *NotificationHandler) send(t notification.Type, c catalog, args ...any) error {
	if h.allow != nil && !h.allow(t) {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	lang := settings.EffectiveLanguage(h.repo.Load(ctx).Preferences.Language)
	title, body := c.get(lang).format(args...)

	n, err := h.sender.Notify(ctx, t, title, body)
	if err != nil {
		return err
	}
	if n.Status == notification.StatusSkipped {
		h.log.Debug("notification not sent", logger.String("type", t.String()), logger.String("reason", n.Reason))
	}
	return nil
}

func unexpected(event shared.Event) error {
	return fmt.Errorf("eventhandler: unexpected event %T for %s", event, event.EventType())
}
