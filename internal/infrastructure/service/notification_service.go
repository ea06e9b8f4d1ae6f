package service

import (
	"context"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/notification"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/pkg/logger"
	"github.com/brayner/brayner/pkg/timeutil"
)

// Texts of the notification fired when reminders are switched on.
const (
	ActivatedTitle = "BRAYNER"
	ActivatedBody  = "Notifications are now active. Prepare for your comeback."
)

// NotificationService implements notification.Sender. It reads the user's
// reminder preferences on every send, so toggles apply immediately.
type NotificationService struct {
	repo    document.Repository
	channel notification.Channel
	gate    notification.Gate
	clock   timeutil.Clock
	log     *logger.Logger
}

// NewNotificationService creates a service delivering through channel.
func NewNotificationService(repo document.Repository, channel notification.Channel, gate notification.Gate, clock timeutil.Clock, log *logger.Logger) *NotificationService {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &NotificationService{
		repo:    repo,
		channel: channel,
		gate:    gate,
		clock:   clock,
		log:     log.With(logger.Component("notifications"), logger.String("channel", channel.Type().String())),
	}
}

// Notify builds a notification and delivers it unless the gate says no.
// A skipped notification is not an error; a channel failure is reported as
// shared.ErrNotificationFailed.
func (s *NotificationService) Notify(ctx context.Context, t notification.Type, title, body string) (*notification.Notification, error) {
	now := s.clock.Now()
	n, err := notification.New(t, title, body, now)
	if err != nil {
		return nil, err
	}

	prefs := s.repo.Load(ctx).Preferences.Notifications
	if d := s.gate.Check(t, prefs, now); !d.Allowed {
		_ = n.MarkSkipped(d.Reason)
		s.log.Debug("notification skipped",
			logger.String("type", t.String()),
			logger.String("reason", d.Reason),
		)
		return n, nil
	}

	if err := s.channel.Send(ctx, n); err != nil {
		_ = n.MarkFailed(err)
		s.log.Warn("notification failed", logger.String("type", t.String()), logger.Err(err))
		return n, shared.ErrNotificationFailed.Wrap(err)
	}

	_ = n.MarkDelivered(s.clock.Now())
	s.log.Info("notification delivered", logger.String("type", t.String()), logger.String("id", n.ID))
	return n, nil
}

// Activate fires the confirmation sent right after reminders are enabled.
func (s *NotificationService) Activate(ctx context.Context) (*notification.Notification, error) {
	return s.Notify(ctx, notification.TypeActivated, ActivatedTitle, ActivatedBody)
}

var _ notification.Sender = (*NotificationService)(nil)
