package eventhandler

import (
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/pkg/logger"
)

// AuditLog writes every published event to the structured log.
type AuditLog struct {
	log *logger.Logger
}

// NewAuditLog creates an AuditLog.
func NewAuditLog(log *logger.Logger) *AuditLog {
	if log == nil {
		log = logger.NewNop()
	}
	return &AuditLog{log: log.With(logger.Component("audit"))}
}

// Register subscribes to all events.
func (a *AuditLog) Register(bus Subscriber) error {
	return bus.SubscribeAll(a.Handle)
}

// Handle logs the event type, aggregate and payload.
func (a *AuditLog) Handle(event shared.Event) error {
	a.log.Debug("event",
		logger.String("event_type", string(event.EventType())),
		logger.UserID(event.AggregateID()),
		logger.Any("payload", event.Payload()),
	)
	return nil
}
