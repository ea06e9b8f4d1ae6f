// Package notification contains the notification model: what gets sent,
// through which channel, and the rules that decide whether it is sent.
package notification

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION TYPE
// ══════════════════════════════════════════════════════════════════════════════

// Type identifies why a notification is sent.
type Type string

const (
	TypeActivated      Type = "activated"
	TypeDayCompleted   Type = "day_completed"
	TypeFocusCompleted Type = "focus_completed"
	TypeComeback       Type = "comeback"
	TypeLevelUp        Type = "level_up"
)

// IsValid reports whether t is a known type.
func (t Type) IsValid() bool {
	switch t {
	case TypeActivated, TypeDayCompleted, TypeFocusCompleted, TypeComeback, TypeLevelUp:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	return string(t)
}

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// Status is the delivery state of a notification.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// IsFinal reports whether the status can no longer change.
func (s Status) IsFinal() bool {
	return s == StatusDelivered || s == StatusSkipped || s == StatusFailed
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION
// ══════════════════════════════════════════════════════════════════════════════

var (
	ErrEmptyTitle      = errors.New("notification title is required")
	ErrInvalidType     = errors.New("invalid notification type")
	ErrAlreadyFinished = errors.New("notification already finished")
)

// Notification is one title/body message.
type Notification struct {
	ID        string
	Type      Type
	Title     string
	Body      string
	CreatedAt time.Time

	Status      Status
	Reason      string // why it was skipped or failed
	DeliveredAt time.Time
}

// New creates a pending notification.
func New(t Type, title, body string, now time.Time) (*Notification, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}
	return &Notification{
		ID:        uuid.NewString(),
		Type:      t,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		Status:    StatusPending,
	}, nil
}

// MarkDelivered records a successful send.
func (n *Notification) MarkDelivered(at time.Time) error {
	if n.Status.IsFinal() {
		return ErrAlreadyFinished
	}
	n.Status = StatusDelivered
	n.DeliveredAt = at
	return nil
}

// MarkSkipped records that a rule stopped the send.
func (n *Notification) MarkSkipped(reason string) error {
	if n.Status.IsFinal() {
		return ErrAlreadyFinished
	}
	n.Status = StatusSkipped
	n.Reason = reason
	return nil
}

// MarkFailed records a channel error.
func (n *Notification) MarkFailed(err error) error {
	if n.Status.IsFinal() {
		return ErrAlreadyFinished
	}
	n.Status = StatusFailed
	if err != nil {
		n.Reason = err.Error()
	}
	return nil
}

// String returns a one-line form for logs and the console channel.
func (n *Notification) String() string {
	if n.Body == "" {
		return n.Title
	}
	return n.Title + ": " + n.Body
}
