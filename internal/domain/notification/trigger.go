package notification

import (
	"time"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/pkg/timeutil"
)

// Skip reasons reported by Gate.Check.
const (
	ReasonNoPermission     = "permission not granted"
	ReasonAllDisabled      = "all reminders disabled"
	ReasonComebackDisabled = "comeback reminders disabled"
	ReasonQuietHours       = "quiet hours"
)

// Gate decides whether a notification may be sent.
type Gate struct {
	// Permission mirrors the platform notification permission.
	Permission bool

	// RespectQuietHours holds notifications back late at night.
	RespectQuietHours bool
}

// Decision is the outcome of a gate check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Check applies the rules in order: permission, at least one reminder kind
// enabled, the comeback toggle for comeback notifications, quiet hours.
func (g Gate) Check(t Type, prefs document.NotificationPrefs, now time.Time) Decision {
	if !g.Permission {
		return Decision{Reason: ReasonNoPermission}
	}
	if !prefs.AnyEnabled() {
		return Decision{Reason: ReasonAllDisabled}
	}
	if t == TypeComeback && !prefs.ComebackReminder {
		return Decision{Reason: ReasonComebackDisabled}
	}
	if g.RespectQuietHours && !timeutil.IsSafeNotificationTime(now) {
		return Decision{Reason: ReasonQuietHours}
	}
	return Decision{Allowed: true}
}
