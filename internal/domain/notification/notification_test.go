package notification

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/pkg/timeutil"
)

func TestNew(t *testing.T) {
	now := time.Now()
	n, err := New(TypeFocusCompleted, "Focus Session Complete!", "Great work!", now)
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, StatusPending, n.Status)
	assert.Equal(t, "Focus Session Complete!: Great work!", n.String())

	_, err = New("party", "x", "", now)
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = New(TypeComeback, "", "", now)
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestStatusTransitions(t *testing.T) {
	n, err := New(TypeDayCompleted, "Day Completed!", "", time.Now())
	require.NoError(t, err)

	require.NoError(t, n.MarkDelivered(time.Now()))
	assert.Equal(t, StatusDelivered, n.Status)
	assert.ErrorIs(t, n.MarkSkipped("late"), ErrAlreadyFinished)
	assert.ErrorIs(t, n.MarkFailed(errors.New("x")), ErrAlreadyFinished)
}

func TestGate(t *testing.T) {
	noon := time.Date(2025, 1, 1, 12, 0, 0, 0, timeutil.DhakaTZ)
	midnight := time.Date(2025, 1, 1, 0, 30, 0, 0, timeutil.DhakaTZ)
	all := document.DefaultPreferences().Notifications
	none := document.NotificationPrefs{}
	dailyOnly := document.NotificationPrefs{DailyReminder: true}

	tests := []struct {
		name   string
		gate   Gate
		typ    Type
		prefs  document.NotificationPrefs
		at     time.Time
		reason string
	}{
		{"allowed", Gate{Permission: true}, TypeDayCompleted, all, noon, ""},
		{"no permission", Gate{}, TypeDayCompleted, all, noon, ReasonNoPermission},
		{"all disabled", Gate{Permission: true}, TypeFocusCompleted, none, noon, ReasonAllDisabled},
		{"one enabled is enough", Gate{Permission: true}, TypeFocusCompleted, dailyOnly, noon, ""},
		{"comeback toggle", Gate{Permission: true}, TypeComeback, dailyOnly, noon, ReasonComebackDisabled},
		{"quiet hours ignored", Gate{Permission: true}, TypeDayCompleted, all, midnight, ""},
		{"quiet hours", Gate{Permission: true, RespectQuietHours: true}, TypeDayCompleted, all, midnight, ReasonQuietHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.gate.Check(tt.typ, tt.prefs, tt.at)
			assert.Equal(t, tt.reason == "", d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}
