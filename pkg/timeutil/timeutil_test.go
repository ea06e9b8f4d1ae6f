package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey_UsesConfiguredLocation(t *testing.T) {
	// 20:30 UTC is already the next day in Dhaka.
	ts := time.Date(2025, 3, 3, 20, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-04", DateKey(ts))

	SetLocation(time.UTC)
	defer SetLocation(nil)
	assert.Equal(t, "2025-03-03", DateKey(ts))
}

func TestLoadLocation(t *testing.T) {
	l, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, DhakaTZ, l)

	l, err = LoadLocation("Asia/Dhaka")
	require.NoError(t, err)
	assert.Equal(t, DhakaTZ, l)

	_, err = LoadLocation("Mars/Olympus")
	assert.Error(t, err)
}

func TestDaysBetweenKeys(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2025-03-01", "2025-03-01", 0},
		{"2025-03-01", "2025-03-04", 3},
		{"2025-02-27", "2025-03-01", 2},
		{"2024-02-28", "2024-03-01", 2},
		{"2025-03-04", "2025-03-01", -3},
	}
	for _, tt := range tests {
		got, err := DaysBetweenKeys(tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.a, tt.b)
	}

	_, err := DaysBetweenKeys("03/01/2025", "2025-03-01")
	assert.Error(t, err)
}

func TestFixedClock(t *testing.T) {
	c := NewFixedClock(time.Date(2025, 3, 3, 22, 0, 0, 0, DhakaTZ))
	assert.Equal(t, "2025-03-03", Today(c))

	c.AddDays(1)
	assert.Equal(t, "2025-03-04", Today(c))
}

func TestIsSafeNotificationTime(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2025, 3, 3, h, m, 0, 0, DhakaTZ) }
	assert.False(t, IsSafeNotificationTime(at(23, 0)))
	assert.False(t, IsSafeNotificationTime(at(6, 59)))
	assert.True(t, IsSafeNotificationTime(at(7, 0)))
	assert.True(t, IsSafeNotificationTime(at(22, 59)))
}
