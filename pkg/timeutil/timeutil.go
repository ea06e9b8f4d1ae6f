// Package timeutil provides local-calendar date helpers.
// Progress is keyed by the learner's local calendar day, so every date key
// is computed in a configured location (Asia/Dhaka by default, UTC+6, no DST).
package timeutil

import (
	"fmt"
	"sync"
	"time"
)

// DateLayout is the canonical date key format.
const DateLayout = "2006-01-02"

// DhakaTZ is the default location. Bangladesh has not observed DST since 2009.
var DhakaTZ = time.FixedZone("Asia/Dhaka", 6*60*60)

var (
	locMu sync.RWMutex
	loc   = DhakaTZ
)

// SetLocation replaces the location used for date keys. nil resets to DhakaTZ.
func SetLocation(l *time.Location) {
	locMu.Lock()
	defer locMu.Unlock()
	if l == nil {
		l = DhakaTZ
	}
	loc = l
}

// Location returns the location used for date keys.
func Location() *time.Location {
	locMu.RLock()
	defer locMu.RUnlock()
	return loc
}

// LoadLocation resolves an IANA name, falling back to DhakaTZ for empty input.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return DhakaTZ, nil
	}
	if name == "Asia/Dhaka" {
		return DhakaTZ, nil
	}
	l, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", name, err)
	}
	return l, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CLOCK
// ══════════════════════════════════════════════════════════════════════════════

// Clock abstracts the wall clock so date logic can be tested.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now().In(Location()) }

// FixedClock is a settable clock for tests and replays.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock creates a FixedClock at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

// Now returns the frozen time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// AddDays moves the clock forward by n calendar days.
func (c *FixedClock) AddDays(n int) {
	c.mu.Lock()
	c.t = c.t.AddDate(0, 0, n)
	c.mu.Unlock()
}

// ══════════════════════════════════════════════════════════════════════════════
// DATE KEYS
// ══════════════════════════════════════════════════════════════════════════════

// DateKey formats t as a local calendar date key.
func DateKey(t time.Time) string {
	return t.In(Location()).Format(DateLayout)
}

// Today returns the date key of clock's current instant.
func Today(c Clock) string {
	return DateKey(c.Now())
}

// DaysBetweenKeys returns the number of calendar days from a to b.
// Arithmetic runs on the civil date in UTC so offsets cannot skew the count.
func DaysBetweenKeys(a, b string) (int, error) {
	ta, err := time.Parse(DateLayout, a)
	if err != nil {
		return 0, fmt.Errorf("parse date key %q: %w", a, err)
	}
	tb, err := time.Parse(DateLayout, b)
	if err != nil {
		return 0, fmt.Errorf("parse date key %q: %w", b, err)
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// QUIET HOURS
// ══════════════════════════════════════════════════════════════════════════════

// Quiet hours for reminders.
const (
	QuietStart = 23
	QuietEnd   = 7
)

// IsSafeNotificationTime reports whether reminders may be sent at t.
func IsSafeNotificationTime(t time.Time) bool {
	h := t.In(Location()).Hour()
	return h >= QuietEnd && h < QuietStart
}
