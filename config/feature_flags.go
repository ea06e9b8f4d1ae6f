package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages feature toggles for the coach and notifications.
type FeatureFlags struct {
	mu       sync.RWMutex
	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// Predefined feature flag names.
const (
	// === Coach Features ===
	FeatureCoachChat     = "coach.chat"     // Conversational mentor
	FeatureCoachAnalysis = "coach.analysis" // Structured weakness analysis
	FeatureCoachSupport  = "coach.support"  // Short support messages

	// === Notification Features ===
	FeatureNotifyDayCompleted   = "notify.day_completed"
	FeatureNotifyFocusCompleted = "notify.focus_completed"
	FeatureNotifyComeback       = "notify.comeback"
	FeatureNotifyLevelUp        = "notify.level_up"
	FeatureNotifyActivated      = "notify.activated"
)

// LoadFeatureFlags builds the flag set: defaults, then overrides (the
// config file's features map), then FEATURE_* environment variables.
// An override naming an unknown feature is an error.
func LoadFeatureFlags(overrides map[string]bool) (*FeatureFlags, error) {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}
	ff.initializeDefaults()
	for name, on := range overrides {
		if err := ff.SetEnabled(name, on); err != nil {
			return nil, fmt.Errorf("features.%s: %w", name, err)
		}
	}
	ff.loadFromEnvironment()
	return ff, nil
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	defaults := []Feature{
		{Name: FeatureCoachChat, Description: "Chat with the AI mentor", Enabled: true},
		{Name: FeatureCoachAnalysis, Description: "Analyze practice and record weak areas", Enabled: true},
		{Name: FeatureCoachSupport, Description: "Calm support messages", Enabled: true},

		{Name: FeatureNotifyDayCompleted, Description: "Congratulate on a completed day", Enabled: true},
		{Name: FeatureNotifyFocusCompleted, Description: "Confirm finished focus sessions", Enabled: true},
		{Name: FeatureNotifyComeback, Description: "Nudge after missed days", Enabled: true},
		{Name: FeatureNotifyLevelUp, Description: "Announce a new level", Enabled: false}, // can be noisy early on
		{Name: FeatureNotifyActivated, Description: "Confirm that reminders are on", Enabled: true},
	}
	for i := range defaults {
		f := defaults[i]
		ff.features[f.Name] = &f
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false
// Example: FEATURE_COACH_ANALYSIS=false
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		if val := os.Getenv(featureNameToEnvKey(name)); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "coach.chat" -> "FEATURE_COACH_CHAT"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is on. Unknown names are off.
func (ff *FeatureFlags) IsEnabled(featureName string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	return ok && feature.Enabled
}

// SetEnabled toggles a feature. Thread-safe for live updates.
func (ff *FeatureFlags) SetEnabled(featureName string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}
	feature.Enabled = enabled
	return nil
}

// --- Convenience methods for common checks ---

// NotificationEnabled checks the flag for a notification kind such as
// "day_completed".
func (ff *FeatureFlags) NotificationEnabled(kind string) bool {
	return ff.IsEnabled("notify." + kind)
}

// CoachFeaturesEnabled checks if any coach feature is on.
func (ff *FeatureFlags) CoachFeaturesEnabled() bool {
	return ff.IsEnabled(FeatureCoachChat) ||
		ff.IsEnabled(FeatureCoachAnalysis) ||
		ff.IsEnabled(FeatureCoachSupport)
}

// --- Errors ---

var ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
