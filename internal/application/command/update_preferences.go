// Package command contains write operations that combine a partial user
// request with the stored state.
package command

import (
	"context"
	"fmt"

	"github.com/brayner/brayner/internal/domain/document"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PREFERENCES COMMAND
// Changes individual preference fields, leaving the rest untouched.
// ══════════════════════════════════════════════════════════════════════════════

// UpdatePreferencesCommand contains the data to update preferences.
// Only non-nil values are applied.
type UpdatePreferencesCommand struct {
	Theme            *document.Theme
	Language         *document.Language
	DisciplineMode   *document.DisciplineMode
	DailyReminder    *bool
	ComebackReminder *bool
	RevisionReminder *bool
	SoundEnabled     *bool
	VibrationEnabled *bool
}

// IsEmpty reports whether the command changes nothing.
func (c UpdatePreferencesCommand) IsEmpty() bool {
	return c.Theme == nil && c.Language == nil && c.DisciplineMode == nil &&
		c.DailyReminder == nil && c.ComebackReminder == nil && c.RevisionReminder == nil &&
		c.SoundEnabled == nil && c.VibrationEnabled == nil
}

// UpdatePreferencesResult contains the result of updating preferences.
type UpdatePreferencesResult struct {
	Preferences   document.Preferences
	ChangedFields []string
}

// PreferencesStore reads and replaces the preferences section.
type PreferencesStore interface {
	Get(ctx context.Context) document.Preferences
	Save(ctx context.Context, p document.Preferences) (document.Preferences, error)
}

// UpdatePreferencesHandler handles the UpdatePreferencesCommand.
type UpdatePreferencesHandler struct {
	prefs PreferencesStore
}

// NewUpdatePreferencesHandler creates a new UpdatePreferencesHandler.
func NewUpdatePreferencesHandler(prefs PreferencesStore) *UpdatePreferencesHandler {
	return &UpdatePreferencesHandler{prefs: prefs}
}

// Handle executes the update preferences command.
func (h *UpdatePreferencesHandler) Handle(ctx context.Context, cmd UpdatePreferencesCommand) (*UpdatePreferencesResult, error) {
	prefs := h.prefs.Get(ctx)
	changed := make([]string, 0)

	set(&prefs.Theme, cmd.Theme, "theme", &changed)
	set(&prefs.Language, cmd.Language, "language", &changed)
	set(&prefs.DisciplineMode, cmd.DisciplineMode, "discipline_mode", &changed)
	set(&prefs.Notifications.DailyReminder, cmd.DailyReminder, "daily_reminder", &changed)
	set(&prefs.Notifications.ComebackReminder, cmd.ComebackReminder, "comeback_reminder", &changed)
	set(&prefs.Notifications.RevisionReminder, cmd.RevisionReminder, "revision_reminder", &changed)
	set(&prefs.SoundEnabled, cmd.SoundEnabled, "sound_enabled", &changed)
	set(&prefs.VibrationEnabled, cmd.VibrationEnabled, "vibration_enabled", &changed)

	// Save changes only if something changed
	if len(changed) == 0 {
		return &UpdatePreferencesResult{Preferences: prefs, ChangedFields: changed}, nil
	}

	saved, err := h.prefs.Save(ctx, prefs)
	if err != nil {
		return nil, fmt.Errorf("update_preferences: %w", err)
	}
	return &UpdatePreferencesResult{Preferences: saved, ChangedFields: changed}, nil
}

func set[T comparable](dst *T, v *T, name string, changed *[]string) {
	if v == nil || *v == *dst {
		return
	}
	*dst = *v
	*changed = append(*changed, name)
}

// ══════════════════════════════════════════════════════════════════════════════
// PRESETS
// ══════════════════════════════════════════════════════════════════════════════

// AllNotifications returns a command that switches every reminder kind on
// or off.
func AllNotifications(on bool) UpdatePreferencesCommand {
	return UpdatePreferencesCommand{
		DailyReminder:    &on,
		ComebackReminder: &on,
		RevisionReminder: &on,
	}
}
