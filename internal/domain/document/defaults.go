package document

import "encoding/json"

// Default returns a fully populated document with every field set.
// Decoding persisted bytes on top of it fills in whatever older data lacks.
func Default() *Document {
	return &Document{
		User:  nil,
		Users: []Account{},
		Plan: Plan{
			Started:           false,
			StartDate:         "",
			UnlockedDay:       0,
			PersonalizedPlans: []DayPlan{},
		},
		Tasks: Tasks{
			CompletedToday: []string{},
			ByDate:         map[string][]DisciplineTask{},
		},
		Stats: Stats{
			CompletedDays: []int{},
			MissedDays:    []int{},
			Revisions:     []RevisionItem{},
			WeakAreas:     []WeakArea{},
		},
		Vault: Vault{
			Notes:     []Note{},
			Resources: []Resource{},
		},
		Preferences: DefaultPreferences(),
		Coach: Coach{
			History: []ChatMessage{},
		},
	}
}

// DefaultPreferences returns the preference defaults.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:    ThemeLight,
		Language: LanguageBangla,
		Notifications: NotificationPrefs{
			DailyReminder:    true,
			ComebackReminder: true,
			RevisionReminder: true,
		},
		DisciplineMode:   ModeBalanced,
		SoundEnabled:     true,
		VibrationEnabled: true,
	}
}

// Normalize replaces nil collections left by explicit JSON nulls, clamps
// counters that must never be negative and repairs the program day
// invariants: the unlocked day is in [1, ProgramLength] while the program
// runs and 0 otherwise, and a completed day is never also missed.
func Normalize(d *Document) {
	if d.Users == nil {
		d.Users = []Account{}
	}
	if d.Plan.PersonalizedPlans == nil {
		d.Plan.PersonalizedPlans = []DayPlan{}
	}
	if d.Tasks.CompletedToday == nil {
		d.Tasks.CompletedToday = []string{}
	}
	if d.Tasks.ByDate == nil {
		d.Tasks.ByDate = map[string][]DisciplineTask{}
	}
	if d.Stats.CompletedDays == nil {
		d.Stats.CompletedDays = []int{}
	}
	if d.Stats.MissedDays == nil {
		d.Stats.MissedDays = []int{}
	}
	if d.Stats.Revisions == nil {
		d.Stats.Revisions = []RevisionItem{}
	}
	if d.Stats.WeakAreas == nil {
		d.Stats.WeakAreas = []WeakArea{}
	}
	if d.Vault.Notes == nil {
		d.Vault.Notes = []Note{}
	}
	if d.Vault.Resources == nil {
		d.Vault.Resources = []Resource{}
	}
	if d.Coach.History == nil {
		d.Coach.History = []ChatMessage{}
	}
	if d.Stats.XP < 0 {
		d.Stats.XP = 0
	}
	if d.Stats.Streak < 0 {
		d.Stats.Streak = 0
	}
	if d.Stats.TotalMinutesToday < 0 {
		d.Stats.TotalMinutesToday = 0
	}
	switch {
	case !d.Plan.Started:
		d.Plan.UnlockedDay = 0
	case d.Plan.UnlockedDay < 1:
		d.Plan.UnlockedDay = 1
	case d.Plan.UnlockedDay > ProgramLength:
		d.Plan.UnlockedDay = ProgramLength
	}
	missed := d.Stats.MissedDays[:0]
	for _, day := range d.Stats.MissedDays {
		if !ContainsInt(d.Stats.CompletedDays, day) {
			missed = append(missed, day)
		}
	}
	d.Stats.MissedDays = missed
	switch d.Preferences.Theme {
	case ThemeSystem, ThemeLight, ThemeDark:
	default:
		d.Preferences.Theme = ThemeLight
	}
	switch d.Preferences.Language {
	case LanguageSystem, LanguageBangla, LanguageEnglish:
	default:
		d.Preferences.Language = LanguageBangla
	}
	switch d.Preferences.DisciplineMode {
	case ModeGentle, ModeBalanced, ModeStrict:
	default:
		d.Preferences.DisciplineMode = ModeBalanced
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PARTIAL UPDATES
// ══════════════════════════════════════════════════════════════════════════════

// Partial is a set of top-level sections to write back.
// Every non-nil section replaces the whole section in the stored document.
// Callers must pass complete sub-records, never single leaf fields.
type Partial struct {
	// User replaces the session. Set ClearUser to log out.
	User      *User
	ClearUser bool

	// Users replaces the account list. nil leaves it untouched.
	Users []Account

	Plan        *Plan
	Tasks       *Tasks
	Stats       *Stats
	Vault       *Vault
	Preferences *Preferences
	Coach       *Coach
}

// IsEmpty reports whether the partial touches nothing.
func (p Partial) IsEmpty() bool {
	return p.User == nil && !p.ClearUser && p.Users == nil && p.Plan == nil &&
		p.Tasks == nil && p.Stats == nil && p.Vault == nil &&
		p.Preferences == nil && p.Coach == nil
}

// Apply merges the partial into d, section by section.
func (p Partial) Apply(d *Document) {
	if p.ClearUser {
		d.User = nil
	} else if p.User != nil {
		u := *p.User
		d.User = &u
	}
	if p.Users != nil {
		d.Users = p.Users
	}
	if p.Plan != nil {
		d.Plan = *p.Plan
	}
	if p.Tasks != nil {
		d.Tasks = *p.Tasks
	}
	if p.Stats != nil {
		d.Stats = *p.Stats
	}
	if p.Vault != nil {
		d.Vault = *p.Vault
	}
	if p.Preferences != nil {
		d.Preferences = *p.Preferences
	}
	if p.Coach != nil {
		d.Coach = *p.Coach
	}
	Normalize(d)
}

// ResetKeepingUsers returns a default document that carries over only the
// registered accounts of d.
func ResetKeepingUsers(d *Document) *Document {
	fresh := Default()
	if d != nil && d.Users != nil {
		fresh.Users = d.Users
	}
	return fresh
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	data, err := json.Marshal(d)
	if err != nil {
		// Document holds only plain data; encoding cannot fail.
		panic(err)
	}
	out := Default()
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
	Normalize(out)
	return out
}

// ContainsInt reports whether v is in s.
func ContainsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
