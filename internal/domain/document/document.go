// Package document defines the single persisted root document that holds
// every piece of Brayner state: session, accounts, plan, tasks, stats,
// vault, preferences and coach history.
//
// JSON field names are part of the persisted format and must not change.
package document

// DefaultStorageKey is the fixed key the document is stored under.
const DefaultStorageKey = "braynerApp"

// ProgramLength is the number of days in the recovery program.
const ProgramLength = 30

// AcademicLevel is the exam track of a learner.
type AcademicLevel string

const (
	LevelSSC AcademicLevel = "SSC"
	LevelHSC AcademicLevel = "HSC"
)

// Problem is the learner's self-reported main obstacle.
type Problem string

const (
	ProblemFocus           Problem = "focus"
	ProblemDiscipline      Problem = "discipline"
	ProblemSyllabus        Problem = "syllabus"
	ProblemProcrastination Problem = "procrastination"
)

// Goal is the learner's stated target.
type Goal string

const (
	GoalGPA5        Goal = "gpa5"
	GoalPass        Goal = "pass"
	GoalCompetitive Goal = "competitive"
	GoalComeback    Goal = "comeback"
)

// IsElevated reports whether the goal calls for extra syllabus work.
func (g Goal) IsElevated() bool {
	return g == GoalGPA5 || g == GoalCompetitive
}

// Category tags a discipline task.
type Category string

const (
	CategoryFocus       Category = "focus"
	CategoryBehavior    Category = "behavior"
	CategoryConsistency Category = "consistency"
	CategoryRecovery    Category = "recovery"
)

// DisciplineMode is the intensity preference derived at onboarding.
type DisciplineMode string

const (
	ModeGentle   DisciplineMode = "Gentle"
	ModeBalanced DisciplineMode = "Balanced"
	ModeStrict   DisciplineMode = "Strict"
)

// Theme is the UI theme preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// Language is the UI language preference.
type Language string

const (
	LanguageSystem  Language = "system"
	LanguageBangla  Language = "bn"
	LanguageEnglish Language = "en"
)

// Role is the author of a coach chat turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROOT
// ══════════════════════════════════════════════════════════════════════════════

// Document is the persisted root.
type Document struct {
	User        *User       `json:"user"`
	Users       []Account   `json:"users"`
	Plan        Plan        `json:"plan"`
	Tasks       Tasks       `json:"tasks"`
	Stats       Stats       `json:"stats"`
	Vault       Vault       `json:"vault"`
	Preferences Preferences `json:"preferences"`
	Coach       Coach       `json:"coach"`
}

// Assessment is the onboarding questionnaire result.
type Assessment struct {
	AcademicLevel  AcademicLevel `json:"academicLevel" validate:"required,oneof=SSC HSC"`
	TargetExam     string        `json:"targetExam"`
	WeakSubjects   []string      `json:"weakSubjects" validate:"dive,required"`
	StudyGoal      int           `json:"studyGoal" validate:"gte=0"`
	PrimaryProblem Problem       `json:"primaryProblem" validate:"required,oneof=focus discipline syllabus procrastination"`
	PrimaryGoal    Goal          `json:"primaryGoal" validate:"required,oneof=gpa5 pass competitive comeback"`
}

// User is the public profile of the current session.
type User struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	AcademicLevel AcademicLevel `json:"academicLevel"`
	IsGuest       bool          `json:"isGuest"`
	Assessment    *Assessment   `json:"assessment,omitempty"`
}

// Account is a registered local account.
type Account struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	PasswordHash  string        `json:"passwordHash,omitempty"`
	Password      string        `json:"password,omitempty"` // legacy plaintext, upgraded on login
	AcademicLevel AcademicLevel `json:"academicLevel"`
	CreatedAt     string        `json:"createdAt"`
	Assessment    *Assessment   `json:"assessment,omitempty"`
}

// Profile returns the public view of an account.
func (a Account) Profile() *User {
	level := a.AcademicLevel
	if level == "" {
		level = LevelSSC
	}
	return &User{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		AcademicLevel: level,
		Assessment:    a.Assessment,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PLAN & TASKS
// ══════════════════════════════════════════════════════════════════════════════

// Plan holds the program state.
type Plan struct {
	Started           bool      `json:"planStarted"`
	StartDate         string    `json:"planStartDate"`
	UnlockedDay       int       `json:"currentUnlockedDay"`
	PersonalizedPlans []DayPlan `json:"personalizedPlans"`
}

// DayPlan is the content of one program day.
type DayPlan struct {
	Day                 int    `json:"day"`
	Subject             string `json:"subject"`
	FocusConcept        string `json:"focusConcept"`
	PracticeTask        string `json:"practiceTask"`
	DisciplineChallenge string `json:"disciplineChallenge"`
	ReflectionQuestion  string `json:"reflectionQuestion"`
	IsCompleted         bool   `json:"isCompleted"`
}

// Tasks holds generated tasks per date and today's completion set.
type Tasks struct {
	CompletedToday []string                    `json:"completedToday"`
	ByDate         map[string][]DisciplineTask `json:"byDate"`
}

// DisciplineTask is one daily task.
type DisciplineTask struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category Category `json:"category"`
	IconType string   `json:"iconType"`
}

// ══════════════════════════════════════════════════════════════════════════════
// STATS
// ══════════════════════════════════════════════════════════════════════════════

// Stats holds counters and day sets.
type Stats struct {
	XP                int            `json:"xp"`
	Streak            int            `json:"streak"`
	TotalMinutesToday int            `json:"totalMinutesToday"`
	CompletedDays     []int          `json:"completedDays"`
	MissedDays        []int          `json:"missedDays"`
	LastCompletedDate string         `json:"lastCompletedDate"`
	LastActiveDate    string         `json:"lastActiveDate"`
	Revisions         []RevisionItem `json:"revisions"`
	WeakAreas         []WeakArea     `json:"weakAreas"`
}

// RecoveryMode reports whether any program day was missed.
func (s Stats) RecoveryMode() bool {
	return len(s.MissedDays) > 0
}

// RevisionItem is a scheduled revision.
type RevisionItem struct {
	ID           string `json:"id"`
	Subject      string `json:"subject"`
	Topic        string `json:"topic"`
	ScheduledFor string `json:"scheduledFor"`
}

// WeakArea is a known weak spot.
type WeakArea struct {
	Subject    string `json:"subject"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
}

// ══════════════════════════════════════════════════════════════════════════════
// VAULT, PREFERENCES, COACH
// ══════════════════════════════════════════════════════════════════════════════

// Vault holds notes and resource links.
type Vault struct {
	Notes     []Note     `json:"notes"`
	Resources []Resource `json:"resources"`
}

// Note is a free-form note.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// Resource is a saved study link.
type Resource struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Preferences are user settings.
type Preferences struct {
	Theme            Theme             `json:"theme" validate:"oneof=system light dark"`
	Language         Language          `json:"language" validate:"oneof=system bn en"`
	Notifications    NotificationPrefs `json:"notifications"`
	DisciplineMode   DisciplineMode    `json:"disciplineMode" validate:"oneof=Gentle Balanced Strict"`
	SoundEnabled     bool              `json:"soundEnabled"`
	VibrationEnabled bool              `json:"vibrationEnabled"`
}

// NotificationPrefs toggles reminder kinds.
type NotificationPrefs struct {
	DailyReminder    bool `json:"dailyReminder"`
	ComebackReminder bool `json:"comebackReminder"`
	RevisionReminder bool `json:"revisionReminder"`
}

// AnyEnabled reports whether at least one reminder kind is on.
func (n NotificationPrefs) AnyEnabled() bool {
	return n.DailyReminder || n.ComebackReminder || n.RevisionReminder
}

// Coach holds the persisted chat history.
type Coach struct {
	History []ChatMessage `json:"history"`
}

// ChatMessage is one chat turn.
type ChatMessage struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is a text fragment of a chat turn.
type Part struct {
	Text string `json:"text"`
}

// Text concatenates all parts.
func (m ChatMessage) Text() string {
	out := ""
	for _, p := range m.Parts {
		out += p.Text
	}
	return out
}

// NewChatMessage builds a single-part chat turn.
func NewChatMessage(role Role, text string) ChatMessage {
	return ChatMessage{Role: role, Parts: []Part{{Text: text}}}
}
