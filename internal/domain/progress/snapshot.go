package progress

import "github.com/brayner/brayner/internal/domain/document"

// Snapshot is a read-only view of progress for one calendar day.
type Snapshot struct {
	Today             string                               `json:"today"`
	CurrentDay        int                                  `json:"currentDay"`
	PlanStarted       bool                                 `json:"planStarted"`
	PlanStartDate     string                               `json:"planStartDate"`
	Streak            int                                  `json:"streak"`
	XP                int                                  `json:"xp"`
	CompletedTasks    []string                             `json:"completedTasks"`
	DailyTasks        []document.DisciplineTask            `json:"dailyTasks"`
	TasksByDate       map[string][]document.DisciplineTask `json:"tasksByDate"`
	RecoveryMode      bool                                 `json:"isRecoveryMode"`
	TotalMinutesToday int                                  `json:"totalMinutesToday"`
	DisciplineMode    document.DisciplineMode              `json:"disciplineMode"`
	DisciplineLevel   DisciplineLevel                      `json:"disciplineLevel"`
	Revisions         []document.RevisionItem              `json:"revisions"`
	WeakAreas         []document.WeakArea                  `json:"weakAreas"`
	LastActiveDate    string                               `json:"lastActiveDate"`
	LastCompletedDate string                               `json:"lastCompletedDate"`
	CompletedDays     []int                                `json:"completedDays"`
	MissedDays        []int                                `json:"missedDays"`
	DayPlan           *document.DayPlan                    `json:"dayPlan,omitempty"`
}

// NewSnapshot builds a snapshot of doc for today. The document must already
// be reconciled; NewSnapshot never mutates it.
func NewSnapshot(doc *document.Document, today string) Snapshot {
	current := 0
	if doc.Plan.Started {
		current = doc.Plan.UnlockedDay
		if current < 1 {
			current = 1
		}
	}

	tasks := doc.Tasks.ByDate[today]
	if tasks == nil {
		tasks = []document.DisciplineTask{}
	}

	s := Snapshot{
		Today:             today,
		CurrentDay:        current,
		PlanStarted:       doc.Plan.Started,
		PlanStartDate:     doc.Plan.StartDate,
		Streak:            doc.Stats.Streak,
		XP:                doc.Stats.XP,
		CompletedTasks:    doc.Tasks.CompletedToday,
		DailyTasks:        tasks,
		TasksByDate:       doc.Tasks.ByDate,
		RecoveryMode:      doc.Stats.RecoveryMode(),
		TotalMinutesToday: doc.Stats.TotalMinutesToday,
		DisciplineMode:    doc.Preferences.DisciplineMode,
		DisciplineLevel:   ScoreDiscipline(tasks, doc.Tasks.CompletedToday),
		Revisions:         doc.Stats.Revisions,
		WeakAreas:         doc.Stats.WeakAreas,
		LastActiveDate:    doc.Stats.LastActiveDate,
		LastCompletedDate: doc.Stats.LastCompletedDate,
		CompletedDays:     doc.Stats.CompletedDays,
		MissedDays:        doc.Stats.MissedDays,
	}

	if current >= 1 && current <= len(doc.Plan.PersonalizedPlans) {
		dp := doc.Plan.PersonalizedPlans[current-1]
		s.DayPlan = &dp
	}
	return s
}

// IsFinished reports whether the last program day is done.
func (s Snapshot) IsFinished() bool {
	return s.CurrentDay == document.ProgramLength && document.ContainsInt(s.CompletedDays, document.ProgramLength)
}
