package progress

import (
	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/pkg/timeutil"
)

// SyncResult reports what a date sync changed.
type SyncResult struct {
	Changed     bool
	UnlockedDay int
	NewlyMissed []int
}

// ElapsedDay returns the program day that today falls on, clamped to [1,30].
func ElapsedDay(startDate, today string) (int, error) {
	diff, err := timeutil.DaysBetweenKeys(startDate, today)
	if err != nil {
		return 0, err
	}
	day := diff + 1
	if day < 1 {
		day = 1
	}
	if day > document.ProgramLength {
		day = document.ProgramLength
	}
	return day, nil
}

// SyncDate moves the unlocked day forward to match the calendar and marks
// every skipped, uncompleted day as missed. It mutates doc in place and is
// a no-op when the plan is not started or the calendar has not moved on.
func SyncDate(doc *document.Document, today string) (SyncResult, error) {
	res := SyncResult{UnlockedDay: doc.Plan.UnlockedDay}
	if !doc.Plan.Started || doc.Plan.StartDate == "" {
		return res, nil
	}

	elapsed, err := ElapsedDay(doc.Plan.StartDate, today)
	if err != nil {
		return res, err
	}
	if elapsed <= doc.Plan.UnlockedDay {
		return res, nil
	}

	from := doc.Plan.UnlockedDay
	if from < 1 {
		from = 1
	}
	for d := from; d < elapsed; d++ {
		if document.ContainsInt(doc.Stats.CompletedDays, d) || document.ContainsInt(doc.Stats.MissedDays, d) {
			continue
		}
		doc.Stats.MissedDays = append(doc.Stats.MissedDays, d)
		res.NewlyMissed = append(res.NewlyMissed, d)
	}
	doc.Plan.UnlockedDay = elapsed

	res.Changed = true
	res.UnlockedDay = elapsed
	return res, nil
}
