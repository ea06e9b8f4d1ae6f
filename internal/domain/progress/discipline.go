package progress

import "github.com/brayner/brayner/internal/domain/document"

// DisciplineLevel scores today's completion.
type DisciplineLevel string

const (
	DisciplineLow    DisciplineLevel = "Low"
	DisciplineMedium DisciplineLevel = "Medium"
	DisciplineHigh   DisciplineLevel = "High"
)

// ScoreDiscipline rates the completion set against today's task count.
func ScoreDiscipline(tasks []document.DisciplineTask, completed []string) DisciplineLevel {
	if len(tasks) == 0 {
		return DisciplineLow
	}
	score := float64(len(completed)) / float64(len(tasks)) * 100
	switch {
	case score >= 80:
		return DisciplineHigh
	case score >= 50:
		return DisciplineMedium
	default:
		return DisciplineLow
	}
}

// ModeForProblem maps the stated obstacle to a discipline mode.
func ModeForProblem(p document.Problem) document.DisciplineMode {
	switch p {
	case document.ProblemDiscipline, document.ProblemProcrastination:
		return document.ModeStrict
	case document.ProblemFocus:
		return document.ModeBalanced
	default:
		return document.ModeGentle
	}
}
