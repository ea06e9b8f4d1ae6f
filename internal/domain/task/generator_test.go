package task

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brayner/brayner/internal/domain/document"
)

func categories(tasks []document.DisciplineTask) []document.Category {
	out := make([]document.Category, len(tasks))
	for i, t := range tasks {
		out[i] = t.Category
	}
	return out
}

func ids(tasks []document.DisciplineTask) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestGenerate_Composition(t *testing.T) {
	tests := []struct {
		name     string
		a        document.Assessment
		recovery bool
		wantIDs  []string
		wantCats []document.Category
	}{
		{
			name:     "focus pass",
			a:        document.Assessment{PrimaryProblem: document.ProblemFocus, PrimaryGoal: document.GoalPass},
			wantIDs:  []string{IDProblem1, IDProblem2, IDBehavior},
			wantCats: []document.Category{document.CategoryFocus, document.CategoryConsistency, document.CategoryBehavior},
		},
		{
			name:     "procrastination gpa5",
			a:        document.Assessment{PrimaryProblem: document.ProblemProcrastination, PrimaryGoal: document.GoalGPA5},
			wantIDs:  []string{IDProblem1, IDProblem2, IDBehavior, IDGoal},
			wantCats: []document.Category{document.CategoryBehavior, document.CategoryConsistency, document.CategoryBehavior, document.CategoryConsistency},
		},
		{
			name:     "recovery competitive",
			a:        document.Assessment{PrimaryProblem: document.ProblemDiscipline, PrimaryGoal: document.GoalCompetitive},
			recovery: true,
			wantIDs:  []string{IDRecovery, IDProblem1, IDProblem2, IDBehavior, IDGoal},
			wantCats: []document.Category{document.CategoryRecovery, document.CategoryBehavior, document.CategoryConsistency, document.CategoryBehavior, document.CategoryConsistency},
		},
		{
			name:     "recovery comeback",
			a:        document.Assessment{PrimaryProblem: document.ProblemSyllabus, PrimaryGoal: document.GoalComeback},
			recovery: true,
			wantIDs:  []string{IDRecovery, IDProblem1, IDProblem2, IDBehavior},
			wantCats: []document.Category{document.CategoryRecovery, document.CategoryBehavior, document.CategoryConsistency, document.CategoryBehavior},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(rand.NewSource(42))
			got := g.Generate(tt.a, tt.recovery)

			assert.Equal(t, tt.wantIDs, ids(got))
			assert.Equal(t, tt.wantCats, categories(got))
			assert.GreaterOrEqual(t, len(got), 3)
			assert.LessOrEqual(t, len(got), MaxTasks)
		})
	}
}

func TestGenerate_TitlesComeFromPools(t *testing.T) {
	g := NewGenerator(rand.NewSource(7))
	got := g.Generate(document.Assessment{PrimaryProblem: document.ProblemFocus, PrimaryGoal: document.GoalGPA5}, true)
	require.Len(t, got, 5)

	assert.Contains(t, Pools[PoolRecovery], got[0].Title)
	assert.Contains(t, Pools[PoolFocus], got[1].Title)
	assert.Contains(t, Pools[PoolFocus], got[2].Title)
	assert.NotEqual(t, got[1].Title, got[2].Title)
	assert.Contains(t, Pools[PoolBehavior], got[3].Title)
	assert.Contains(t, Pools[PoolSyllabus], got[4].Title)
}

func TestGenerate_UnknownProblemFallsBack(t *testing.T) {
	g := NewGenerator(rand.NewSource(1))
	got := g.Generate(document.Assessment{PrimaryProblem: document.ProblemDiscipline}, false)

	assert.Contains(t, Pools[PoolConsistency], got[0].Title)
	assert.Contains(t, Pools[PoolConsistency], got[1].Title)
}

func TestGenerate_SeededIsDeterministic(t *testing.T) {
	a := document.Assessment{PrimaryProblem: document.ProblemProcrastination, PrimaryGoal: document.GoalCompetitive}

	first := NewGenerator(rand.NewSource(99)).Generate(a, true)
	second := NewGenerator(rand.NewSource(99)).Generate(a, true)
	assert.Equal(t, first, second)
}

func TestGenerate_DoesNotMutatePools(t *testing.T) {
	before := append([]string(nil), Pools[PoolBehavior]...)
	g := NewGenerator(rand.NewSource(3))
	for i := 0; i < 10; i++ {
		g.Generate(document.Assessment{PrimaryProblem: document.ProblemFocus}, false)
	}
	assert.Equal(t, before, Pools[PoolBehavior])
}
