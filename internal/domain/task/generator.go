package task

import (
	"math/rand"
	"sync"
	"time"

	"github.com/brayner/brayner/internal/domain/document"
)

// Generator builds a day's task list from an assessment.
// Selection order comes from the injected random source; the category
// composition depends only on the inputs.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator. A nil source seeds from the clock.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(src)}
}

// Generate returns 3 to 5 tasks.
func (g *Generator) Generate(a document.Assessment, recovery bool) []document.DisciplineTask {
	g.mu.Lock()
	defer g.mu.Unlock()

	tasks := make([]document.DisciplineTask, 0, MaxTasks)

	if recovery {
		tasks = append(tasks, document.DisciplineTask{
			ID:       IDRecovery,
			Title:    g.draw(Pools[PoolRecovery], 1)[0],
			Category: document.CategoryRecovery,
			IconType: IconShieldAlert,
		})
	}

	picks := g.draw(problemPool(a.PrimaryProblem), 2)
	first := document.CategoryBehavior
	if a.PrimaryProblem == document.ProblemFocus {
		first = document.CategoryFocus
	}
	tasks = append(tasks,
		document.DisciplineTask{ID: IDProblem1, Title: picks[0], Category: first, IconType: IconTarget},
		document.DisciplineTask{ID: IDProblem2, Title: picks[1], Category: document.CategoryConsistency, IconType: IconZap},
	)

	tasks = append(tasks, document.DisciplineTask{
		ID:       IDBehavior,
		Title:    g.draw(Pools[PoolBehavior], 1)[0],
		Category: document.CategoryBehavior,
		IconType: IconPenTool,
	})

	if a.PrimaryGoal.IsElevated() {
		tasks = append(tasks, document.DisciplineTask{
			ID:       IDGoal,
			Title:    g.draw(Pools[PoolSyllabus], 1)[0],
			Category: document.CategoryConsistency,
			IconType: IconAward,
		})
	}

	if len(tasks) > MaxTasks {
		tasks = tasks[:MaxTasks]
	}
	return tasks
}

// draw shuffles a copy of pool and returns its first n entries.
func (g *Generator) draw(pool []string, n int) []string {
	cp := append([]string(nil), pool...)
	g.rng.Shuffle(len(cp), func(i, j int) { cp[i], cp[j] = cp[j], cp[i] })
	return cp[:n]
}

func problemPool(p document.Problem) []string {
	if pool, ok := Pools[string(p)]; ok {
		return pool
	}
	return Pools[PoolConsistency]
}
