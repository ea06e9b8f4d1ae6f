package ledger

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/progress"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/internal/domain/task"
	"github.com/brayner/brayner/internal/infrastructure/messaging"
	"github.com/brayner/brayner/internal/infrastructure/persistence/store"
	"github.com/brayner/brayner/pkg/timeutil"
)

type fixture struct {
	ledger  *Ledger
	store   *store.Store
	backend *store.MemoryBackend
	clock   *timeutil.FixedClock
	events  *messaging.Recorder
}

func newFixture(t *testing.T, withAssessment bool) fixture {
	t.Helper()
	ctx := context.Background()

	backend := store.NewMemoryBackend()
	st := store.New(backend, nil)

	user := &document.User{ID: "u1", Name: "Rahim", Email: "r@x.com", AcademicLevel: document.LevelSSC}
	if withAssessment {
		user.Assessment = &document.Assessment{
			AcademicLevel:  document.LevelSSC,
			WeakSubjects:   []string{"Math"},
			PrimaryProblem: document.ProblemFocus,
			PrimaryGoal:    document.GoalPass,
		}
	}
	st.Update(ctx, document.Partial{User: user})

	bus := messaging.NewInMemoryEventBus(messaging.DefaultInMemoryEventBusConfig())
	rec := &messaging.Recorder{}
	require.NoError(t, bus.SubscribeAll(rec.Handle))

	clock := timeutil.NewFixedClock(time.Date(2025, 1, 1, 10, 0, 0, 0, timeutil.DhakaTZ))
	l := NewLedger(st, task.NewGenerator(rand.NewSource(1)), clock, bus, nil)
	return fixture{ledger: l, store: st, backend: backend, clock: clock, events: rec}
}

func TestStartProgram_RequiresAssessment(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.ledger.StartProgram(context.Background())
	assert.ErrorIs(t, err, shared.ErrAssessmentRequired)
	assert.False(t, f.store.Load(context.Background()).Plan.Started)
}

func TestStartProgram(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	doc := f.store.Load(ctx)
	doc.Stats.Streak = 9
	doc.Stats.MissedDays = []int{4}
	f.store.Save(ctx, doc)

	snap, err := f.ledger.StartProgram(ctx)
	require.NoError(t, err)

	assert.True(t, snap.PlanStarted)
	assert.Equal(t, "2025-01-01", snap.PlanStartDate)
	assert.Equal(t, 1, snap.CurrentDay)
	assert.Equal(t, 0, snap.Streak)
	assert.Empty(t, snap.MissedDays)
	assert.False(t, snap.RecoveryMode)
	require.Len(t, snap.DailyTasks, 3)
	assert.Equal(t, task.IDProblem1, snap.DailyTasks[0].ID)
	assert.Contains(t, f.events.Types(), shared.EventProgramStarted)
}

func TestGetProgress_StartPlusThreeDays(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.ledger.StartProgram(ctx)
	require.NoError(t, err)

	f.clock.AddDays(3)
	snap, err := f.ledger.GetProgress(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, snap.CurrentDay)
	assert.Equal(t, []int{1, 2, 3}, snap.MissedDays)
	assert.True(t, snap.RecoveryMode)
	assert.Equal(t, "2025-01-04", snap.Today)
	require.NotEmpty(t, snap.DailyTasks)
	assert.Equal(t, task.IDRecovery, snap.DailyTasks[0].ID, "recovery task comes first")
	assert.Empty(t, snap.CompletedTasks)
	assert.Contains(t, f.events.Types(), shared.EventDaysMissed)
}

func TestGetProgress_Idempotent(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.ledger.StartProgram(ctx)
	require.NoError(t, err)
	f.clock.AddDays(2)

	first, err := f.ledger.GetProgress(ctx)
	require.NoError(t, err)
	writes := f.backend.Writes()
	raw := string(f.backend.Raw())

	second, err := f.ledger.GetProgress(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, writes, f.backend.Writes(), "second read on the same day must not write")
	assert.Equal(t, raw, string(f.backend.Raw()))
}

func TestGetProgress_WithoutAssessmentKeepsTasksEmpty(t *testing.T) {
	f := newFixture(t, false)
	snap, err := f.ledger.GetProgress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.CurrentDay)
	assert.Empty(t, snap.DailyTasks)
	assert.Equal(t, progress.DisciplineLow, snap.DisciplineLevel)
}

func TestGetProgress_NewDayResetsDailyCounters(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.ledger.StartProgram(ctx)
	require.NoError(t, err)
	_, err = f.ledger.CompleteTask(ctx, task.IDProblem1)
	require.NoError(t, err)
	_, err = f.ledger.AddStudyMinutes(ctx, 40)
	require.NoError(t, err)

	f.clock.AddDays(1)
	snap, err := f.ledger.GetProgress(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.CompletedTasks)
	assert.Equal(t, 0, snap.TotalMinutesToday)
	assert.Equal(t, 5, snap.XP, "xp is cumulative")
	assert.Contains(t, snap.TasksByDate, "2025-01-01")
	assert.Contains(t, snap.TasksByDate, "2025-01-02")
}

func TestCompleteTask_ToggleAsymmetry(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	_, err := f.ledger.StartProgram(ctx)
	require.NoError(t, err)

	done, err := f.ledger.CompleteTask(ctx, task.IDProblem1)
	require.NoError(t, err)
	assert.True(t, done)

	done, err = f.ledger.CompleteTask(ctx, task.IDProblem1)
	require.NoError(t, err)
	assert.False(t, done)

	snap, err := f.ledger.GetProgress(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.CompletedTasks)
	assert.Equal(t, 5, snap.XP, "toggling off keeps the reward")

	_, err = f.ledger.CompleteTask(ctx, " ")
	assert.ErrorIs(t, err, shared.ErrEmptyTaskID)
}

func TestCompleteTask_UnknownIDEarnsNothing(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	_, err := f.ledger.StartProgram(ctx)
	require.NoError(t, err)
	writes := f.backend.Writes()

	for _, id := range []string{"x1", "x2", "goal_1"} {
		_, err := f.ledger.CompleteTask(ctx, id)
		assert.ErrorIs(t, err, shared.ErrUnknownTask, id)
	}

	assert.Equal(t, 0, f.ledger.XP(ctx))
	assert.Equal(t, writes, f.backend.Writes())
	level, err := f.ledger.DisciplineLevel(ctx)
	require.NoError(t, err)
	assert.Equal(t, progress.DisciplineLow, level)
}

func TestCompleteTask_UnreadableStoreKeepsProgress(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	_, err := f.ledger.StartProgram(ctx)
	require.NoError(t, err)
	_, err = f.ledger.CompleteTask(ctx, task.IDProblem1)
	require.NoError(t, err)

	f.backend.FailReads = true
	_, err = f.ledger.CompleteTask(ctx, task.IDBehavior)
	assert.ErrorIs(t, err, shared.ErrDocumentUnreadable)
	f.backend.FailReads = false

	doc := f.store.Load(ctx)
	require.NotNil(t, doc.User)
	assert.True(t, doc.Plan.Started)
	assert.Equal(t, 5, doc.Stats.XP)
}

func TestCompleteTask_DisciplineLevel(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	snap, err := f.ledger.StartProgram(ctx)
	require.NoError(t, err)
	require.Len(t, snap.DailyTasks, 3)

	lvl, err := f.ledger.DisciplineLevel(ctx)
	require.NoError(t, err)
	assert.Equal(t, progress.DisciplineLow, lvl)

	for i, want := range []progress.DisciplineLevel{progress.DisciplineLow, progress.DisciplineMedium, progress.DisciplineHigh} {
		_, err := f.ledger.CompleteTask(ctx, snap.DailyTasks[i].ID)
		require.NoError(t, err)
		lvl, err := f.ledger.DisciplineLevel(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, lvl, "after %d tasks", i+1)
	}
}

func TestAdvanceDay_OncePerDay(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	advanced, err := f.ledger.AdvanceDay(ctx)
	require.NoError(t, err)
	assert.False(t, advanced, "not started")

	_, err = f.ledger.StartProgram(ctx)
	require.NoError(t, err)

	advanced, err = f.ledger.AdvanceDay(ctx)
	require.NoError(t, err)
	assert.True(t, advanced)

	advanced, err = f.ledger.AdvanceDay(ctx)
	require.NoError(t, err)
	assert.False(t, advanced)

	snap, err := f.ledger.GetProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Streak)
	assert.Equal(t, []int{1}, snap.CompletedDays)
	assert.Equal(t, 1, snap.CurrentDay, "advancing never unlocks a day")
	assert.Equal(t, "2025-01-01", snap.LastCompletedDate)

	f.clock.AddDays(1)
	advanced, err = f.ledger.AdvanceDay(ctx)
	require.NoError(t, err)
	assert.True(t, advanced)

	snap, err = f.ledger.GetProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Streak)
	assert.Equal(t, []int{1, 2}, snap.CompletedDays)
	assert.Empty(t, snap.MissedDays)

	count := 0
	for _, typ := range f.events.Types() {
		if typ == shared.EventDayAdvanced {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestAdvanceDay_MarksPlanDay(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.store.Update(ctx, document.Partial{Plan: &document.Plan{
		PersonalizedPlans: progress.ComebackPlan(document.Assessment{WeakSubjects: []string{"Math"}}),
	}})

	_, err := f.ledger.StartProgram(ctx)
	require.NoError(t, err)
	_, err = f.ledger.AdvanceDay(ctx)
	require.NoError(t, err)

	plans := f.store.Load(ctx).Plan.PersonalizedPlans
	require.Len(t, plans, 30)
	assert.True(t, plans[0].IsCompleted)
	assert.False(t, plans[1].IsCompleted)

	// restarting clears the finished days
	f.clock.AddDays(1)
	_, err = f.ledger.StartProgram(ctx)
	require.NoError(t, err)
	doc := f.store.Load(ctx)
	assert.False(t, doc.Plan.PersonalizedPlans[0].IsCompleted)
	assert.Empty(t, doc.Stats.CompletedDays)
	assert.Equal(t, "2025-01-02", doc.Plan.StartDate)
}

func TestMissedAndCompletedStayDisjoint(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	_, err := f.ledger.StartProgram(ctx)
	require.NoError(t, err)

	for _, skip := range []bool{false, true, false, true, true, false} {
		if !skip {
			_, err := f.ledger.AdvanceDay(ctx)
			require.NoError(t, err)
		}
		f.clock.AddDays(1)
		_, err := f.ledger.GetProgress(ctx)
		require.NoError(t, err)
	}

	stats := f.store.Load(ctx).Stats
	for _, d := range stats.CompletedDays {
		assert.NotContains(t, stats.MissedDays, d)
	}
	assert.Equal(t, []int{1, 3, 6}, stats.CompletedDays)
	assert.Equal(t, []int{2, 4, 5}, stats.MissedDays)
}

func TestAddStudyMinutes(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	total, err := f.ledger.AddStudyMinutes(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, total)

	total, err = f.ledger.AddStudyMinutes(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, total)

	_, err = f.ledger.AddStudyMinutes(ctx, -1)
	assert.ErrorIs(t, err, shared.ErrNegativeMinutes)
}

func TestCompleteFocusSession(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	xp, err := f.ledger.CompleteFocusSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, xp)
	assert.Equal(t, 10, f.ledger.XP(ctx))

	snap, err := f.ledger.GetProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, snap.TotalMinutesToday)
	assert.Contains(t, f.events.Types(), shared.EventFocusCompleted)
}

func TestXP_LevelUpEvent(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	doc := f.store.Load(ctx)
	doc.Stats.XP = 195
	f.store.Save(ctx, doc)

	_, err := f.ledger.CompleteTask(ctx, "beh_1")
	require.NoError(t, err)

	assert.Equal(t, 200, f.ledger.XP(ctx))
	assert.Equal(t, progress.LabelDisciplined, f.ledger.Level(ctx).Label)

	var levelUp *shared.LevelUpEvent
	for _, e := range f.events.Events() {
		if lu, ok := e.(shared.LevelUpEvent); ok {
			levelUp = &lu
		}
	}
	require.NotNil(t, levelUp)
	assert.Equal(t, 1, levelUp.OldLevel)
	assert.Equal(t, 2, levelUp.NewLevel)
}

func TestScheduleRevision(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	item, err := f.ledger.ScheduleRevision(ctx, "Physics", "Vectors")
	require.NoError(t, err)
	assert.Contains(t, item.ID, "rev_")
	assert.Equal(t, "2025-01-01T04:00:00Z", item.ScheduledFor)

	_, err = f.ledger.ScheduleRevision(ctx, "", "Vectors")
	assert.ErrorIs(t, err, shared.ErrEmptyRevision)

	revs := f.store.Load(ctx).Stats.Revisions
	require.Len(t, revs, 1)
	assert.Equal(t, item, revs[0])
}

func TestRecordWeakArea_PrependsNewest(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	require.NoError(t, f.ledger.RecordWeakArea(ctx, document.WeakArea{Subject: "Math"}))
	require.NoError(t, f.ledger.RecordWeakArea(ctx, document.WeakArea{Subject: "ICT"}))

	areas := f.store.Load(ctx).Stats.WeakAreas
	require.Len(t, areas, 2)
	assert.Equal(t, "ICT", areas[0].Subject)
}
