// Package ledger runs the progress and XP operations of the discipline
// program. Every operation reconciles the document with today's date first,
// then mutates it through the store and publishes the resulting events.
package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/progress"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/pkg/logger"
	"github.com/brayner/brayner/pkg/timeutil"
)

// TaskGenerator produces the daily discipline tasks.
type TaskGenerator interface {
	Generate(a document.Assessment, recovery bool) []document.DisciplineTask
}

// Ledger is the Progress/XP ledger.
type Ledger struct {
	repo      document.Repository
	tasks     TaskGenerator
	clock     timeutil.Clock
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewLedger creates a new Ledger.
func NewLedger(
	repo document.Repository,
	tasks TaskGenerator,
	clock timeutil.Clock,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *Ledger {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Ledger{
		repo:      repo,
		tasks:     tasks,
		clock:     clock,
		publisher: publisher,
		log:       log.With(logger.Component("ledger")),
	}
}

// change accumulates what an operation did to the document.
type change struct {
	today  string
	dirty  bool
	events []shared.Event
}

func (c *change) emit(e shared.Event) {
	c.events = append(c.events, e)
}

// partial returns the sections the ledger owns, or nothing if untouched.
func (c *change) partial(d *document.Document) document.Partial {
	if !c.dirty {
		return document.Partial{}
	}
	return document.Partial{Plan: &d.Plan, Tasks: &d.Tasks, Stats: &d.Stats}
}

// mutate runs op on a reconciled copy of the document and persists the
// ledger sections when anything changed.
func (l *Ledger) mutate(ctx context.Context, op string, fn func(d *document.Document, c *change) error) (*document.Document, string, error) {
	c := &change{today: timeutil.Today(l.clock)}

	doc, err := l.repo.Mutate(ctx, func(d *document.Document) (document.Partial, error) {
		l.reconcile(d, c)
		if fn != nil {
			if err := fn(d, c); err != nil {
				return document.Partial{}, err
			}
		}
		return c.partial(d), nil
	})
	if err != nil {
		l.log.Debug("operation rejected", logger.Operation(op), logger.Err(err))
		return nil, c.today, err
	}

	for _, e := range c.events {
		if perr := l.publisher.Publish(e); perr != nil {
			l.log.Warn("failed to publish event",
				logger.Operation(op),
				logger.String("event_type", string(e.EventType())),
				logger.Err(perr),
			)
		}
	}
	return doc, c.today, nil
}

// reconcile syncs the unlocked day with the calendar and rolls the daily
// task list over on the first read of a new day.
func (l *Ledger) reconcile(d *document.Document, c *change) {
	res, err := progress.SyncDate(d, c.today)
	if err != nil {
		l.log.Warn("date sync skipped", logger.String("start_date", d.Plan.StartDate), logger.Err(err))
	}
	if res.Changed {
		c.dirty = true
		l.log.Info("day unlocked", logger.Day(res.UnlockedDay), logger.DateKey(c.today))
		if len(res.NewlyMissed) > 0 {
			c.emit(shared.NewDaysMissedEvent(userID(d), res.NewlyMissed, res.UnlockedDay))
		}
	}

	if d.Stats.LastActiveDate == c.today || d.User == nil || d.User.Assessment == nil {
		return
	}
	if _, ok := d.Tasks.ByDate[c.today]; !ok {
		d.Tasks.ByDate[c.today] = l.tasks.Generate(*d.User.Assessment, d.Stats.RecoveryMode())
	}
	d.Tasks.CompletedToday = []string{}
	d.Stats.LastActiveDate = c.today
	d.Stats.TotalMinutesToday = 0
	c.dirty = true
}

// GetProgress reconciles the document with today and returns a snapshot.
// Calling it twice on the same day changes nothing the second time.
func (l *Ledger) GetProgress(ctx context.Context) (progress.Snapshot, error) {
	doc, today, err := l.mutate(ctx, "GetProgress", nil)
	if err != nil {
		return progress.Snapshot{}, err
	}
	return progress.NewSnapshot(doc, today), nil
}

// StartProgram begins the 30 day program today. It requires an assessment
// on the session user and clears streak, completed and missed days.
func (l *Ledger) StartProgram(ctx context.Context) (progress.Snapshot, error) {
	doc, today, err := l.mutate(ctx, "StartProgram", func(d *document.Document, c *change) error {
		if d.User == nil || d.User.Assessment == nil {
			return shared.ErrAssessmentRequired
		}

		tasks := l.tasks.Generate(*d.User.Assessment, false)
		d.Plan.Started = true
		d.Plan.StartDate = c.today
		d.Plan.UnlockedDay = 1
		d.Tasks.CompletedToday = []string{}
		d.Tasks.ByDate[c.today] = tasks
		d.Stats.LastActiveDate = c.today
		d.Stats.TotalMinutesToday = 0
		d.Stats.Streak = 0
		d.Stats.CompletedDays = []int{}
		d.Stats.MissedDays = []int{}
		for i := range d.Plan.PersonalizedPlans {
			d.Plan.PersonalizedPlans[i].IsCompleted = false
		}
		c.dirty = true

		c.emit(shared.NewProgramStartedEvent(userID(d), c.today, len(tasks)))
		return nil
	})
	if err != nil {
		return progress.Snapshot{}, err
	}
	l.log.Info("program started", logger.DateKey(today))
	return progress.NewSnapshot(doc, today), nil
}

// CompleteTask toggles one of today's tasks in the completion list. Adding it
// earns XP; removing it takes nothing back. Ids not in today's task list are
// rejected. Returns whether the task is now done.
func (l *Ledger) CompleteTask(ctx context.Context, taskID string) (bool, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return false, shared.ErrEmptyTaskID
	}

	var done bool
	_, _, err := l.mutate(ctx, "CompleteTask", func(d *document.Document, c *change) error {
		if !hasTask(d.Tasks.ByDate[c.today], taskID) {
			return shared.ErrUnknownTask
		}
		c.dirty = true
		for i, id := range d.Tasks.CompletedToday {
			if id == taskID {
				d.Tasks.CompletedToday = append(d.Tasks.CompletedToday[:i], d.Tasks.CompletedToday[i+1:]...)
				done = false
				return nil
			}
		}
		d.Tasks.CompletedToday = append(d.Tasks.CompletedToday, taskID)
		done = true
		c.emit(shared.NewTaskCompletedEvent(userID(d), taskID, c.today))
		l.addXP(d, c, progress.XPTaskCompleted, "task_completed")
		return nil
	})
	if err != nil {
		return false, err
	}
	l.log.Debug("task toggled", logger.TaskID(taskID), logger.Bool("done", done))
	return done, nil
}

// AddStudyMinutes adds n minutes to today's study total and returns it.
func (l *Ledger) AddStudyMinutes(ctx context.Context, n int) (int, error) {
	if n < 0 {
		return 0, shared.ErrNegativeMinutes
	}
	var total int
	_, _, err := l.mutate(ctx, "AddStudyMinutes", func(d *document.Document, c *change) error {
		if n > 0 {
			d.Stats.TotalMinutesToday += n
			c.dirty = true
		}
		total = d.Stats.TotalMinutesToday
		return nil
	})
	return total, err
}

// CompleteFocusSession records a finished focus session: study minutes
// and XP.
func (l *Ledger) CompleteFocusSession(ctx context.Context) (int, error) {
	var xp int
	_, _, err := l.mutate(ctx, "CompleteFocusSession", func(d *document.Document, c *change) error {
		d.Stats.TotalMinutesToday += progress.FocusMinutes
		c.dirty = true
		c.emit(shared.NewFocusCompletedEvent(userID(d), progress.FocusMinutes, progress.XPFocusCompleted))
		xp = l.addXP(d, c, progress.XPFocusCompleted, "focus_session")
		return nil
	})
	return xp, err
}

// AdvanceDay marks the unlocked day as done and extends the streak. It
// succeeds at most once per calendar day and never unlocks a new day;
// unlocking follows the calendar only.
func (l *Ledger) AdvanceDay(ctx context.Context) (bool, error) {
	var advanced bool
	var day, streak int
	_, _, err := l.mutate(ctx, "AdvanceDay", func(d *document.Document, c *change) error {
		if !d.Plan.Started || d.Stats.LastCompletedDate == c.today {
			return nil
		}
		day = d.Plan.UnlockedDay
		if !document.ContainsInt(d.Stats.CompletedDays, day) {
			d.Stats.CompletedDays = append(d.Stats.CompletedDays, day)
		}
		if day >= 1 && day <= len(d.Plan.PersonalizedPlans) {
			d.Plan.PersonalizedPlans[day-1].IsCompleted = true
		}
		d.Stats.LastCompletedDate = c.today
		d.Stats.Streak++
		streak = d.Stats.Streak
		c.dirty = true
		advanced = true

		c.emit(shared.NewDayAdvancedEvent(userID(d), day, streak, c.today))
		return nil
	})
	if err != nil {
		return false, err
	}
	if advanced {
		l.log.Info("day completed", logger.Day(day), logger.Int("streak", streak))
	}
	return advanced, nil
}

// DisciplineLevel scores today's task completion.
func (l *Ledger) DisciplineLevel(ctx context.Context) (progress.DisciplineLevel, error) {
	snap, err := l.GetProgress(ctx)
	if err != nil {
		return progress.DisciplineLow, err
	}
	return snap.DisciplineLevel, nil
}

// ScheduleRevision queues a topic for revision.
func (l *Ledger) ScheduleRevision(ctx context.Context, subject, topic string) (document.RevisionItem, error) {
	subject, topic = strings.TrimSpace(subject), strings.TrimSpace(topic)
	if subject == "" || topic == "" {
		return document.RevisionItem{}, shared.ErrEmptyRevision
	}

	item := document.RevisionItem{
		ID:           "rev_" + uuid.NewString(),
		Subject:      subject,
		Topic:        topic,
		ScheduledFor: l.clock.Now().UTC().Format(time.RFC3339),
	}
	_, _, err := l.mutate(ctx, "ScheduleRevision", func(d *document.Document, c *change) error {
		d.Stats.Revisions = append(d.Stats.Revisions, item)
		c.dirty = true
		return nil
	})
	if err != nil {
		return document.RevisionItem{}, err
	}
	return item, nil
}

// RecordWeakArea puts a weak area at the front of the list.
func (l *Ledger) RecordWeakArea(ctx context.Context, area document.WeakArea) error {
	_, _, err := l.mutate(ctx, "RecordWeakArea", func(d *document.Document, c *change) error {
		d.Stats.WeakAreas = append([]document.WeakArea{area}, d.Stats.WeakAreas...)
		c.dirty = true
		return nil
	})
	return err
}

// XP returns cumulative experience points.
func (l *Ledger) XP(ctx context.Context) int {
	return l.repo.Load(ctx).Stats.XP
}

// Level returns the level band of the current XP.
func (l *Ledger) Level(ctx context.Context) progress.LevelInfo {
	return progress.LevelFor(l.XP(ctx))
}

// addXP adds amount to the XP total, emitting xp_gained and, when a band
// boundary is crossed, level_up.
func (l *Ledger) addXP(d *document.Document, c *change, amount int, reason string) int {
	before := progress.LevelFor(d.Stats.XP)
	d.Stats.XP += amount
	after := progress.LevelFor(d.Stats.XP)

	c.emit(shared.NewXPGainedEvent(userID(d), amount, d.Stats.XP, reason))
	l.log.Debug("xp added", logger.XPAmount(amount), logger.String("reason", reason))
	if after.Level > before.Level {
		c.emit(shared.NewLevelUpEvent(userID(d), before.Level, after.Level, after.Label))
		l.log.Info("level up", logger.Int("level", after.Level), logger.String("label", after.Label))
	}
	return d.Stats.XP
}

func hasTask(tasks []document.DisciplineTask, id string) bool {
	for _, t := range tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

func userID(d *document.Document) string {
	if d.User == nil {
		return ""
	}
	return d.User.ID
}
