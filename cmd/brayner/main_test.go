package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/progress"
	"github.com/brayner/brayner/internal/infrastructure/persistence/store"
	"github.com/brayner/brayner/pkg/timeutil"
)

type fakeModel struct {
	reply    string
	analysis progress.WeaknessAnalysis
}

func (f *fakeModel) Chat(context.Context, []document.ChatMessage) (string, error) {
	return f.reply, nil
}

func (f *fakeModel) SupportMessage(context.Context) (string, error) {
	return "", errors.New("unavailable")
}

func (f *fakeModel) AnalyzeWeakness(context.Context, string, string) (progress.WeaknessAnalysis, error) {
	return f.analysis, nil
}

// isolate keeps the developer's environment out of the tests.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BRAYNER_CONFIG", "BRAYNER_STORE_KEY", "BRAYNER_SQLITE_PATH", "BRAYNER_STORE_RESILIENT",
		"DATABASE_URL", "REDIS_URL", "GEMINI_API_KEY", "API_KEY", "APP_TIMEZONE",
		"NOTIFY_PERMISSION", "NOTIFY_QUIET_HOURS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("BRAYNER_STORE", "memory")
	t.Setenv("NOTIFY_CHANNEL", "console")
	t.Setenv("BRAYNER_DATA_DIR", t.TempDir())
}

func newOptions() appOptions {
	return appOptions{
		Backend: store.NewMemoryBackend(),
		Clock:   timeutil.NewFixedClock(time.Date(2025, 3, 3, 10, 0, 0, 0, timeutil.DhakaTZ)),
	}
}

func execute(t *testing.T, opts appOptions, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	c := newCLI(opts, &errOut)
	root := c.command()
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	c.teardown(nil, nil)
	return out.String(), err
}

func mustExecute(t *testing.T, opts appOptions, args ...string) string {
	t.Helper()
	out, err := execute(t, opts, args...)
	require.NoError(t, err, "brayner %v", args)
	return out
}

func onboard(t *testing.T, opts appOptions) {
	t.Helper()
	mustExecute(t, opts, "onboard",
		"--name", "Nadia", "--email", "nadia@example.com", "--password", "secret1",
		"--level", "hsc", "--weak", "Physics,Math", "--problem", "discipline", "--goal", "gpa5")
	mustExecute(t, opts, "settings", "set", "--language", "en")
}

func TestSession(t *testing.T) {
	isolate(t)
	opts := newOptions()

	out := mustExecute(t, opts, "signup", "--name", "Rafi", "--email", "Rafi@Example.com", "--password", "pw123456", "--level", "ssc")
	assert.Contains(t, out, "Welcome, Rafi")

	assert.Contains(t, mustExecute(t, opts, "whoami"), "Rafi <rafi@example.com>")

	mustExecute(t, opts, "logout")
	assert.Equal(t, "Not logged in.\n", mustExecute(t, opts, "whoami"))

	_, err := execute(t, opts, "login", "--email", "rafi@example.com", "--password", "wrong")
	assert.ErrorIs(t, err, errInvalidCredentials)

	mustExecute(t, opts, "login", "--email", "RAFI@example.com", "--password", "pw123456")
	mustExecute(t, opts, "profile", "name", "Rafi", "Ahmed")
	assert.Contains(t, mustExecute(t, opts, "whoami"), "Rafi Ahmed")
}

func TestProgramFlow(t *testing.T) {
	isolate(t)
	opts := newOptions()

	_, err := execute(t, opts, "start")
	require.Error(t, err, "an assessment is required")

	assert.NotContains(t, mustExecute(t, opts, "whoami"), "Comeback plan")
	onboard(t, opts)
	who := mustExecute(t, opts, "whoami")
	assert.Contains(t, who, "weak subjects: Physics, Math")
	assert.Contains(t, who, "Comeback plan: ready")

	out := mustExecute(t, opts, "start")
	assert.Contains(t, out, "Program started on 2025-03-03")
	assert.Contains(t, out, "Day 1 of 30")

	var snap progress.Snapshot
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, opts, "progress", "--json")), &snap))
	require.NotEmpty(t, snap.DailyTasks)
	taskID := snap.DailyTasks[0].ID

	assert.Contains(t, mustExecute(t, opts, "complete", taskID), "+5 XP")
	assert.Contains(t, mustExecute(t, opts, "progress"), "[x] "+taskID)

	out = mustExecute(t, opts, "focus")
	assert.Contains(t, out, "Focus session recorded. +10 XP (total 15)")
	assert.Contains(t, out, "🔔 Focus Session Complete!")

	assert.Equal(t, "Studied today: 45 min\n", mustExecute(t, opts, "minutes", "20"))
	_, err = execute(t, opts, "minutes", "ten")
	assert.Error(t, err)

	out = mustExecute(t, opts, "advance")
	assert.Contains(t, out, "🔔 Day Completed!: Congratulations! You have completed Day 1.")
	assert.Contains(t, out, "Day 1 complete. Streak: 1")
	assert.Contains(t, mustExecute(t, opts, "advance"), "Nothing to complete")

	assert.Contains(t, mustExecute(t, opts, "level"), "XP 15")

	assert.Contains(t, mustExecute(t, opts, "revise", "Physics", "Newton's", "laws"), "Physics: Newton's laws")
	out = mustExecute(t, opts, "progress")
	assert.Contains(t, out, "Completed days: 1")
	assert.Contains(t, out, "Physics: Newton's laws")
}

func TestSettings(t *testing.T) {
	isolate(t)
	opts := newOptions()

	_, err := execute(t, opts, "settings", "set")
	assert.Error(t, err)

	_, err = execute(t, opts, "settings", "set", "--theme", "purple")
	assert.Error(t, err)

	out := mustExecute(t, opts, "settings", "set", "--notifications=false", "--language", "en")
	assert.Contains(t, out, "daily_reminder")
	assert.Contains(t, mustExecute(t, opts, "settings", "show"), "daily=false comeback=false revision=false")

	out = mustExecute(t, opts, "settings", "set", "--daily")
	assert.Equal(t, "Updated: daily_reminder\n🔔 BRAYNER: Notifications are now active. Prepare for your comeback.\n", out)

	assert.Equal(t, "No changes.\n", mustExecute(t, opts, "settings", "set", "--daily"))
}

func TestVault(t *testing.T) {
	isolate(t)
	opts := newOptions()

	assert.Equal(t, "No notes yet.\n", mustExecute(t, opts, "note", "ls"))
	mustExecute(t, opts, "note", "add", "--title", "Optics", "Snell's", "law")
	out := mustExecute(t, opts, "note", "ls")
	assert.Contains(t, out, "Optics")
	assert.Contains(t, out, "Snell's law")

	_, err := execute(t, opts, "note", "rm", "missing")
	assert.Error(t, err)

	_, err = execute(t, opts, "resource", "add", "Khan", "not a url")
	assert.Error(t, err)
	mustExecute(t, opts, "resource", "add", "Khan", "https://www.khanacademy.org")
	assert.Contains(t, mustExecute(t, opts, "resource", "ls"), "https://www.khanacademy.org")
}

func TestCoach(t *testing.T) {
	isolate(t)

	t.Run("without a model", func(t *testing.T) {
		opts := newOptions()
		assert.Contains(t, mustExecute(t, opts, "coach", "support"), "journey of small wins")
		assert.Contains(t, mustExecute(t, opts, "analyze", "Physics", "wrong units"), "unavailable")
		assert.Contains(t, mustExecute(t, opts, "coach", "send", "hello"), "Error in communication")
	})

	t.Run("with a model", func(t *testing.T) {
		opts := newOptions()
		opts.Model = &fakeModel{
			reply:    "Start with vectors.",
			analysis: progress.WeaknessAnalysis{WeaknessType: "Unit conversion", Suggestion: "Drill SI units", Priority: "High"},
		}
		mustExecute(t, opts, "settings", "set", "--language", "en")

		assert.Equal(t, "Start with vectors.\n", mustExecute(t, opts, "coach", "send", "where", "do", "I", "start?"))
		out := mustExecute(t, opts, "coach", "history")
		assert.Contains(t, out, "coach: Welcome. I am Professor Brayner")
		assert.Contains(t, out, "you: where do I start?")

		out = mustExecute(t, opts, "coach", "clear")
		assert.NotContains(t, out, "where do I start?")

		out = mustExecute(t, opts, "analyze", "Physics", "mixed up cm and m")
		assert.Contains(t, out, "Weakness: Unit conversion")

		var snap progress.Snapshot
		require.NoError(t, json.Unmarshal([]byte(mustExecute(t, opts, "progress", "--json")), &snap))
		require.NotEmpty(t, snap.WeakAreas)
		assert.Equal(t, "Physics", snap.WeakAreas[0].Subject)
		require.Len(t, snap.Revisions, 1)
		assert.Equal(t, "Unit conversion", snap.Revisions[0].Topic)
	})
}

func TestReset(t *testing.T) {
	isolate(t)
	opts := newOptions()
	onboard(t, opts)
	mustExecute(t, opts, "start")

	_, err := execute(t, opts, "reset")
	assert.Error(t, err)

	mustExecute(t, opts, "reset", "--yes")
	assert.Equal(t, "Not logged in.\n", mustExecute(t, opts, "whoami"))
	assert.Contains(t, mustExecute(t, opts, "progress"), "has not started")

	mustExecute(t, opts, "login", "--email", "nadia@example.com", "--password", "secret1")
}

func TestUnknownStoreDriver(t *testing.T) {
	isolate(t)
	_, err := execute(t, appOptions{}, "--store", "floppy", "whoami")
	assert.Error(t, err)
}
