package coach

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/progress"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/internal/infrastructure/persistence/store"
)

type fakeModel struct {
	reply    string
	support  string
	analysis progress.WeaknessAnalysis
	err      error
	seen     []document.ChatMessage
}

func (f *fakeModel) Chat(_ context.Context, history []document.ChatMessage) (string, error) {
	f.seen = history
	return f.reply, f.err
}

func (f *fakeModel) SupportMessage(context.Context) (string, error) {
	return f.support, f.err
}

func (f *fakeModel) AnalyzeWeakness(context.Context, string, string) (progress.WeaknessAnalysis, error) {
	return f.analysis, f.err
}

type fakeRecorder struct {
	areas     []document.WeakArea
	revisions [][2]string
}

func (r *fakeRecorder) RecordWeakArea(_ context.Context, a document.WeakArea) error {
	r.areas = append(r.areas, a)
	return nil
}

func (r *fakeRecorder) ScheduleRevision(_ context.Context, subject, topic string) (document.RevisionItem, error) {
	r.revisions = append(r.revisions, [2]string{subject, topic})
	return document.RevisionItem{Subject: subject, Topic: topic}, nil
}

var allOn = Features{Chat: true, Analysis: true}

func newService(m Model, rec ProgressRecorder, f Features) (*Service, *store.Store) {
	st := store.New(store.NewMemoryBackend(), nil)
	return NewService(st, m, rec, f, nil), st
}

func TestHistory_SeedsWelcome(t *testing.T) {
	s, st := newService(nil, nil, allOn)
	ctx := context.Background()

	h, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, document.RoleModel, h[0].Role)
	assert.Equal(t, welcome[document.LanguageBangla], h[0].Text())
	assert.Len(t, st.Load(ctx).Coach.History, 1)
}

func TestHistory_EnglishWelcome(t *testing.T) {
	s, st := newService(nil, nil, allOn)
	ctx := context.Background()
	prefs := document.DefaultPreferences()
	prefs.Language = document.LanguageEnglish
	st.Update(ctx, document.Partial{Preferences: &prefs})

	h, err := s.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, welcome[document.LanguageEnglish], h[0].Text())
}

func TestSend(t *testing.T) {
	m := &fakeModel{reply: "Revise vectors first."}
	s, st := newService(m, nil, allOn)
	ctx := context.Background()

	reply, err := s.Send(ctx, "  How do I start physics?  ")
	require.NoError(t, err)
	assert.Equal(t, "Revise vectors first.", reply)

	require.Len(t, m.seen, 2)
	assert.Equal(t, document.RoleUser, m.seen[1].Role)
	assert.Equal(t, "How do I start physics?", m.seen[1].Text())

	h := st.Load(ctx).Coach.History
	require.Len(t, h, 3)
	assert.Equal(t, "Revise vectors first.", h[2].Text())
}

func TestSend_FallbackOnFailure(t *testing.T) {
	s, st := newService(&fakeModel{err: errors.New("quota")}, nil, allOn)
	ctx := context.Background()

	reply, err := s.Send(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)

	h := st.Load(ctx).Coach.History
	require.Len(t, h, 3)
	assert.Equal(t, FallbackReply, h[2].Text())
}

func TestSend_DisabledUsesFallback(t *testing.T) {
	m := &fakeModel{reply: "unused"}
	s, _ := newService(m, nil, Features{})

	reply, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
	assert.Nil(t, m.seen)
}

func TestSend_Empty(t *testing.T) {
	s, _ := newService(nil, nil, allOn)
	_, err := s.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, shared.ErrEmptyMessage)
}

func TestClearHistory(t *testing.T) {
	s, _ := newService(&fakeModel{reply: "ok"}, nil, allOn)
	ctx := context.Background()

	_, err := s.Send(ctx, "one")
	require.NoError(t, err)

	h, err := s.ClearHistory(ctx)
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, document.RoleModel, h[0].Role)
}

func TestSupportMessage(t *testing.T) {
	s, _ := newService(&fakeModel{support: "One page at a time."}, nil, allOn)
	assert.Equal(t, "One page at a time.", s.SupportMessage(context.Background()))

	s, _ = newService(&fakeModel{err: errors.New("down")}, nil, allOn)
	assert.Equal(t, FallbackSupport, s.SupportMessage(context.Background()))

	s, _ = newService(nil, nil, allOn)
	assert.Equal(t, FallbackSupport, s.SupportMessage(context.Background()))
}

func TestAnalyzePractice(t *testing.T) {
	m := &fakeModel{analysis: progress.WeaknessAnalysis{
		WeaknessType: progress.WeaknessSpeed,
		Suggestion:   "Timed MCQ sets",
		Priority:     "Medium",
	}}
	rec := &fakeRecorder{}
	s, _ := newService(m, rec, allOn)

	got := s.AnalyzePractice(context.Background(), "Math", "ran out of time", "Integration")
	require.NotNil(t, got)
	assert.Equal(t, progress.WeaknessSpeed, got.WeaknessType)

	require.Len(t, rec.areas, 1)
	assert.Equal(t, document.WeakArea{Subject: "Math", Issue: progress.WeaknessSpeed, Suggestion: "Timed MCQ sets"}, rec.areas[0])
	assert.Equal(t, [][2]string{{"Math", "Integration"}}, rec.revisions)
}

func TestAnalyzePractice_FailureReturnsNil(t *testing.T) {
	rec := &fakeRecorder{}
	s, _ := newService(&fakeModel{err: errors.New("bad json")}, rec, allOn)
	assert.Nil(t, s.AnalyzePractice(context.Background(), "Math", "x", "y"))
	assert.Empty(t, rec.areas)

	s, _ = newService(&fakeModel{}, rec, Features{Chat: true})
	assert.Nil(t, s.AnalyzePractice(context.Background(), "Math", "x", "y"))
}
