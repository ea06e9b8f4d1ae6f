package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/internal/infrastructure/persistence/store"
)

func TestGet_Defaults(t *testing.T) {
	s := NewService(store.New(store.NewMemoryBackend(), nil), nil)
	assert.Equal(t, document.DefaultPreferences(), s.Get(context.Background()))
	assert.True(t, s.AnyNotificationsEnabled(context.Background()))
}

func TestSave_ReplacesSection(t *testing.T) {
	s := NewService(store.New(store.NewMemoryBackend(), nil), nil)
	ctx := context.Background()

	p := document.Preferences{
		Theme:          document.ThemeDark,
		Language:       document.LanguageEnglish,
		DisciplineMode: document.ModeStrict,
	}
	saved, err := s.Save(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, p, saved)
	assert.Equal(t, p, s.Get(ctx))
	assert.False(t, s.AnyNotificationsEnabled(ctx))
}

func TestSave_RejectsUnknownValues(t *testing.T) {
	s := NewService(store.New(store.NewMemoryBackend(), nil), nil)
	ctx := context.Background()

	p := document.DefaultPreferences()
	p.Theme = "neon"
	_, err := s.Save(ctx, p)
	assert.ErrorIs(t, err, shared.ErrInvalidPreferences)
	assert.Equal(t, document.ThemeLight, s.Get(ctx).Theme)
}

func TestEffectiveLanguage(t *testing.T) {
	assert.Equal(t, document.LanguageBangla, EffectiveLanguage(document.LanguageBangla))
	assert.Equal(t, document.LanguageEnglish, EffectiveLanguage(document.LanguageEnglish))
	assert.Equal(t, document.LanguageBangla, EffectiveLanguage(document.LanguageSystem))
	assert.Equal(t, document.LanguageBangla, EffectiveLanguage(""))
}
