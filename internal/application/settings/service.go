// Package settings reads and writes the preferences section.
package settings

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/pkg/logger"
)

// Service owns the `preferences` section of the document.
type Service struct {
	repo     document.Repository
	validate *validator.Validate
	log      *logger.Logger
}

// NewService creates a new settings Service.
func NewService(repo document.Repository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:     repo,
		validate: validator.New(),
		log:      log.With(logger.Component("settings")),
	}
}

// Get returns the stored preferences.
func (s *Service) Get(ctx context.Context) document.Preferences {
	return s.repo.Load(ctx).Preferences
}

// Save replaces the whole preferences section.
func (s *Service) Save(ctx context.Context, p document.Preferences) (document.Preferences, error) {
	if err := s.validate.Struct(p); err != nil {
		return document.Preferences{}, shared.ErrInvalidPreferences.Wrap(err)
	}
	doc, err := s.repo.Update(ctx, document.Partial{Preferences: &p})
	if err != nil {
		return document.Preferences{}, err
	}
	s.log.Debug("preferences saved",
		logger.String("theme", string(p.Theme)),
		logger.String("language", string(p.Language)),
	)
	return doc.Preferences, nil
}

// AnyNotificationsEnabled reports whether at least one reminder kind is on.
func (s *Service) AnyNotificationsEnabled(ctx context.Context) bool {
	return s.Get(ctx).Notifications.AnyEnabled()
}

// EffectiveLanguage resolves a language preference to a concrete one.
// Anything other than English resolves to Bangla.
func EffectiveLanguage(lang document.Language) document.Language {
	if lang == document.LanguageEnglish {
		return document.LanguageEnglish
	}
	return document.LanguageBangla
}
