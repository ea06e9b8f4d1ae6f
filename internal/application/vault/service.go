// Package vault stores the learner's notes and study resource links.
package vault

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/pkg/logger"
	"github.com/brayner/brayner/pkg/timeutil"
)

// resourceInput is validated before a resource is stored.
type resourceInput struct {
	Title string `validate:"required"`
	Link  string `validate:"required,url"`
}

// Service owns the `vault` section of the document.
type Service struct {
	repo     document.Repository
	clock    timeutil.Clock
	validate *validator.Validate
	log      *logger.Logger
}

// NewService creates a new vault Service.
func NewService(repo document.Repository, clock timeutil.Clock, log *logger.Logger) *Service {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:     repo,
		clock:    clock,
		validate: validator.New(),
		log:      log.With(logger.Component("vault")),
	}
}

// Notes returns the notes, newest first.
func (s *Service) Notes(ctx context.Context) []document.Note {
	return s.repo.Load(ctx).Vault.Notes
}

// SaveNote stores a note at the front of the list.
func (s *Service) SaveNote(ctx context.Context, title, content string) (document.Note, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" && content == "" {
		return document.Note{}, shared.ErrEmptyNote
	}

	note := document.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: s.clock.Now().UTC().Format(time.RFC3339),
	}
	_, err := s.repo.Mutate(ctx, func(d *document.Document) (document.Partial, error) {
		d.Vault.Notes = append([]document.Note{note}, d.Vault.Notes...)
		return document.Partial{Vault: &d.Vault}, nil
	})
	if err != nil {
		return document.Note{}, err
	}
	s.log.Debug("note saved", logger.String("note_id", note.ID))
	return note, nil
}

// DeleteNote removes the note with the given id.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	_, err := s.repo.Mutate(ctx, func(d *document.Document) (document.Partial, error) {
		kept, found := removeBy(d.Vault.Notes, func(n document.Note) bool { return n.ID == id })
		if !found {
			return document.Partial{}, shared.ErrNoteNotFound
		}
		d.Vault.Notes = kept
		return document.Partial{Vault: &d.Vault}, nil
	})
	return err
}

// Resources returns the saved links in insertion order.
func (s *Service) Resources(ctx context.Context) []document.Resource {
	return s.repo.Load(ctx).Vault.Resources
}

// AddResource saves a titled link.
func (s *Service) AddResource(ctx context.Context, title, link string) (document.Resource, error) {
	in := resourceInput{Title: strings.TrimSpace(title), Link: strings.TrimSpace(link)}
	if err := s.validate.Struct(in); err != nil {
		return document.Resource{}, shared.ErrInvalidResource.Wrap(err)
	}

	res := document.Resource{ID: uuid.NewString(), Title: in.Title, Link: in.Link}
	_, err := s.repo.Mutate(ctx, func(d *document.Document) (document.Partial, error) {
		d.Vault.Resources = append(d.Vault.Resources, res)
		return document.Partial{Vault: &d.Vault}, nil
	})
	if err != nil {
		return document.Resource{}, err
	}
	return res, nil
}

// RemoveResource removes the resource with the given id.
func (s *Service) RemoveResource(ctx context.Context, id string) error {
	_, err := s.repo.Mutate(ctx, func(d *document.Document) (document.Partial, error) {
		kept, found := removeBy(d.Vault.Resources, func(r document.Resource) bool { return r.ID == id })
		if !found {
			return document.Partial{}, shared.ErrResourceNotFound
		}
		d.Vault.Resources = kept
		return document.Partial{Vault: &d.Vault}, nil
	})
	return err
}

func removeBy[T any](items []T, match func(T) bool) ([]T, bool) {
	out := make([]T, 0, len(items))
	found := false
	for _, it := range items {
		if match(it) {
			found = true
			continue
		}
		out = append(out, it)
	}
	return out, found
}
