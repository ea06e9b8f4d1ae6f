// Package coach runs the AI study coach: chat history, support messages
// and practice analysis. Every model failure turns into a fallback.
package coach

import (
	"context"
	"strings"

	"github.com/brayner/brayner/internal/application/settings"
	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/progress"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/pkg/logger"
)

// Fallback texts used when the model cannot answer.
const (
	FallbackReply   = "Error in communication. Please try again shortly."
	FallbackSupport = "The path to discipline is a journey of small wins. Keep going."
)

var welcome = map[document.Language]string{
	document.LanguageBangla:  "স্বাগতম। আমি প্রফেসর ব্রেইনার, আপনার একাডেমিক মেন্টর। সিলেবাস, পড়ার পরিকল্পনা বা শৃঙ্খলা নিয়ে যেকোনো প্রশ্ন করুন।",
	document.LanguageEnglish: "Welcome. I am Professor Brayner, your academic mentor. Ask me anything about your syllabus, study plan or discipline.",
}

// Model is the generative model behind the coach.
type Model interface {
	Chat(ctx context.Context, history []document.ChatMessage) (string, error)
	SupportMessage(ctx context.Context) (string, error)
	AnalyzeWeakness(ctx context.Context, subject, summary string) (progress.WeaknessAnalysis, error)
}

// ProgressRecorder stores what an analysis found.
type ProgressRecorder interface {
	RecordWeakArea(ctx context.Context, area document.WeakArea) error
	ScheduleRevision(ctx context.Context, subject, topic string) (document.RevisionItem, error)
}

// Features switches coach capabilities on or off.
type Features struct {
	Chat     bool
	Analysis bool
}

// Service owns the `coach` section of the document.
type Service struct {
	repo     document.Repository
	model    Model
	progress ProgressRecorder
	features Features
	log      *logger.Logger
}

// NewService creates a new coach Service. A nil model disables every
// model call; the service then answers with fallbacks only.
func NewService(repo document.Repository, model Model, recorder ProgressRecorder, features Features, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:     repo,
		model:    model,
		progress: recorder,
		features: features,
		log:      log.With(logger.Component("coach")),
	}
}

// History returns the chat history, seeding it with a welcome turn when
// empty.
func (s *Service) History(ctx context.Context) ([]document.ChatMessage, error) {
	doc, err := s.repo.Mutate(ctx, func(d *document.Document) (document.Partial, error) {
		if len(d.Coach.History) > 0 {
			return document.Partial{}, nil
		}
		d.Coach.History = []document.ChatMessage{s.welcome(d)}
		return document.Partial{Coach: &d.Coach}, nil
	})
	if err != nil {
		return nil, err
	}
	return doc.Coach.History, nil
}

// Send appends a user turn, asks the model for a reply over the whole
// history and stores both turns. A failed model call stores FallbackReply.
func (s *Service) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", shared.ErrEmptyMessage
	}

	history, err := s.History(ctx)
	if err != nil {
		return "", err
	}
	userTurn := document.NewChatMessage(document.RoleUser, text)
	conversation := append(append([]document.ChatMessage{}, history...), userTurn)

	reply := FallbackReply
	if s.chatEnabled() {
		answer, err := s.model.Chat(ctx, conversation)
		if err != nil {
			s.log.Warn("coach reply failed", logger.Err(err))
		} else {
			reply = answer
		}
	}

	_, err = s.repo.Mutate(ctx, func(d *document.Document) (document.Partial, error) {
		if len(d.Coach.History) == 0 {
			d.Coach.History = []document.ChatMessage{s.welcome(d)}
		}
		d.Coach.History = append(d.Coach.History, userTurn, document.NewChatMessage(document.RoleModel, reply))
		return document.Partial{Coach: &d.Coach}, nil
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

// ClearHistory resets the chat to the welcome turn.
func (s *Service) ClearHistory(ctx context.Context) ([]document.ChatMessage, error) {
	doc, err := s.repo.Mutate(ctx, func(d *document.Document) (document.Partial, error) {
		d.Coach.History = []document.ChatMessage{s.welcome(d)}
		return document.Partial{Coach: &d.Coach}, nil
	})
	if err != nil {
		return nil, err
	}
	return doc.Coach.History, nil
}

// SupportMessage returns a short calm message, FallbackSupport on failure.
func (s *Service) SupportMessage(ctx context.Context) string {
	if !s.chatEnabled() {
		return FallbackSupport
	}
	msg, err := s.model.SupportMessage(ctx)
	if err != nil {
		s.log.Warn("support message failed", logger.Err(err))
		return FallbackSupport
	}
	return msg
}

// AnalyzePractice asks the model for the main weakness in a practice
// session. On success the weakness goes to the front of the weak areas and
// topic is scheduled for revision. Any failure returns nil.
func (s *Service) AnalyzePractice(ctx context.Context, subject, summary, topic string) *progress.WeaknessAnalysis {
	subject = strings.TrimSpace(subject)
	if s.model == nil || !s.features.Analysis || subject == "" {
		return nil
	}

	analysis, err := s.model.AnalyzeWeakness(ctx, subject, strings.TrimSpace(summary))
	if err != nil {
		s.log.Warn("practice analysis failed", logger.String("subject", subject), logger.Err(err))
		return nil
	}

	if s.progress != nil {
		if err := s.progress.RecordWeakArea(ctx, analysis.WeakArea(subject)); err != nil {
			s.log.Warn("failed to record weak area", logger.Err(err))
		}
		if topic = strings.TrimSpace(topic); topic == "" {
			topic = analysis.WeaknessType
		}
		if _, err := s.progress.ScheduleRevision(ctx, subject, topic); err != nil {
			s.log.Warn("failed to schedule revision", logger.Err(err))
		}
	}

	s.log.Info("practice analyzed",
		logger.String("subject", subject),
		logger.String("weakness", analysis.WeaknessType),
		logger.String("priority", analysis.Priority),
	)
	return &analysis
}

func (s *Service) chatEnabled() bool {
	return s.model != nil && s.features.Chat
}

func (s *Service) welcome(d *document.Document) document.ChatMessage {
	lang := settings.EffectiveLanguage(d.Preferences.Language)
	return document.NewChatMessage(document.RoleModel, welcome[lang])
}
