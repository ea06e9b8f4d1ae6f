// Package saga contains multi-step processes that coordinate several
// application services and undo earlier steps when a later one fails.
package saga

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/brayner/brayner/internal/application/auth"
	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/progress"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ONBOARDING SAGA
// Flow: Validate → Signup → Attach Assessment → Build Comeback Plan
// The program itself is started later, so the unlocked day stays 0.
// ══════════════════════════════════════════════════════════════════════════════

// OnboardingInput contains everything collected by the onboarding form.
type OnboardingInput struct {
	Signup     auth.SignupRequest
	Assessment document.Assessment
}

// OnboardingResult contains the result of a successful onboarding.
type OnboardingResult struct {
	User           *document.User
	Plans          []document.DayPlan
	WeakAreas      []document.WeakArea
	DisciplineMode document.DisciplineMode
}

// OnboardingStep names a step of the saga.
type OnboardingStep string

const (
	StepValidateInput    OnboardingStep = "validate_input"
	StepSignup           OnboardingStep = "signup"
	StepAttachAssessment OnboardingStep = "attach_assessment"
	StepBuildPlan        OnboardingStep = "build_plan"
)

// Registrar is the slice of the auth registry the saga needs.
type Registrar interface {
	Signup(ctx context.Context, req auth.SignupRequest) (*document.User, error)
	AttachAssessment(ctx context.Context, a document.Assessment) (*document.User, error)
}

// OnboardingSaga registers a student and prepares their comeback plan.
type OnboardingSaga struct {
	registrar Registrar
	repo      document.Repository
	validate  *validator.Validate
	log       *logger.Logger
}

// NewOnboardingSaga creates a new onboarding saga.
func NewOnboardingSaga(registrar Registrar, repo document.Repository, log *logger.Logger) *OnboardingSaga {
	if log == nil {
		log = logger.NewNop()
	}
	return &OnboardingSaga{
		registrar: registrar,
		repo:      repo,
		validate:  validator.New(),
		log:       log.With(logger.Component("onboarding")),
	}
}

// Execute runs the saga. When a step after signup fails the new account is
// removed again, so a retry with the same email succeeds.
func (s *OnboardingSaga) Execute(ctx context.Context, input OnboardingInput) (*OnboardingResult, error) {
	// Validate the assessment up front so a bad form never creates an account.
	if err := s.validate.Struct(input.Assessment); err != nil {
		return nil, wrapError(StepValidateInput, shared.ErrInvalidAssessment.Wrap(err))
	}

	if _, err := s.registrar.Signup(ctx, input.Signup); err != nil {
		return nil, wrapError(StepSignup, err)
	}

	user, err := s.registrar.AttachAssessment(ctx, input.Assessment)
	if err != nil {
		s.rollbackSignup(ctx, auth.NormalizeEmail(input.Signup.Email))
		return nil, wrapError(StepAttachAssessment, err)
	}

	result := &OnboardingResult{
		User:           user,
		Plans:          progress.ComebackPlan(input.Assessment),
		WeakAreas:      progress.SeedWeakAreas(input.Assessment.WeakSubjects),
		DisciplineMode: progress.ModeForProblem(input.Assessment.PrimaryProblem),
	}

	_, err = s.repo.Mutate(ctx, func(d *document.Document) (document.Partial, error) {
		d.Plan.PersonalizedPlans = result.Plans
		d.Plan.Started = false
		d.Plan.StartDate = ""
		d.Plan.UnlockedDay = 0
		d.Stats.WeakAreas = result.WeakAreas
		d.Preferences.DisciplineMode = result.DisciplineMode
		d.Preferences.Language = document.LanguageBangla
		return document.Partial{Plan: &d.Plan, Stats: &d.Stats, Preferences: &d.Preferences}, nil
	})
	if err != nil {
		s.rollbackSignup(ctx, user.Email)
		return nil, wrapError(StepBuildPlan, err)
	}

	s.log.Info("student onboarded",
		logger.UserID(user.ID),
		logger.Int("plan_days", len(result.Plans)),
		logger.String("discipline_mode", string(result.DisciplineMode)),
	)
	return result, nil
}

// rollbackSignup removes the account created by this run and clears the
// session.
func (s *OnboardingSaga) rollbackSignup(ctx context.Context, email string) {
	_, err := s.repo.Mutate(ctx, func(d *document.Document) (document.Partial, error) {
		kept := make([]document.Account, 0, len(d.Users))
		for _, a := range d.Users {
			if auth.NormalizeEmail(a.Email) != email {
				kept = append(kept, a)
			}
		}
		return document.Partial{Users: kept, ClearUser: true}, nil
	})
	if err != nil {
		s.log.Error("onboarding rollback failed", logger.Email(email), logger.Err(err))
		return
	}
	s.log.Warn("onboarding rolled back", logger.Email(email))
}

// OnboardingError reports the step at which onboarding failed.
type OnboardingError struct {
	Step  OnboardingStep
	Cause error
}

func (e *OnboardingError) Error() string {
	return fmt.Sprintf("onboarding failed at step '%s': %v", e.Step, e.Cause)
}

func (e *OnboardingError) Unwrap() error {
	return e.Cause
}

func wrapError(step OnboardingStep, err error) error {
	return &OnboardingError{Step: step, Cause: err}
}

// FailedStep returns the step recorded in err, or "" if err did not come
// from the saga.
func FailedStep(err error) OnboardingStep {
	var oe *OnboardingError
	if errors.As(err, &oe) {
		return oe.Step
	}
	return ""
}
