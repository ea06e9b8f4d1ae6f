// Package auth manages the locally registered accounts and the current
// session pointer stored in the document.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/pkg/logger"
	"github.com/brayner/brayner/pkg/timeutil"
)

// SignupRequest contains the data to register a new account.
type SignupRequest struct {
	Name          string                 `validate:"required"`
	Email         string                 `validate:"required,email"`
	Password      string                 `validate:"required"`
	AcademicLevel document.AcademicLevel `validate:"omitempty,oneof=SSC HSC"`
}

// Config contains configuration for the Registry.
type Config struct {
	// BcryptCost is the work factor for new password hashes.
	BcryptCost int
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{BcryptCost: bcrypt.DefaultCost}
}

// Registry owns the `users` and `user` sections of the document.
type Registry struct {
	repo      document.Repository
	publisher shared.EventPublisher
	clock     timeutil.Clock
	validate  *validator.Validate
	log       *logger.Logger
	cost      int
}

// NewRegistry creates a new Registry.
func NewRegistry(
	repo document.Repository,
	publisher shared.EventPublisher,
	clock timeutil.Clock,
	log *logger.Logger,
	config Config,
) *Registry {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	if config.BcryptCost < bcrypt.MinCost || config.BcryptCost > bcrypt.MaxCost {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &Registry{
		repo:      repo,
		publisher: publisher,
		clock:     clock,
		validate:  validator.New(),
		log:       log.With(logger.Component("auth")),
		cost:      config.BcryptCost,
	}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new account and makes it the current session.
// A taken email yields ErrEmailExists; any other failure ErrRegistration.
func (r *Registry) Signup(ctx context.Context, req SignupRequest) (*document.User, error) {
	req.Email = NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.AcademicLevel == "" {
		req.AcademicLevel = document.LevelSSC
	}
	if err := r.validate.Struct(req); err != nil {
		r.log.Debug("signup rejected", logger.Email(req.Email), logger.Err(err))
		return nil, shared.ErrRegistration.Wrap(err)
	}

	var user *document.User
	_, err := r.repo.Mutate(ctx, func(d *document.Document) (document.Partial, error) {
		if findAccount(d.Users, req.Email) >= 0 {
			return document.Partial{}, shared.ErrEmailExists
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), r.cost)
		if err != nil {
			return document.Partial{}, shared.ErrRegistration.Wrap(err)
		}

		account := document.Account{
			ID:            uuid.NewString(),
			Name:          req.Name,
			Email:         req.Email,
			PasswordHash:  string(hash),
			AcademicLevel: req.AcademicLevel,
			CreatedAt:     r.clock.Now().UTC().Format(time.RFC3339),
		}
		user = account.Profile()

		return document.Partial{
			User:  user,
			Users: append(d.Users, account),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("account registered", logger.UserID(user.ID), logger.Email(user.Email))
	r.publish(shared.NewAccountRegisteredEvent(user.ID, user.Email, user.Name, string(user.AcademicLevel)))
	return user, nil
}

var errCredentials = errors.New("credentials do not match")

// Login opens a session for the matching account. A mismatch returns
// (nil, false). Legacy plaintext passwords are replaced by a hash on the
// first successful login.
func (r *Registry) Login(ctx context.Context, email, password string) (*document.User, bool) {
	email = NormalizeEmail(email)

	var user *document.User
	_, err := r.repo.Mutate(ctx, func(d *document.Document) (document.Partial, error) {
		idx := findAccount(d.Users, email)
		if idx < 0 {
			return document.Partial{}, errCredentials
		}
		account := d.Users[idx]

		upgraded := false
		switch {
		case account.PasswordHash != "":
			if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
				return document.Partial{}, errCredentials
			}
		case account.Password != "":
			if subtle.ConstantTimeCompare([]byte(account.Password), []byte(password)) != 1 {
				return document.Partial{}, errCredentials
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
			if err != nil {
				return document.Partial{}, err
			}
			account.PasswordHash = string(hash)
			account.Password = ""
			upgraded = true
		default:
			return document.Partial{}, errCredentials
		}

		user = account.Profile()
		p := document.Partial{User: user}
		if upgraded {
			d.Users[idx] = account
			p.Users = d.Users
		}
		return p, nil
	})
	if err != nil {
		if !errors.Is(err, errCredentials) {
			r.log.Warn("login failed", logger.Email(email), logger.Err(err))
		}
		return nil, false
	}

	r.log.Info("logged in", logger.UserID(user.ID))
	return user, true
}

// Logout clears the session pointer. Accounts and progress stay.
func (r *Registry) Logout(ctx context.Context) error {
	_, err := r.repo.Update(ctx, document.Partial{ClearUser: true})
	return err
}

// CurrentUser returns the session user, nil when logged out.
func (r *Registry) CurrentUser(ctx context.Context) *document.User {
	return r.repo.Load(ctx).User
}

// IsOnboarded reports whether a session exists and the comeback plan
// has been generated.
func (r *Registry) IsOnboarded(ctx context.Context) bool {
	d := r.repo.Load(ctx)
	return d.User != nil && len(d.Plan.PersonalizedPlans) > 0
}

// AttachAssessment stores a on the session user and on the registered
// account, so later logins carry it.
func (r *Registry) AttachAssessment(ctx context.Context, a document.Assessment) (*document.User, error) {
	if err := r.validate.Struct(a); err != nil {
		return nil, shared.ErrInvalidAssessment.Wrap(err)
	}
	return r.updateSession(ctx, func(u *document.User, acc *document.Account) {
		assessment := a
		u.Assessment = &assessment
		u.AcademicLevel = a.AcademicLevel
		if acc != nil {
			acc.Assessment = &assessment
			acc.AcademicLevel = a.AcademicLevel
		}
	})
}

// UpdateProfileName renames the session user.
func (r *Registry) UpdateProfileName(ctx context.Context, name string) (*document.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrEmptyName
	}
	return r.updateSession(ctx, func(u *document.User, acc *document.Account) {
		u.Name = name
		if acc != nil {
			acc.Name = name
		}
	})
}

// updateSession applies fn to the session user and its account record.
// Guest sessions have no account.
func (r *Registry) updateSession(ctx context.Context, fn func(u *document.User, acc *document.Account)) (*document.User, error) {
	var user *document.User
	_, err := r.repo.Mutate(ctx, func(d *document.Document) (document.Partial, error) {
		if d.User == nil {
			return document.Partial{}, shared.ErrNoSession
		}
		user = d.User

		idx := findAccountByID(d.Users, user.ID)
		if idx < 0 {
			fn(user, nil)
			return document.Partial{User: user}, nil
		}
		fn(user, &d.Users[idx])
		return document.Partial{User: user, Users: d.Users}, nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Registry) publish(e shared.Event) {
	if err := r.publisher.Publish(e); err != nil {
		r.log.Warn("failed to publish event", logger.String("event_type", string(e.EventType())), logger.Err(err))
	}
}

func findAccount(accounts []document.Account, email string) int {
	for i, a := range accounts {
		if NormalizeEmail(a.Email) == email {
			return i
		}
	}
	return -1
}

func findAccountByID(accounts []document.Account, id string) int {
	for i, a := range accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}
