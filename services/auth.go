// auth.go - Registration, login and profile use cases

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"go-journal-backend/apperr"
	"go-journal-backend/auth"
	"go-journal-backend/config"
	"go-journal-backend/models"
	"go-journal-backend/registration"
)

const msgInvalidCredentials = "Invalid credentials"

// UserStore is the credential store as seen by this package.
type UserStore interface {
	registration.EmailChecker
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
	List(ctx context.Context) ([]models.User, error)
}

// Session is returned by a successful register or login.
type Session struct {
	User      models.UserSummary `json:"user"`
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
}

type AuthService struct {
	users     UserStore
	validator *registration.Validator
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenIssuer
	log       *logrus.Logger

	// compared against when the email is unknown so both failure paths
	// cost one bcrypt comparison
	dummyHash string
}

func NewAuthService(users UserStore, validator *registration.Validator, hasher *auth.PasswordHasher, tokens *auth.TokenIssuer, log *logrus.Logger) (*AuthService, error) {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("services.NewAuthService: %w", err)
	}
	return &AuthService{
		users:     users,
		validator: validator,
		hasher:    hasher,
		tokens:    tokens,
		log:       log,
		dummyHash: dummy,
	}, nil
}

// Register validates in, stores the new user and issues a token for it.
func (s *AuthService) Register(ctx context.Context, in registration.Input) (Session, error) {
	const op = "services.Register"

	reg, err := s.validator.Validate(ctx, in)
	if err != nil {
		return Session{}, err
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return Session{}, apperr.Operational("failed to register user", fmt.Errorf("%s: %w", op, err))
	}

	user := &models.User{
		FirstName:    reg.FirstName,
		MiddleName:   reg.MiddleName,
		LastName:     reg.LastName,
		Email:        reg.Email,
		PhoneNumber:  reg.PhoneNumber,
		PasswordHash: hash,
	}
	user.SetProfile(reg.Profile)

	if err := s.users.Create(ctx, user); err != nil {
		return Session{}, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "user_type": user.UserType}).Info("user registered")

	return s.session(*user)
}

// Login checks credentials. Unknown email and wrong password produce the
// same Validation error.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.users.FindByEmail(ctx, registration.NormalizeEmail(email))
	switch {
	case apperr.Is(err, apperr.KindNotFound):
		s.hasher.Verify(password, s.dummyHash)
		return Session{}, apperr.Validation(msgInvalidCredentials, nil)
	case err != nil:
		return Session{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.WithField("user_id", user.ID).Info("login rejected")
		return Session{}, apperr.Validation(msgInvalidCredentials, nil)
	}

	s.log.WithField("user_id", user.ID).Info("user logged in")
	return s.session(user)
}

func (s *AuthService) Profile(ctx context.Context, userID string) (models.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

// EnsureAdmin creates the configured bootstrap admin when no admin exists.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg config.Admin) (bool, error) {
	const op = "services.EnsureAdmin"

	if !cfg.Enabled() {
		return false, nil
	}

	count, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := s.hasher.Hash(cfg.Password)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	admin := &models.User{
		FirstName:    "Admin",
		LastName:     "User",
		Email:        registration.NormalizeEmail(cfg.Email),
		PhoneNumber:  "-",
		PasswordHash: hash,
	}
	admin.SetProfile(models.AdminProfile{AdminCode: cfg.Code, Department: cfg.Department})

	if err := s.users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.log.WithField("user_id", admin.ID).Info("bootstrap admin created")
	return true, nil
}

func (s *AuthService) session(u models.User) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(u.ID)
	if err != nil {
		return Session{}, apperr.Operational("failed to issue token", err)
	}
	return Session{User: u.Summary(), Token: token, ExpiresAt: expiresAt}, nil
}
