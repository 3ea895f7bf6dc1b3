// Package identity is the identity provider collaborator: account
// registration, credential checks and token issuance, backed by the
// persistent store.
package identity

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/MrSnakeDoc/newsstand/internal/errors"
	"github.com/MrSnakeDoc/newsstand/internal/logger"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore is the slice of the persistent store the service needs.
type UserStore interface {
	SaveUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetAllUsers(ctx context.Context) ([]*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	RemoveEmailIndex(ctx context.Context, email string) error
}

// Service implements account management on top of a UserStore.
type Service struct {
	store  UserStore
	tokens *TokenManager
	log    logger.Logger
	now    func() time.Time
}

// New creates an identity service.
func New(store UserStore, tokens *TokenManager, log logger.Logger) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
}

// Tokens exposes the token manager for middleware that validates
// bearer tokens.
func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

// Register creates a new account. The email must not already be in use
// and the password must satisfy the policy.
func (s *Service) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, errors.Validation("invalid email address")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	exists, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.Unavailable("could not check email"), err)
	}
	if exists {
		return nil, errors.AlreadyExists("an account with this email already exists")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(errors.Internal("could not hash password"), err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		Role:         domain.RoleUser,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    s.now(),
	}

	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, errors.Wrap(errors.Unavailable("could not save user"), err)
	}

	s.log.Info("user registered", logger.String("user_id", user.ID))
	return user, nil
}

// Login checks credentials and returns the user plus a signed token.
// Wrong email and wrong password produce the same error so callers
// cannot probe which emails exist.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", errors.Wrap(errors.Unavailable("could not look up user"), err)
	}
	if user == nil || !VerifyPassword(user.PasswordHash, password) {
		return nil, "", errors.InvalidCredentials("invalid email or password")
	}
	if !user.IsActive {
		return nil, "", errors.Forbidden("account is deactivated")
	}

	user.LastLogin = s.now()
	if err := s.store.SaveUser(ctx, user); err != nil {
		// Login still succeeds, the timestamp is best effort.
		s.log.Warn("failed to record last login", logger.String("user_id", user.ID), logger.Error(err))
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", errors.Wrap(errors.Internal("could not issue token"), err)
	}

	s.log.Info("user logged in", logger.String("user_id", user.ID))
	return user, token, nil
}

// GetUser loads a user by ID.
func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.Unavailable("could not load user"), err)
	}
	if user == nil {
		return nil, errors.NotFound("user not found: %s", id)
	}
	return user, nil
}

// CheckEmailExists reports whether an account with this email exists.
func (s *Service) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	exists, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return false, errors.Wrap(errors.Unavailable("could not check email"), err)
	}
	return exists, nil
}

// UpdateProfile changes a user's name and/or email. Changing the email
// re-checks uniqueness and swaps the index entry.
func (s *Service) UpdateProfile(ctx context.Context, id string, name, email *string) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	oldEmail := user.Email
	if email != nil {
		next := strings.ToLower(strings.TrimSpace(*email))
		if !emailPattern.MatchString(next) {
			return nil, errors.Validation("invalid email address")
		}
		if next != oldEmail {
			exists, err := s.store.EmailExists(ctx, next)
			if err != nil {
				return nil, errors.Wrap(errors.Unavailable("could not check email"), err)
			}
			if exists {
				return nil, errors.AlreadyExists("an account with this email already exists")
			}
			user.Email = next
		}
	}
	if name != nil {
		user.Name = strings.TrimSpace(*name)
	}

	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, errors.Wrap(errors.Unavailable("could not save user"), err)
	}
	if user.Email != oldEmail {
		if err := s.store.RemoveEmailIndex(ctx, oldEmail); err != nil {
			s.log.Warn("failed to drop stale email index", logger.String("email", oldEmail), logger.Error(err))
		}
	}

	return user, nil
}

// ChangePassword verifies the current password and sets a new one.
func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if !VerifyPassword(user.PasswordHash, current) {
		return errors.InvalidCredentials("current password is incorrect")
	}
	if err := validatePassword(next); err != nil {
		return err
	}

	hash, err := HashPassword(next)
	if err != nil {
		return errors.Wrap(errors.Internal("could not hash password"), err)
	}
	user.PasswordHash = hash

	if err := s.store.SaveUser(ctx, user); err != nil {
		return errors.Wrap(errors.Unavailable("could not save user"), err)
	}

	s.log.Info("password changed", logger.String("user_id", id))
	return nil
}

// ListUsers returns every account. Admin only, enforced at the HTTP
// layer.
func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.GetAllUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.Unavailable("could not list users"), err)
	}
	return users, nil
}

// SetActive activates or deactivates an account.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, errors.Wrap(errors.Unavailable("could not save user"), err)
	}
	s.log.Info("user active flag changed", logger.String("user_id", id), logger.Bool("active", active))
	return user, nil
}

// SetRole changes an account's role.
func (s *Service) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, errors.Validation("unknown role: %s", role)
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, errors.Wrap(errors.Unavailable("could not save user"), err)
	}
	return user, nil
}

// DeleteUser removes an account and everything stored under it,
// including the user's library.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return errors.Wrap(errors.Unavailable("could not load user"), err)
	}
	if user == nil {
		return errors.NotFound("user not found: %s", id)
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return errors.Wrap(errors.Unavailable("could not delete user"), err)
	}
	s.log.Info("user deleted", logger.String("user_id", id))
	return nil
}

// EnsureAdmin creates a bootstrap admin account on startup if the
// email is not yet registered. Used so a fresh deployment has a way in.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	exists, err := s.CheckEmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	user, err := s.Register(ctx, email, password, "Administrator")
	if err != nil {
		return err
	}
	if _, err := s.SetRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		return err
	}

	s.log.Info("bootstrap admin created", logger.String("email", email))
	return nil
}

// validatePassword enforces the password policy: at least 8 characters
// with an upper, a lower, a digit and a special character.
func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.Validation("password must be at least 8 characters")
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return errors.Validation("password must contain an uppercase letter, a lowercase letter, a digit and a special character")
	}
	return nil
}
