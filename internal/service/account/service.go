// Package account implements the user-lifecycle policy: registration,
// login, token-based authentication and soft-delete-aware user management.
// It composes the password hasher, the token service and the user store,
// all received at construction.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joel-arnold/accounts-api/internal/domain"
	"github.com/joel-arnold/accounts-api/internal/platform/logger"
	"github.com/joel-arnold/accounts-api/internal/service/auth"
	"github.com/joel-arnold/accounts-api/internal/store"
)

// AuthResult is the outcome of a successful registration or login.
type AuthResult struct {
	User  *domain.User
	Token string
}

// UpdateInput describes a partial profile update. Nil fields are left
// unchanged; Password, when present, is plaintext and gets hashed here.
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
}

// Service orchestrates account flows over the injected collaborators.
type Service struct {
	users    store.UserStore
	tokens   auth.TokenService
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

// NewService creates an account Service with explicit dependencies.
// If log is nil, the process default logger is used.
func NewService(
	users store.UserStore,
	tokens auth.TokenService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		verifier: verifier,
		logger:   log.With(slog.String("component", "account_service")),
	}
}

// Register creates a new account and issues a session token. The email must
// not belong to an active user; a soft-deleted user's email may be reused.
// Returns ErrEmailTaken on conflict, including a conflict first surfaced by
// the storage uniqueness constraint at insert time.
func (s *Service) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	if err := s.users.EmailAvailable(ctx, email, 0); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		log.Error("email availability check failed", "error", err)
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("password hashing failed", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(name, email, hashed)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The availability check can race a concurrent registration; the
		// partial unique index arbitrates and the violation comes back
		// here.
		if errors.Is(err, store.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		log.Error("user creation failed", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info("user registered", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates an active user by email and password and issues a
// session token. An unknown email and a wrong password both return
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email, false)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		log.Error("user lookup failed", "error", err)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info("user logged in", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token to an active user. Every failure,
// whether an invalid token or an unknown or soft-deleted user, returns
// ErrUnauthorized, so existence is never leaked to an unauthenticated
// caller.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	userID, err := s.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID, false)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrUnauthorized
		}
		log.Error("authenticated user load failed", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}

// GetUser returns an active user by ID.
func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id, false)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers returns all active users.
func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies a partial update to an active user. A patched email is
// re-checked for uniqueness among active users (excluding the user itself);
// a patched password is validated and hashed before storage.
func (s *Service) UpdateUser(ctx context.Context, id int64, input UpdateInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	patch := store.UserPatch{}

	if input.Name != nil {
		if err := domain.ValidateName(*input.Name); err != nil {
			return nil, err
		}
		patch.Name = input.Name
	}

	if input.Email != nil {
		if err := domain.ValidateEmail(*input.Email); err != nil {
			return nil, err
		}
		patch.Email = input.Email
	}

	if input.Password != nil {
		if err := domain.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hashed, err := s.hasher.Hash(*input.Password)
		if err != nil {
			log.Error("password hashing failed", "error", err)
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		patch.HashedPassword = &hashed
	}

	if patch.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	user, err := s.users.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			return nil, ErrEmailTaken
		case store.IsNotFoundError(err):
			return nil, ErrUserNotFound
		}
		log.Error("user update failed", "error", err, "user_id", id)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	log.Info("user updated", "user_id", id)
	return user, nil
}

// DeleteUser soft-deletes a user: the row is kept, deleted_at and
// updated_at are set, and the email becomes reusable by new registrations.
func (s *Service) DeleteUser(ctx context.Context, id int64) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		log.Error("user soft delete failed", "error", err, "user_id", id)
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	log.Info("user soft-deleted", "user_id", id)
	return user, nil
}
