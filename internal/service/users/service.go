// Package users implements account registration and authentication.
package users

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rumbocarpool/backend/internal/auth"
	"github.com/rumbocarpool/backend/internal/domain/rating"
	"github.com/rumbocarpool/backend/internal/domain/user"
	apperrors "github.com/rumbocarpool/backend/pkg/errors"
	"github.com/rumbocarpool/backend/pkg/logger"
)

// Service orchestrates account operations
type Service struct {
	users   user.Repository
	ratings rating.Repository
	hasher  *auth.Hasher
	tokens  *auth.TokenIssuer
	logger  *logger.Logger
}

// NewService creates a user service
func NewService(users user.Repository, ratings rating.Repository, hasher *auth.Hasher, tokens *auth.TokenIssuer, log *logger.Logger) *Service {
	return &Service{
		users:   users,
		ratings: ratings,
		hasher:  hasher,
		tokens:  tokens,
		logger:  log,
	}
}

// CreateUserInput carries a registration request
type CreateUserInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	DNI      string
}

// CreateUser registers an account. Email uniqueness is checked first, then
// dni; the credential is hashed before anything touches storage.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	dni := strings.TrimSpace(input.DNI)

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrEmailTaken
	}

	existing, err = s.users.GetByDNI(ctx, dni)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrDNITaken
	}

	credential, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	u := &user.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Phone:    strings.TrimSpace(input.Phone),
		Password: credential,
		DNI:      dni,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", logger.String("user_id", u.ID.String()))

	return u, nil
}

// Login authenticates by email and password and issues an access token.
// An unknown email and a wrong password fail identically.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}
	if u == nil || !s.hasher.Verify(password, u.Password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", apperrors.Wrap(err, "failed to issue token")
	}

	s.logger.Info("User logged in", logger.String("user_id", u.ID.String()))

	return u, token, nil
}

// GetUserByID returns the user plus their received ratings count
func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, int, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if u == nil {
		return nil, 0, apperrors.ErrUserNotFound
	}

	count, err := s.ratings.CountForUser(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	return u, count, nil
}

// UpdatePassword re-hashes and persists a new credential
func (s *Service) UpdatePassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	credential, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.Wrap(err, "failed to hash password")
	}

	if err := s.users.UpdatePassword(ctx, id, credential); err != nil {
		return err
	}

	s.logger.Info("Password updated", logger.String("user_id", id.String()))
	return nil
}
