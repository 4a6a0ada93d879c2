package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dkovalev/go-task-manager/internal/models"
	"github.com/dkovalev/go-task-manager/internal/repositories/users"
)

type authServiceImpl struct {
	logger zerolog.Logger
	users  users.Repository
	hasher PasswordHasher
	tokens TokenService
}

func NewAuthService(
	logger zerolog.Logger,
	usersRepo users.Repository,
	hasher PasswordHasher,
	tokens TokenService,
) AuthService {
	return &authServiceImpl{
		logger: logger,
		users:  usersRepo,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params CredentialsParams) (*AuthResult, error) {
	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	user := &models.User{
		Username:     params.Username,
		PasswordHash: passwordHash,
	}

	err = s.users.Save(ctx, user)
	if err != nil {
		if errors.Is(err, users.ErrUsernameTaken) {
			s.logger.Warn().
				Str("username", user.Username).
				Msg("user with this username already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Str("username", user.Username).
			Msg("failed to save user")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("saved user")

	result, err := s.issueFor(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("registered user")
	return result, nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, params CredentialsParams) (*AuthResult, error) {
	user, err := s.users.FindByUsername(ctx, params.Username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			// Same outcome as a wrong password, so a caller
			// cannot probe which usernames are registered.
			s.logger.Warn().
				Str("username", params.Username).
				Msg("user not found")
			return nil, ErrInvalidCredentials
		}

		s.logger.Error().
			Err(err).
			Str("username", params.Username).
			Msg("failed to find user by username")
		return nil, err
	}

	match, err := s.hasher.Verify(params.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to verify password")
		return nil, err
	}
	if !match {
		s.logger.Warn().
			Int64("user_id", user.ID).
			Msg("password mismatch")
		return nil, ErrInvalidCredentials
	}

	result, err := s.issueFor(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("authenticated user")
	return result, nil
}

// issueFor signs a brand-new token for the user. Previous tokens
// are never reused or extended.
func (s *authServiceImpl) issueFor(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.Username, nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", user.ID).
			Msg("failed to issue token")
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{
		Token:          token,
		TokenExpiresAt: expiresAt,
		UserID:         user.ID,
		Username:       user.Username,
	}, nil
}
