package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/granthkosh/granthkosh/app/models"
	"github.com/granthkosh/granthkosh/app/repositories"
	"github.com/granthkosh/granthkosh/pkg/auth"
	"github.com/granthkosh/granthkosh/pkg/event"
	"github.com/granthkosh/granthkosh/pkg/validate"
)

// UserRepo is the slice of the user repository the auth and user services
// need.
type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	All(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id, role string) (models.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the payload for authentication.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService handles registration, login and token refresh.
type AuthService struct {
	users UserRepo
}

// NewAuthService wires the service to its repository.
func NewAuthService(users UserRepo) *AuthService {
	return &AuthService{users: users}
}

// Register creates a new customer account and returns it with a token pair.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, TokenPair, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.User{}, TokenPair{}, NewValidationError(errs)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return models.User{}, TokenPair{}, ErrEmailTaken
		}
		return models.User{}, TokenPair{}, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}

	event.FireAsync(event.UserRegistered, user)
	return user, pair, nil
}

// Login verifies credentials and returns the account with a token pair.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (models.User, TokenPair, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.User{}, TokenPair{}, NewValidationError(errs)
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return models.User{}, TokenPair{}, err
	}
	if !auth.CheckPassword(user.Password, in.Password) {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// Profile loads the account behind a token's user ID.
func (s *AuthService) Profile(ctx context.Context, userID string) (models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Refresh exchanges a valid refresh token for a new token pair. The account
// is reloaded so a role change since issuance takes effect.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user models.User) (TokenPair, error) {
	access, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: sign access token: %w", err)
	}
	refresh, err := auth.GenerateRefreshToken(user.ID.Hex(), user.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
