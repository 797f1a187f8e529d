package service

import (
	"context"
	"errors"
	"time"

	"classpoints/internal/dto"
	"classpoints/internal/identity"
	"classpoints/internal/model"
	"classpoints/internal/repository"
	"classpoints/internal/session"
	"classpoints/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Logout(ctx context.Context, tokenID string) error
	Profile(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	identity *identity.Provider
	users    repository.UserRepository
	sessions session.Store
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(provider *identity.Provider, users repository.UserRepository, sessions session.Store, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		identity: provider,
		users:    users,
		sessions: sessions,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Login authenticates against the identity store, then loads the profile
// document keyed by the identity ID. When the caller pins a role (admin login
// page vs supervisor login page) and the profile's role differs, no token is
// minted and no session record is written, so the caller ends up signed out.
func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	ident, err := s.identity.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, ident.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, err
	}

	if input.Role != "" && user.Role != input.Role {
		return nil, apperror.ErrRoleMismatch
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	tokenID := uuid.New().String()

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ID:        tokenID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return nil, err
	}

	sess := session.Session{
		UserID: user.ID.String(),
		Role:   user.Role,
		Name:   user.Name,
		Email:  user.Email,
	}
	if err := s.sessions.Save(ctx, tokenID, sess, s.tokenTTL); err != nil {
		// No partial sessions: a token without its session record would be
		// rejected by the auth middleware anyway.
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		Role:      user.Role,
		Name:      user.Name,
		Email:     user.Email,
	}, nil
}

func (s *authService) Logout(ctx context.Context, tokenID string) error {
	return s.sessions.Delete(ctx, tokenID)
}

func (s *authService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, err
	}
	return user, nil
}
