package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
)

var (
	ErrInvalidCreds        = errors.New("email or password invalid")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

const refreshTokenTTL = 24 * time.Hour

type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	issuer    *TokenIssuer
	now       func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.RefreshTokenRepository, issuer *TokenIssuer) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		issuer:    issuer,
		now:       time.Now,
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login verifies credentials and starts a new refresh token chain.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		verifyPassword(input.Password, dummyHash())
		return nil, ErrInvalidCreds
	}

	if !verifyPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCreds
	}

	refresh, err := s.newRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}

	return s.pair(user, refresh.Token)
}

// Refresh redeems a refresh token exactly once and returns its successor.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, ErrInvalidRefreshToken
	}

	replacement, err := s.newRefreshToken(uuid.Nil)
	if err != nil {
		return nil, err
	}

	stored, err := s.tokenRepo.Rotate(ctx, presented, replacement, s.now())
	if err != nil {
		return nil, fmt.Errorf("rotating refresh token: %w", err)
	}
	if stored == nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidRefreshToken
	}

	return s.pair(user, stored.Token)
}

// Logout revokes the given refresh token when it belongs to userID. Unknown or
// already revoked tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	if _, err := s.tokenRepo.Revoke(ctx, userID, refreshToken); err != nil {
		return fmt.Errorf("revoking refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) newRefreshToken(userID uuid.UUID) (*domain.RefreshToken, error) {
	token, err := newRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}
	now := s.now()
	return &domain.RefreshToken{
		ID:        uuid.New(),
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(refreshTokenTTL),
		CreatedAt: now,
	}, nil
}

func (s *AuthService) pair(user *domain.User, refreshToken string) (*TokenPair, error) {
	access, err := s.issuer.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}
