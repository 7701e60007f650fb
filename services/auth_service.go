package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/store"
	"github.com/yeremiapane/autoservice-app/utils"
	"golang.org/x/crypto/bcrypt"
)

type LoginResult struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *models.User `json:"user"`
}

// AuthService issues and revokes token pairs.
type AuthService struct {
	store  store.Store
	tokens *utils.TokenManager
	now    func() time.Time
}

func NewAuthService(s store.Store, tokens *utils.TokenManager) *AuthService {
	return &AuthService{store: s, tokens: tokens, now: time.Now}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.store.Users().First(ctx, store.Where("username = ?", username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &DomainError{Kind: KindUnauthorized, Message: "invalid credentials"}
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, &DomainError{Kind: KindUnauthorized, Message: "invalid credentials"}
	}
	if !user.IsActive {
		return nil, forbiddenError("account is disabled")
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.tokens.GenerateRefreshToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("Login successful")
	return &LoginResult{Access: access, Refresh: refresh, User: user}, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, lookupError("user", err)
	}
	return user, nil
}

// Refresh exchanges a live refresh token for a new access token. The role is
// read from the database so role changes apply on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ParseToken(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return "", &DomainError{Kind: KindUnauthorized, Message: err.Error()}
	}
	revoked, err := s.store.RevokedTokens().Count(ctx, store.Where("jti = ?", claims.ID))
	if err != nil {
		return "", err
	}
	if revoked > 0 {
		return "", &DomainError{Kind: KindUnauthorized, Message: "token has been revoked"}
	}

	user, err := s.store.Users().Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", &DomainError{Kind: KindUnauthorized, Message: "user no longer exists"}
		}
		return "", err
	}
	if !user.IsActive {
		return "", forbiddenError("account is disabled")
	}
	return s.tokens.GenerateAccessToken(user.ID, string(user.Role))
}

// Logout revokes the refresh token. Revoking twice is a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ParseToken(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return &DomainError{Kind: KindUnauthorized, Message: err.Error()}
	}
	n, err := s.store.RevokedTokens().Count(ctx, store.Where("jti = ?", claims.ID))
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	revoked := &models.RevokedToken{
		JTI:       claims.ID,
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.store.RevokedTokens().Create(ctx, revoked); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// PurgeExpiredRevocations drops revocations whose tokens have expired anyway.
func (s *AuthService) PurgeExpiredRevocations(ctx context.Context) (int64, error) {
	return s.store.RevokedTokens().DeleteWhere(ctx, store.Where("expires_at < ?", s.now()))
}
