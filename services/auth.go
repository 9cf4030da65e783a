package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hazratullahh/eceomerce-jawad/database"
	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/hazratullahh/eceomerce-jawad/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Session is the pair of tokens handed to a signed in user.
type Session struct {
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	users  database.UserRepository
	tokens database.RefreshTokenRepository
	issuer utils.TokenIssuer
}

func NewAuthService(users database.UserRepository, tokens database.RefreshTokenRepository, issuer utils.TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, issuer: issuer}
}

func (s *AuthService) RefreshTTL() time.Duration {
	return s.issuer.RefreshTTL
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &UnauthorizedError{Message: "invalid credentials"}
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := utils.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, &UnauthorizedError{Message: "invalid credentials"}
	}
	if !user.IsActive {
		return nil, &ForbiddenError{Message: "account disabled"}
	}
	return s.issue(ctx, user)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, &UnauthorizedError{Message: "missing refresh token"}
	}
	now := time.Now().UTC()
	rt, err := s.tokens.FindActive(ctx, utils.HashToken(refreshToken), now)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &UnauthorizedError{Message: "invalid refresh token"}
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	user, err := s.users.FindByID(ctx, rt.UserID)
	if err != nil {
		return nil, &UnauthorizedError{Message: "invalid user"}
	}
	if !user.IsActive {
		return nil, &ForbiddenError{Message: "account disabled"}
	}

	session, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	replacedBy := utils.HashToken(session.RefreshToken)
	if err := s.tokens.Revoke(ctx, rt.ID, &replacedBy, now); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout revokes the refresh token, best effort.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokens.RevokeByHash(ctx, utils.HashToken(refreshToken), time.Now().UTC())
}

// ChangePassword replaces the user's password and signs out every session.
func (s *AuthService) ChangePassword(ctx context.Context, userID bson.ObjectID, current, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return &UnauthorizedError{Message: "invalid user"}
	}
	if err := utils.CheckPassword(user.PasswordHash, current); err != nil {
		return &UnauthorizedError{Message: "current password is incorrect"}
	}
	hash, err := utils.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return storeError("User", err)
	}
	return s.tokens.RevokeAllForUser(ctx, userID, user.UpdatedAt)
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*Session, error) {
	access, err := s.issuer.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.issuer.GenerateRefreshToken(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	now := time.Now().UTC()
	if err := s.tokens.Insert(ctx, &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashToken(refresh),
		ExpiresAt: now.Add(s.issuer.RefreshTTL),
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &Session{AccessToken: access, RefreshToken: refresh}, nil
}
