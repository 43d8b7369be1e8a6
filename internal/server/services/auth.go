// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, password and Google login, refresh
// token rotation, and session revocation.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bgv-platform/auth-service/internal/common"
	"github.com/bgv-platform/auth-service/internal/dbx"
	"github.com/bgv-platform/auth-service/internal/server/auth"
	"github.com/bgv-platform/auth-service/internal/server/config"
	"github.com/bgv-platform/auth-service/internal/server/google"
	"github.com/bgv-platform/auth-service/internal/server/models"
	"github.com/bgv-platform/auth-service/internal/server/password"
	"github.com/bgv-platform/auth-service/internal/server/policy"
	"github.com/bgv-platform/auth-service/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService provides authentication-related operations:
// - Register: create local users and mint tokens
// - Login: verify credentials and mint tokens
// - LoginWithGoogle: verify a Google ID token, provision on first login
// - Refresh: rotate refresh tokens and mint new access tokens
// - Logout / LogoutAll: revoke sessions
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	hasher                       password.Hasher
	verifier                     google.Verifier
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher password.Hasher,
	verifier google.Verifier, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		hasher:                       hasher,
		verifier:                     verifier,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a local user and returns its first TokenPair. A taken
// email yields ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, email, plainPassword string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, common.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := repo.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Status:       models.StatusActive,
		AuthProvider: models.ProviderLocal,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issueTokens(ctx, user, s.db)
}

// Login verifies the email/password pair and, on success, returns a new
// TokenPair. An absent user and a wrong password both yield
// ErrInvalidCredentials so login cannot be used as an enumeration oracle.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if err := policy.CanLoginWithPassword(user); err != nil {
		return nil, err
	}
	if err := policy.CanAuthenticate(user); err != nil {
		return nil, err
	}
	if !s.hasher.Verify(plainPassword, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user, s.db)
}

// LoginWithGoogle validates the provider ID token and logs the asserted
// identity in, creating the account on first login. An email already owned by
// a different account yields ErrEmailTaken.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*TokenPair, error) {
	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByProviderID(ctx, identity.ProviderID)
	if err == nil {
		if err := policy.CanAuthenticate(user); err != nil {
			return nil, err
		}
		return s.issueTokens(ctx, user, s.db)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	exists, err := repo.ExistsByEmail(ctx, identity.Email)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if exists {
		return nil, common.ErrEmailTaken
	}

	user, err = repo.Create(ctx, &models.User{
		Email:        identity.Email,
		Role:         models.RoleUser,
		Status:       models.StatusActive,
		AuthProvider: models.ProviderGoogle,
		ProviderID:   identity.ProviderID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issueTokens(ctx, user, s.db)
}

// Refresh consumes a refresh token and returns a fresh TokenPair. The claim
// and replacement insert run in one transaction, so of two concurrent calls
// presenting the same value exactly one succeeds; the other sees
// ErrInvalidToken. Expired tokens and blocked accounts keep the record
// deleted and yield ErrTokenExpired / ErrAccountBlocked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair *TokenPair
	var denied error

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		token, err := s.repomanager.RefreshTokens(tx).Claim(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error claiming refresh token: %w", err)
		}

		// A nil return here commits the claim, so the record stays deleted.
		if token.ExpiresAt.Before(time.Now()) {
			denied = common.ErrTokenExpired
			return nil
		}

		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return common.ErrorInternal
		}
		if err := policy.CanAuthenticate(user); err != nil {
			denied = err
			return nil
		}

		var genErr error
		pair, genErr = s.issueTokens(ctx, user, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	if denied != nil {
		return nil, denied
	}
	return pair, nil
}

// Logout revokes the session holding the refresh token. An unknown token is
// not an error, so the call leaks nothing about which values are live.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.Delete(ctx, refreshToken); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// LogoutAll revokes every session owned by userID.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if _, err := repo.DeleteByUserID(ctx, userID); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// --- helpers below ---

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	return auth.GenerateToken(user, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *AuthService) generateRefreshToken() string {
	return uuid.NewString()
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User, db dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh := s.generateRefreshToken()
	refreshRepo := s.repomanager.RefreshTokens(db)
	if err := refreshRepo.Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
