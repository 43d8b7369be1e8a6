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
	"github.com/bgv-platform/auth-service/internal/server/config"
	"github.com/bgv-platform/auth-service/internal/server/email"
	"github.com/bgv-platform/auth-service/internal/server/password"
	"github.com/bgv-platform/auth-service/internal/server/policy"
	"github.com/bgv-platform/auth-service/internal/server/repositories/repomanager"
)

// PasswordResetService runs the two-step reset workflow: RequestReset mails a
// single-use token, CompleteReset consumes it and replaces the password.
type PasswordResetService struct {
	db                         *sql.DB
	repomanager                repomanager.RepositoryManager
	hasher                     password.Hasher
	sender                     email.Sender
	resetTokenValidityDuration time.Duration
}

// NewPasswordResetService constructs a PasswordResetService using
// repositories and server config.
func NewPasswordResetService(db *sql.DB, m repomanager.RepositoryManager, hasher password.Hasher,
	sender email.Sender, cfg *config.Config) *PasswordResetService {
	return &PasswordResetService{
		db:                         db,
		repomanager:                m,
		hasher:                     hasher,
		sender:                     sender,
		resetTokenValidityDuration: cfg.ResetTokenValidityDuration,
	}
}

// RequestReset issues a reset token for the account holding email and hands
// it to the notification sink. An absent email and a federated account both
// return nil with no visible action, so the endpoint cannot be used to probe
// which emails are registered. Any prior reset tokens for the user are
// dropped first; only the newest one is ever valid.
func (s *PasswordResetService) RequestReset(ctx context.Context, emailAddr string) error {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.ErrorInternal
	}
	if err := policy.CanResetPassword(user); err != nil {
		return nil
	}

	token := uuid.NewString()
	repo := s.repomanager.ResetTokens(s.db)
	if _, err := repo.DeleteByUserID(ctx, user.ID); err != nil {
		return common.ErrorInternal
	}
	if err := repo.Create(ctx, user.ID, token, s.resetTokenValidityDuration); err != nil {
		return common.ErrorInternal
	}

	if err := s.sender.SendPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("error sending reset email: %w", err)
	}
	return nil
}

// CompleteReset consumes a reset token and sets the new password. The token
// is marked used rather than deleted; a second attempt with the same value
// yields ErrTokenUsed. All of the user's refresh tokens are revoked in the
// same transaction, so a reset ends every existing session.
func (s *PasswordResetService) CompleteReset(ctx context.Context, token, newPassword string) error {
	repo := s.repomanager.ResetTokens(s.db)

	record, err := repo.Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		return common.ErrorInternal
	}
	if record.Used {
		return common.ErrTokenUsed
	}
	if record.ExpiresAt.Before(time.Now()) {
		if err := repo.Delete(ctx, token); err != nil {
			return common.ErrorInternal
		}
		return common.ErrTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, record.UserID)
	if err != nil {
		return common.ErrorInternal
	}
	if err := policy.CanResetPassword(user); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}
		if err := s.repomanager.ResetTokens(tx).MarkUsed(ctx, token); err != nil {
			return fmt.Errorf("error consuming reset token: %w", err)
		}
		if _, err := s.repomanager.RefreshTokens(tx).DeleteByUserID(ctx, user.ID); err != nil {
			return fmt.Errorf("error revoking sessions: %w", err)
		}
		return nil
	})
}
