package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/bgv-platform/auth-service/internal/logging"
	"github.com/bgv-platform/auth-service/internal/server/repositories/repomanager"
)

// TokenJanitor periodically removes expired refresh and reset tokens.
// Expired tokens are already rejected at use time; the janitor only keeps
// the tables from growing without bound.
type TokenJanitor struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewTokenJanitor(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *TokenJanitor {
	return &TokenJanitor{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "janitor"),
	}
}

// RunOnce deletes everything already past expiry.
func (j *TokenJanitor) RunOnce(ctx context.Context) {
	refresh, err := j.repomanager.RefreshTokens(j.db).DeleteExpired(ctx)
	if err != nil {
		j.logger.Error(ctx, "refresh token cleanup failed", "error", err)
	}

	reset, err := j.repomanager.ResetTokens(j.db).DeleteExpired(ctx)
	if err != nil {
		j.logger.Error(ctx, "reset token cleanup failed", "error", err)
	}

	if refresh > 0 || reset > 0 {
		j.logger.Info(ctx, "expired tokens removed", "refresh", refresh, "reset", reset)
	}
}

// Run cleans up on the given interval until ctx is cancelled.
func (j *TokenJanitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.RunOnce(ctx)
	for {
		select {
		case <-ticker.C:
			j.RunOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}
