// Package resettokens declares the repository contract for password-reset
// tokens.
package resettokens

import (
	"context"
	"time"

	"github.com/bgv-platform/auth-service/internal/server/models"
)

// Repository defines operations over single-use password-reset tokens.
type Repository interface {
	// Create stores a new unused reset token for userID with an expiry of
	// now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find looks a reset token up by its opaque value, whether used or not.
	// Returns common.ErrorNotFound when absent.
	Find(ctx context.Context, token string) (*models.PasswordResetToken, error)

	// MarkUsed flips the token's used flag. The row is kept as an audit trail.
	// Returns common.ErrorNotFound if the token does not exist or is already used.
	MarkUsed(ctx context.Context, token string) error

	// Delete removes a reset token by its value.
	Delete(ctx context.Context, token string) error

	// DeleteByUserID removes every reset token owned by the user, enforcing
	// the single-active-token rule before a new token is issued.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes all tokens already past their expiry and returns
	// the number of deleted rows.
	DeleteExpired(ctx context.Context) (int64, error)
}
