// Package refreshtokens declares the repository contract for server-stored
// refresh tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/bgv-platform/auth-service/internal/server/models"
)

// Repository defines operations for issuing, consuming, and revoking refresh
// tokens.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Claim deletes the token row and returns it. At most one concurrent
	// caller can claim a given token value; all others get common.ErrorNotFound.
	// This is the single-winner primitive behind rotation replay protection.
	Claim(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token by its token value. Deleting a
	// non-existent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByUserID removes every refresh token owned by the user and
	// returns the number of deleted rows.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes all tokens whose expiry is in the past and
	// returns the number of deleted rows.
	DeleteExpired(ctx context.Context) (int64, error)
}
