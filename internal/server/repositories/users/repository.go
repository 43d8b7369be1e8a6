// Package users declares the repository contract for account records.
package users

import (
	"context"

	"github.com/bgv-platform/auth-service/internal/server/models"
)

// Repository defines operations over persistent user accounts.
type Repository interface {
	// Create inserts a new user and returns it with the store-assigned ID.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by email (compared as stored, case-sensitive).
	// Returns common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks a user up by its ID. Returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByProviderID looks a federated user up by the provider-assigned
	// subject id. Returns common.ErrorNotFound when absent.
	GetByProviderID(ctx context.Context, providerID string) (*models.User, error)

	// ExistsByEmail reports whether any account holds the email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// UpdatePasswordHash replaces the stored password hash for the user.
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}
