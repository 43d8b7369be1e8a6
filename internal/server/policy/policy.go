// Package policy holds the pure account-security decision rules. Functions
// here perform no I/O; they only inspect an account's state.
package policy

import (
	"github.com/bgv-platform/auth-service/internal/common"
	"github.com/bgv-platform/auth-service/internal/server/models"
)

// CanAuthenticate reports whether the account may receive tokens at all.
// Blocked accounts must not receive tokens through any flow.
func CanAuthenticate(user *models.User) error {
	if user.Status != models.StatusActive {
		return common.ErrAccountBlocked
	}
	return nil
}

// CanLoginWithPassword reports whether a password login is allowed.
// Federated accounts have no password and must use their provider's flow.
func CanLoginWithPassword(user *models.User) error {
	if user.AuthProvider != models.ProviderLocal {
		return common.ErrProviderMismatch
	}
	return nil
}

// CanResetPassword reports whether a password reset is allowed.
// Only locally-authenticated accounts own a password to reset.
func CanResetPassword(user *models.User) error {
	if user.AuthProvider != models.ProviderLocal {
		return common.ErrProviderMismatch
	}
	return nil
}
