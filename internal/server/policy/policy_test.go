package policy

import (
	"errors"
	"testing"

	"github.com/bgv-platform/auth-service/internal/common"
	"github.com/bgv-platform/auth-service/internal/server/models"
)

func TestCanAuthenticate(t *testing.T) {
	t.Parallel()

	if err := CanAuthenticate(&models.User{Status: models.StatusActive}); err != nil {
		t.Fatalf("active account must authenticate, got %v", err)
	}

	err := CanAuthenticate(&models.User{Status: models.StatusBlocked})
	if !errors.Is(err, common.ErrAccountBlocked) {
		t.Fatalf("expected ErrAccountBlocked, got %v", err)
	}
}

func TestCanLoginWithPassword(t *testing.T) {
	t.Parallel()

	local := &models.User{AuthProvider: models.ProviderLocal}
	if err := CanLoginWithPassword(local); err != nil {
		t.Fatalf("local account must be allowed, got %v", err)
	}

	google := &models.User{AuthProvider: models.ProviderGoogle}
	if err := CanLoginWithPassword(google); !errors.Is(err, common.ErrProviderMismatch) {
		t.Fatalf("expected ErrProviderMismatch, got %v", err)
	}
}

func TestCanResetPassword(t *testing.T) {
	t.Parallel()

	local := &models.User{AuthProvider: models.ProviderLocal}
	if err := CanResetPassword(local); err != nil {
		t.Fatalf("local account must be allowed, got %v", err)
	}

	google := &models.User{AuthProvider: models.ProviderGoogle}
	if err := CanResetPassword(google); !errors.Is(err, common.ErrProviderMismatch) {
		t.Fatalf("expected ErrProviderMismatch, got %v", err)
	}
}
