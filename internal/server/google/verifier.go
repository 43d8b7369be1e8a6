// Package google validates Google ID tokens for the federated login flow.
// Signature, issuer, audience, and expiry checks are delegated to Google's
// token validation endpoint; this package additionally requires the
// email_verified claim to be true.
package google

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"

	"github.com/bgv-platform/auth-service/internal/common"
)

// Identity is the verified result of a Google ID-token check.
type Identity struct {
	// ProviderID is Google's stable subject ("sub") for the account.
	ProviderID string
	Email      string
}

// Verifier validates a provider-issued ID token and extracts the identity.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// IDTokenVerifier verifies Google ID tokens against a configured OAuth client ID.
type IDTokenVerifier struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewIDTokenVerifier constructs a verifier whose audience check is bound to
// clientID.
func NewIDTokenVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{
		clientID: clientID,
		validate: idtoken.Validate,
	}
}

// Verify validates the ID token and returns the asserted identity. Tokens
// whose email is not verified by Google yield common.ErrUnverifiedEmail; any
// cryptographic or structural failure yields common.ErrInvalidToken wrapping
// the cause.
func (v *IDTokenVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	payload, err := v.validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: no email claim", common.ErrInvalidToken)
	}

	verified, _ := payload.Claims["email_verified"].(bool)
	if !verified {
		return nil, common.ErrUnverifiedEmail
	}

	return &Identity{ProviderID: payload.Subject, Email: email}, nil
}
