package google

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/api/idtoken"

	"github.com/bgv-platform/auth-service/internal/common"
)

func newTestVerifier(payload *idtoken.Payload, err error) *IDTokenVerifier {
	v := NewIDTokenVerifier("client-id")
	v.validate = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		if audience != "client-id" {
			return nil, errors.New("unexpected audience")
		}
		return payload, err
	}
	return v
}

func TestVerify_Success(t *testing.T) {
	t.Parallel()

	v := newTestVerifier(&idtoken.Payload{
		Subject: "google-sub-1",
		Claims: map[string]interface{}{
			"email":          "a@x.com",
			"email_verified": true,
		},
	}, nil)

	id, err := v.Verify(context.Background(), "raw-token")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if id.ProviderID != "google-sub-1" || id.Email != "a@x.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerify_ValidationFailure(t *testing.T) {
	t.Parallel()

	v := newTestVerifier(nil, errors.New("signature mismatch"))

	_, err := v.Verify(context.Background(), "raw-token")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_UnverifiedEmail(t *testing.T) {
	t.Parallel()

	v := newTestVerifier(&idtoken.Payload{
		Subject: "google-sub-2",
		Claims: map[string]interface{}{
			"email":          "b@x.com",
			"email_verified": false,
		},
	}, nil)

	_, err := v.Verify(context.Background(), "raw-token")
	if !errors.Is(err, common.ErrUnverifiedEmail) {
		t.Fatalf("expected common.ErrUnverifiedEmail, got %v", err)
	}
}

func TestVerify_MissingEmailClaim(t *testing.T) {
	t.Parallel()

	v := newTestVerifier(&idtoken.Payload{
		Subject: "google-sub-3",
		Claims:  map[string]interface{}{"email_verified": true},
	}, nil)

	_, err := v.Verify(context.Background(), "raw-token")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}
