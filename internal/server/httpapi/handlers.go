// Package httpapi exposes the authentication service over HTTP JSON.
// Every endpoint answers with the {ok, data|error} envelope; service errors
// are translated to status codes in one place (writeDomainError).
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/bgv-platform/auth-service/internal/common"
	"github.com/bgv-platform/auth-service/internal/logging"
	"github.com/bgv-platform/auth-service/internal/server/services"
)

const minPasswordLength = 8

// Authenticator is the slice of AuthService the handlers depend on.
type Authenticator interface {
	Register(ctx context.Context, email, password string) (*services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) error
}

// PasswordResetFlow is the slice of PasswordResetService the handlers depend on.
type PasswordResetFlow interface {
	RequestReset(ctx context.Context, email string) error
	CompleteReset(ctx context.Context, token, newPassword string) error
}

// Handler holds the HTTP endpoint implementations.
type Handler struct {
	logger logging.Logger
	auth   Authenticator
	reset  PasswordResetFlow
}

func NewHandler(logger logging.Logger, auth Authenticator, reset PasswordResetFlow) *Handler {
	return &Handler{
		logger: logger.With("module", "httpapi"),
		auth:   auth,
		reset:  reset,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleRequest struct {
	IDToken string `json:"id_token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", common.ErrValidation)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: malformed email", common.ErrValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}
	return nil
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := validateEmail(req.Email); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := validatePassword(req.Password); err != nil {
		writeDomainError(w, err)
		return
	}

	pair, err := h.auth.Register(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Warn(ctx, "registration failed", "error", err)
		writeDomainError(w, err)
		return
	}

	h.logger.Info(ctx, "user registered", "email", req.Email)
	writeData(w, http.StatusCreated, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeDomainError(w, fmt.Errorf("%w: email and password are required", common.ErrValidation))
		return
	}

	pair, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Warn(ctx, "login failed", "error", err)
		writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// LoginWithGoogle handles POST /auth/google.
func (h *Handler) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req googleRequest
	if err := decode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if req.IDToken == "" {
		writeDomainError(w, fmt.Errorf("%w: id_token is required", common.ErrValidation))
		return
	}

	pair, err := h.auth.LoginWithGoogle(ctx, req.IDToken)
	if err != nil {
		h.logger.Warn(ctx, "google login failed", "error", err)
		writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh handles POST /auth/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshRequest
	if err := decode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if req.RefreshToken == "" {
		writeDomainError(w, fmt.Errorf("%w: refresh_token is required", common.ErrValidation))
		return
	}

	pair, err := h.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.logger.Warn(ctx, "refresh failed", "error", err)
		writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// ForgotPassword handles POST /auth/forgot-password. The response is the same
// generic success whether or not the email belongs to an account.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req forgotPasswordRequest
	if err := decode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := validateEmail(req.Email); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.reset.RequestReset(ctx, req.Email); err != nil {
		h.logger.Error(ctx, "reset request failed", "error", err)
		writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, messageResponse{
		Message: "if the email is registered, a reset link has been sent",
	})
}

// ResetPassword handles POST /auth/reset-password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resetPasswordRequest
	if err := decode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if req.Token == "" {
		writeDomainError(w, fmt.Errorf("%w: token is required", common.ErrValidation))
		return
	}
	if err := validatePassword(req.NewPassword); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.reset.CompleteReset(ctx, req.Token, req.NewPassword); err != nil {
		h.logger.Warn(ctx, "reset completion failed", "error", err)
		writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, messageResponse{Message: "password updated"})
}

// Logout handles POST /auth/logout. Unknown tokens still get the generic
// success, so the endpoint reveals nothing about which values are live.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshRequest
	if err := decode(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.auth.Logout(ctx, req.RefreshToken); err != nil {
		h.logger.Error(ctx, "logout failed", "error", err)
		writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, messageResponse{Message: "logged out"})
}

// LogoutAll handles POST /auth/logout-all. It is the one endpoint that
// requires an authenticated caller.
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := IdentityFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
		return
	}

	if err := h.auth.LogoutAll(ctx, claims.Subject); err != nil {
		h.logger.Error(ctx, "logout-all failed", "error", err, "user_id", claims.Subject)
		writeDomainError(w, err)
		return
	}

	h.logger.Info(ctx, "all sessions revoked", "user_id", claims.Subject)
	writeData(w, http.StatusOK, messageResponse{Message: "all sessions revoked"})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
