package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bgv-platform/auth-service/internal/common"
)

// response is the envelope every endpoint answers with: {ok, data|error}.
type response struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// tokenPairResponse carries a freshly issued token pair.
type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// messageResponse is the generic success body for endpoints that return no data.
type messageResponse struct {
	Message string `json:"message"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response{OK: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response{OK: false, Error: msg})
}

// writeDomainError maps a service error to the transport status code.
// Authentication-kind errors map to 401, conflict/shape errors to 400, and
// everything else to a generic 500 that leaks no internal detail.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrAccountBlocked),
		errors.Is(err, common.ErrProviderMismatch),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenUsed),
		errors.Is(err, common.ErrUnverifiedEmail),
		errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, common.ErrEmailTaken),
		errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
	}
}
