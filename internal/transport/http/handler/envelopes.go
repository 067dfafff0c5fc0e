package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mealhub/api/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Client-facing failures
// carry a message only — never internal error detail.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
}

// SignupEnvelope wraps a successful registration.
type SignupEnvelope struct {
	ID string `json:"id"`
}

// TokenEnvelope wraps a successful login.
type TokenEnvelope struct {
	Token string `json:"token"`
}

// ProfileEnvelope is the client-facing view of a user record. The password
// hash has no field here on purpose.
type ProfileEnvelope struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Sex       string `json:"sex"`
	BirthYear int    `json:"birthYear"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Message: msg})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Anything
// unrecognized becomes a bare 500 so infrastructure detail never reaches
// the client.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, domain.ErrDuplicateEmail.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, domain.ErrStoreUnavailable.Error())
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
