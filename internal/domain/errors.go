package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	// ErrNotFound means the record the identity points at no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a create or email change collides
	// with an existing account.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers must surface one identical message for either case so the
	// endpoint cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthenticated means no bearer credential was presented.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidToken means the presented token is malformed or its
	// signature does not verify.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired means the token verified but its validity window passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrValidation marks a rejected profile field.
	ErrValidation = errors.New("validation failed")

	// ErrStoreUnavailable marks a transient store failure (timeout,
	// connectivity). Safe to retry once with backoff.
	ErrStoreUnavailable = errors.New("store unavailable")
)
