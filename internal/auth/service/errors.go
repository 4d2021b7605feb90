package service

import "errors"

// Refresh failure reasons. Callers collapse all of them into "log in
// again"; the distinction is kept for logs and monitoring.
var (
	ErrInvalidSignature  = errors.New("invalid_signature")
	ErrAccessTokenActive = errors.New("access_token_still_valid")
	ErrNotFound          = errors.New("refresh_token_not_found")
	ErrExpired           = errors.New("refresh_token_expired")
	ErrAlreadyUsed       = errors.New("refresh_token_already_used")
	ErrRevoked           = errors.New("refresh_token_revoked")
	ErrMismatch          = errors.New("refresh_token_mismatch")
	ErrUserInactive      = errors.New("user_inactive")
)

// ErrInvalidUser rejects identities that cannot own a session.
var ErrInvalidUser = errors.New("invalid_user")

// IsSessionInvalid reports whether err means the presented session is
// unusable, as opposed to the service being unable to decide.
func IsSessionInvalid(err error) bool {
	for _, target := range []error{
		ErrInvalidSignature,
		ErrAccessTokenActive,
		ErrNotFound,
		ErrExpired,
		ErrAlreadyUsed,
		ErrRevoked,
		ErrMismatch,
		ErrUserInactive,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// reason is the log-safe name of a refresh failure.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrAccessTokenActive):
		return "access_token_active"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrAlreadyUsed):
		return "already_used"
	case errors.Is(err, ErrRevoked):
		return "revoked"
	case errors.Is(err, ErrMismatch):
		return "mismatch"
	case errors.Is(err, ErrUserInactive):
		return "user_inactive"
	default:
		return "internal"
	}
}
