package sessionsdk

import (
	"time"

	"github.com/aussiebroadwan/guildhall/pkg/jwtx"
)

// ErrorResponse is the wire form of an error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// SessionResponse is returned when a session is opened or refreshed.
type SessionResponse struct {
	// AccessToken is the signed JWT to send as a bearer token.
	AccessToken string `json:"access_token"`

	// RefreshToken is the opaque single-use secret. Keep it private.
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`

	// RefreshExpiresIn is the refresh token lifetime in seconds.
	RefreshExpiresIn int `json:"refresh_expires_in"`
}

// IssueSessionRequest opens a session for a user known to the platform.
type IssueSessionRequest struct {
	UserID int64 `json:"user_id"`
}

// RevokeAllResponse reports how many sessions a bulk revoke touched.
type RevokeAllResponse struct {
	UserID  int64 `json:"user_id"`
	Revoked int64 `json:"revoked"`
}

// PurgeResponse reports how many expired refresh records were deleted.
type PurgeResponse struct {
	Deleted int64     `json:"deleted"`
	Before  time.Time `json:"before"`
}

// Identity is the platform's view of a user, pushed to the session
// service whenever it changes.
type Identity struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	Level           int    `json:"level"`
	XP              int64  `json:"xp"`
	IsActive        bool   `json:"is_active"`
	IsEmailVerified bool   `json:"is_email_verified"`
}

// SyncIdentityResponse reports the sessions revoked by an identity change.
type SyncIdentityResponse struct {
	UserID  int64 `json:"user_id"`
	Revoked int64 `json:"revoked"`
}

// MeResponse echoes the verified claims of the caller's access token.
type MeResponse struct {
	UserID         int64     `json:"user_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	EmailVerified  bool      `json:"email_verified"`
	Role           string    `json:"role"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	Level          int       `json:"level"`
	XP             int64     `json:"xp"`
	ExpiresAt      time.Time `json:"expires_at"`
	ActiveSessions int       `json:"active_sessions"`
}

// JWKSResponse is the public key set for verifying access tokens.
type JWKSResponse = jwtx.JWKS

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks details the readiness of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
