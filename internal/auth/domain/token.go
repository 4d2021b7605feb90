package domain

import (
	"time"

	"github.com/aussiebroadwan/guildhall/pkg/idx"
)

// AccessToken is a signed bearer credential. It is never persisted.
type AccessToken struct {
	Token     string
	JTI       string
	SubjectID int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshTokenState is the lifecycle position of a refresh record.
type RefreshTokenState string

const (
	RefreshTokenActive   RefreshTokenState = "active"
	RefreshTokenConsumed RefreshTokenState = "consumed"
	RefreshTokenRevoked  RefreshTokenState = "revoked"
	RefreshTokenExpired  RefreshTokenState = "expired"
)

// RefreshToken models the stored refresh token record in the DB. The raw
// secret is never stored, only its fingerprint.
type RefreshToken struct {
	ID        idx.ID
	TokenHash string // base64url SHA-256 of the secret
	JTI       string // jti of the access token issued alongside
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
	Consumed  bool
	Revoked   bool
	UpdatedAt time.Time
}

// ExpiredAt reports whether the record is past its expiry at now.
func (t RefreshToken) ExpiredAt(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// State resolves the lifecycle state at now. Expiry wins over the flags.
func (t RefreshToken) State(now time.Time) RefreshTokenState {
	switch {
	case t.ExpiredAt(now):
		return RefreshTokenExpired
	case t.Consumed:
		return RefreshTokenConsumed
	case t.Revoked:
		return RefreshTokenRevoked
	default:
		return RefreshTokenActive
	}
}

// SessionPair is what callers get back from issuing or refreshing a session.
type SessionPair struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time

	// RefreshExpiresAt is informational; the record is the source of truth.
	RefreshExpiresAt time.Time
}
