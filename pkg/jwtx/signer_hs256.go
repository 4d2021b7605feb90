package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinHMACKeySize is the shortest HS256 key we accept (RFC 7518 §3.2).
const MinHMACKeySize = 32

// HS256Signer implements the Signer interface using HMAC SHA-256.
type HS256Signer struct {
	kid string
	key []byte
}

func newHS256Signer(kid string, key []byte) (*HS256Signer, error) {
	if len(key) < MinHMACKeySize {
		return nil, fmt.Errorf("jwtx: HS256 key must be at least %d bytes, got %d", MinHMACKeySize, len(key))
	}
	return &HS256Signer{kid: kid, key: append([]byte(nil), key...)}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }
func (s *HS256Signer) KID() string { return s.kid }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

func (s *HS256Signer) VerificationKey() any { return s.key }

// PublicJWK is never available for a shared secret.
func (s *HS256Signer) PublicJWK() (JWK, bool) { return JWK{}, false }

func (s *HS256Signer) Validate() error {
	if len(s.key) < MinHMACKeySize {
		return errors.New("jwtx: invalid HS256 key")
	}
	return nil
}
