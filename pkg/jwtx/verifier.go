package jwtx

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VerifyOptions captures common expectations used by verifiers.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Audience values the token must contain (claims.aud). Empty means "don't care".
	Audience []string

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Verifier validates JWTs signed with exactly one algorithm. Tokens whose
// header names any other algorithm are rejected before a key is looked up,
// which closes off "none" and HMAC-with-public-key confusion.
type Verifier struct {
	keys *KeySet
	alg  string
	opts VerifyOptions
}

// NewVerifier creates a verifier pinned to alg using keys from the KeySet.
func NewVerifier(keys *KeySet, alg string, opts VerifyOptions) *Verifier {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Verifier{keys: keys, alg: alg, opts: opts}
}

// Algorithm returns the pinned algorithm.
func (v *Verifier) Algorithm() string { return v.alg }

// Verify checks signature, issuer, audience, exp and nbf.
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	claims, err := v.VerifySignature(tokenStr)
	if err != nil {
		return nil, err
	}
	if err := claims.ValidateTime(v.opts.Now(), v.opts.Leeway); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifySignature checks signature, issuer and audience but deliberately
// ignores exp and nbf. Refresh uses it to read an expired access token.
func (v *Verifier) VerifySignature(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{v.alg}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, v.keyFunc)
	if err != nil {
		return nil, v.classify(token, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return nil, err
	}
	if err := claims.ValidateAudience(v.opts.Audience); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidClaim
	}
	return claims, nil
}

func (v *Verifier) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("%w: missing kid", ErrUnknownKID)
	}

	alg, key, err := v.keys.lookup(kid)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
	}
	if alg != "" && alg != v.alg {
		return nil, ErrAlgMismatch
	}
	if !keyMatchesAlg(v.alg, key) {
		return nil, ErrAlgMismatch
	}
	return key, nil
}

// classify folds jwt library errors into our sentinels.
func (v *Verifier) classify(token *jwt.Token, err error) error {
	switch {
	case errors.Is(err, ErrUnknownKID):
		return ErrUnknownKID
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if token != nil {
		if alg, _ := token.Header["alg"].(string); alg != v.alg {
			return ErrAlgMismatch
		}
	}
	return fmt.Errorf("%w: %v", ErrInvalidSig, err)
}

func keyMatchesAlg(alg string, key any) bool {
	switch alg {
	case AlgorithmHS256:
		_, ok := key.([]byte)
		return ok
	case AlgorithmRS256:
		_, ok := key.(*rsa.PublicKey)
		return ok
	case AlgorithmES256:
		_, ok := key.(*ecdsa.PublicKey)
		return ok
	case AlgorithmEdDSA:
		_, ok := key.(ed25519.PublicKey)
		return ok
	default:
		return false
	}
}
