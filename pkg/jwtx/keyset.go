package jwtx

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"math/big"
	"sync"
)

type keyEntry struct {
	alg string
	key any // []byte | *rsa.PublicKey | *ecdsa.PublicKey | ed25519.PublicKey
}

// KeySet holds verification keys by kid plus the public JWKS we publish.
// Symmetric keys are held for verification but never published.
type KeySet struct {
	mu   sync.RWMutex
	jwks JWKS
	keys map[string]keyEntry
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{
		jwks: JWKS{Keys: []JWK{}},
		keys: make(map[string]keyEntry),
	}
}

// AddSigner registers a signer's verification key, and its public JWK when
// it has one.
func (k *KeySet) AddSigner(s Signer) error {
	if s.KID() == "" {
		return errors.New("jwtx: signer has no kid")
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[s.KID()] = keyEntry{alg: s.Alg(), key: s.VerificationKey()}
	if j, ok := s.PublicJWK(); ok {
		k.jwks.Keys = append(k.jwks.Keys, j)
	}
	return nil
}

// AddJWK adds a published JWK to the KeySet.
func (k *KeySet) AddJWK(j JWK) error {
	key, err := parseJWKToKey(j)
	if err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[j.Kid] = keyEntry{alg: j.Alg, key: key}
	k.jwks.Keys = append(k.jwks.Keys, j)
	return nil
}

// Get returns the verification key for the given kid.
func (k *KeySet) Get(kid string) (any, error) {
	_, key, err := k.lookup(kid)
	return key, err
}

func (k *KeySet) lookup(kid string) (string, any, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if e, ok := k.keys[kid]; ok {
		return e.alg, e.key, nil
	}
	return "", nil, ErrNoKey
}

// PublicJWKS returns a snapshot of the published keys for HTTP serving.
func (k *KeySet) PublicJWKS() JWKS {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := JWKS{Keys: make([]JWK, len(k.jwks.Keys))}
	copy(out.Keys, k.jwks.Keys)
	return out
}

// IsReady returns true if the KeySet has at least one key loaded.
func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys) > 0
}

// ResetFromJWKS replaces all keys from a JWKS fetched from the session
// service. Resource servers use this to verify access tokens locally.
func (k *KeySet) ResetFromJWKS(jwks JWKS) error {
	keys := make(map[string]keyEntry, len(jwks.Keys))
	for _, j := range jwks.Keys {
		key, err := parseJWKToKey(j)
		if err != nil {
			return err
		}
		keys[j.Kid] = keyEntry{alg: j.Alg, key: key}
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys = keys
	k.jwks = JWKS{Keys: append([]JWK{}, jwks.Keys...)}
	return nil
}

// parseJWKToKey converts a JWK into a crypto.PublicKey.
func parseJWKToKey(j JWK) (any, error) {
	switch j.Kty {
	case "RSA":
		nb, err := base64.RawURLEncoding.DecodeString(j.N)
		if err != nil {
			return nil, err
		}
		eb, err := base64.RawURLEncoding.DecodeString(j.E)
		if err != nil {
			return nil, err
		}
		return &rsa.PublicKey{
			N: new(big.Int).SetBytes(nb),
			E: int(new(big.Int).SetBytes(eb).Int64()),
		}, nil

	case "OKP":
		if j.Crv != "Ed25519" {
			return nil, errors.New("jwtx: unsupported OKP curve " + j.Crv)
		}
		xb, err := base64.RawURLEncoding.DecodeString(j.X)
		if err != nil {
			return nil, err
		}
		if len(xb) != ed25519.PublicKeySize {
			return nil, errors.New("jwtx: invalid Ed25519 public key size")
		}
		return ed25519.PublicKey(xb), nil

	case "EC":
		if j.Crv != "P-256" {
			return nil, errors.New("jwtx: unsupported EC curve " + j.Crv)
		}
		xb, err := base64.RawURLEncoding.DecodeString(j.X)
		if err != nil {
			return nil, err
		}
		yb, err := base64.RawURLEncoding.DecodeString(j.Y)
		if err != nil {
			return nil, err
		}
		return &ecdsa.PublicKey{
			Curve: elliptic.P256(),
			X:     new(big.Int).SetBytes(xb),
			Y:     new(big.Int).SetBytes(yb),
		}, nil

	default:
		return nil, errors.New("jwtx: unsupported kty " + j.Kty)
	}
}
