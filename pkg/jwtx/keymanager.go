package jwtx

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/guildhall/pkg/cryptox"
)

// DefaultRSABits is used when generating ephemeral RS256 keys.
const DefaultRSABits = 4096

// KeyManager wires one signer, its KeySet and a Verifier pinned to the
// signer's algorithm.
type KeyManager struct {
	Signer   Signer
	Verifier *Verifier
	KeySet   *KeySet

	algorithm string
	ephemeral bool
}

// KeyManagerOptions configures the KeyManager.
type KeyManagerOptions struct {
	// Algorithm is one of HS256, RS256, ES256, EdDSA.
	Algorithm string

	// KeyID is published as the "kid" header. Generated when empty.
	KeyID string

	// Key is the signing material: raw bytes for HS256, PEM otherwise.
	// Empty means generate an ephemeral key.
	Key []byte

	Issuer   string
	Audience []string
	Leeway   time.Duration

	// RSABits is only used when generating ephemeral RS256 keys.
	RSABits int

	// Now overrides the verifier clock.
	Now func() time.Time
}

// NewKeyManager builds a KeyManager from configured key material, or from
// a freshly generated key when none is configured.
func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if len(opts.Key) == 0 {
		return NewEphemeralKeyManager(opts)
	}
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	kid := opts.KeyID
	if kid == "" {
		var err error
		if kid, err = generateRandomKeyID(); err != nil {
			return nil, err
		}
	}

	signer, err := NewSigner(opts.Algorithm, kid, opts.Key)
	if err != nil {
		return nil, err
	}
	return newKeyManager(signer, opts, false)
}

// NewEphemeralKeyManager creates a KeyManager with a key that only exists
// in memory. Every token it issued becomes unverifiable on restart.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	kid := opts.KeyID
	if kid == "" {
		var err error
		if kid, err = generateRandomKeyID(); err != nil {
			return nil, err
		}
	}

	signer, err := generateSigner(opts.Algorithm, kid, opts.RSABits)
	if err != nil {
		return nil, err
	}
	return newKeyManager(signer, opts, true)
}

func newKeyManager(signer Signer, opts KeyManagerOptions, ephemeral bool) (*KeyManager, error) {
	if err := signer.Validate(); err != nil {
		return nil, err
	}

	keyset := NewKeySet()
	if err := keyset.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("jwtx: failed to add signer to keyset: %w", err)
	}

	verifier := NewVerifier(keyset, signer.Alg(), VerifyOptions{
		Issuer:   opts.Issuer,
		Audience: opts.Audience,
		Leeway:   opts.Leeway,
		Now:      opts.Now,
	})

	return &KeyManager{
		Signer:    signer,
		Verifier:  verifier,
		KeySet:    keyset,
		algorithm: signer.Alg(),
		ephemeral: ephemeral,
	}, nil
}

// generateSigner creates a signer with a brand new key.
func generateSigner(algorithm, keyID string, rsaBits int) (Signer, error) {
	switch algorithm {
	case AlgorithmHS256:
		key, err := cryptox.GenerateHMACKey(MinHMACKeySize)
		if err != nil {
			return nil, fmt.Errorf("failed to generate HS256 key: %w", err)
		}
		return NewSignerHS256(keyID, key)

	case AlgorithmRS256:
		if rsaBits == 0 {
			rsaBits = DefaultRSABits
		}
		pemBytes, err := cryptox.GenerateRSAKey(rsaBits)
		if err != nil {
			return nil, fmt.Errorf("failed to generate RS256 key: %w", err)
		}
		return NewSignerRS256(keyID, pemBytes)

	case AlgorithmES256:
		pemBytes, err := cryptox.GenerateES256Key()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ES256 key: %w", err)
		}
		return NewSignerES256(keyID, pemBytes)

	case AlgorithmEdDSA:
		pemBytes, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("failed to generate EdDSA key: %w", err)
		}
		return NewSignerEdDSA(keyID, pemBytes)

	default:
		return nil, unsupportedAlgorithm(algorithm)
	}
}

func unsupportedAlgorithm(algorithm string) error {
	return fmt.Errorf("jwtx: unsupported algorithm %q (supported: HS256, RS256, ES256, EdDSA)", algorithm)
}

// Algorithm returns the signing algorithm being used.
func (km *KeyManager) Algorithm() string { return km.algorithm }

// IsEphemeral reports whether the signing key was generated at startup.
func (km *KeyManager) IsEphemeral() bool { return km.ephemeral }

// IsReady returns true if the KeyManager has valid keys loaded.
func (km *KeyManager) IsReady() bool {
	return km.Signer != nil && km.KeySet.IsReady()
}

// generateRandomKeyID returns "guildhall-{128-bit token}".
func generateRandomKeyID() (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("jwtx: failed to generate key ID: %w", err)
	}
	return "guildhall-" + token, nil
}
