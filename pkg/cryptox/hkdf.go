package cryptox

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// MinSecretLength is the shortest operator-supplied signing secret accepted.
const MinSecretLength = 32

// ErrSecretTooShort is returned when a configured secret is below MinSecretLength.
var ErrSecretTooShort = errors.New("cryptox: secret too short")

// DeriveKey expands an operator secret into a size-byte key with
// HKDF-SHA256. The info string binds the key to its purpose, so the same
// secret never yields the same key for two different uses.
func DeriveKey(secret []byte, info string, size int) ([]byte, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrSecretTooShort, MinSecretLength, len(secret))
	}
	if size <= 0 {
		return nil, fmt.Errorf("cryptox: derived key size must be positive, got %d", size)
	}

	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("cryptox: derive key: %w", err)
	}
	return key, nil
}
