package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aussiebroadwan/guildhall/pkg/cryptox"
	"github.com/aussiebroadwan/guildhall/pkg/jwtx"
)

// hs256KeyInfo binds HKDF output to access token signing.
const hs256KeyInfo = "guildhall-auth/access-token/hs256"

// InitAuthKeys creates the KeyManager for the configured algorithm.
//
// Key material, in order of preference:
//   - HS256: AUTH_SIGNING_SECRET, expanded with HKDF-SHA256.
//   - RS256, ES256, EdDSA: the PEM private key in AUTH_SIGNING_KEY_FILE.
//   - Otherwise a key is generated in memory. Every token it signs becomes
//     unverifiable when the service restarts.
func InitAuthKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	opts := jwtx.KeyManagerOptions{
		Algorithm: cfg.Algorithm,
		KeyID:     cfg.KeyID,
		Issuer:    cfg.Issuer,
		Audience:  cfg.Audience,
		RSABits:   cfg.RSABits,
	}

	key, source, err := loadSigningKey(cfg)
	if err != nil {
		return nil, err
	}
	opts.Key = key

	keyManager, err := jwtx.NewKeyManager(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key manager: %w", err)
	}

	logger.Info("signing key loaded",
		"algorithm", keyManager.Algorithm(),
		"kid", keyManager.Signer.KID(),
		"source", source,
		"issuer", cfg.Issuer,
	)
	if keyManager.IsEphemeral() {
		logger.Warn("no signing key configured, using an ephemeral key; all sessions become invalid on restart")
	}

	return keyManager, nil
}

func loadSigningKey(cfg Config) ([]byte, string, error) {
	switch cfg.Algorithm {
	case jwtx.AlgorithmHS256:
		if cfg.SigningSecret == "" {
			return nil, "ephemeral", nil
		}
		key, err := cryptox.DeriveKey([]byte(cfg.SigningSecret), hs256KeyInfo, jwtx.MinHMACKeySize)
		if err != nil {
			return nil, "", fmt.Errorf("AUTH_SIGNING_SECRET: %w", err)
		}
		return key, "secret", nil

	case jwtx.AlgorithmRS256, jwtx.AlgorithmES256, jwtx.AlgorithmEdDSA:
		if cfg.SigningKeyFile == "" {
			return nil, "ephemeral", nil
		}
		pemBytes, err := os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, "", fmt.Errorf("read signing key: %w", err)
		}
		return pemBytes, "file", nil

	default:
		return nil, "", fmt.Errorf("unsupported AUTH_ALGORITHM %q (supported: HS256, RS256, ES256, EdDSA)", cfg.Algorithm)
	}
}
