package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Issuer   string   // Optional: iss claim (default: guildhall-auth)
	Audience []string // Optional: aud claim, comma separated (default: guildhall)

	Algorithm      string // Optional: JWT signing algorithm (HS256, RS256, ES256, EdDSA) (default: HS256)
	KeyID          string // Optional: kid header (default: random)
	SigningSecret  string // HS256 only: operator secret, HKDF-expanded into the signing key
	SigningKeyFile string // RS256/ES256/EdDSA only: path to a PEM private key
	RSABits        int    // Optional: RSA key size for ephemeral RS256 keys (default: 4096)

	AccessTTL         time.Duration // Optional: access token lifetime (default: 24h)
	RefreshTTL        time.Duration // Optional: refresh token lifetime (default: 168h)
	AllowEarlyRefresh bool          // Optional: allow refresh before the access token expires (default: false)
	RevokeOnReuse     bool          // Optional: revoke all sessions when a consumed refresh token is replayed (default: false)

	ServiceToken string // Required for platform routes: shared secret for /v1/sessions and /v1/users

	DatabaseDriver string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile   string // Optional: path to SQLite database file (default: ./auth.db)
	DatabaseURL    string // Required for postgres: connection string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired session purge interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         getEnvOrDefault("AUTH_ISSUER", "guildhall-auth"),
		Audience:       splitList(getEnvOrDefault("AUTH_AUDIENCE", "guildhall")),
		Algorithm:      getEnvOrDefault("AUTH_ALGORITHM", "HS256"),
		KeyID:          os.Getenv("AUTH_KEY_ID"),
		SigningSecret:  os.Getenv("AUTH_SIGNING_SECRET"),
		SigningKeyFile: os.Getenv("AUTH_SIGNING_KEY_FILE"),
		RSABits:        getEnvIntOrDefault("AUTH_RSA_BITS", 0),

		AccessTTL:         getEnvDurationOrDefault("AUTH_ACCESS_TTL", 24*time.Hour),
		RefreshTTL:        getEnvDurationOrDefault("AUTH_REFRESH_TTL", 7*24*time.Hour),
		AllowEarlyRefresh: getEnvBoolOrDefault("AUTH_ALLOW_EARLY_REFRESH", false),
		RevokeOnReuse:     getEnvBoolOrDefault("AUTH_REVOKE_ON_REUSE", false),

		ServiceToken: os.Getenv("AUTH_SERVICE_TOKEN"),

		DatabaseDriver: getEnvOrDefault("AUTH_DATABASE_DRIVER", "sqlite"),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		DatabaseURL:    os.Getenv("AUTH_DATABASE_URL"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

// Validate rejects lifetimes under which a session could never be
// refreshed: a refresh token must outlive the access token it pairs with.
func (c Config) Validate() error {
	var errs []error
	if c.AccessTTL <= 0 {
		errs = append(errs, fmt.Errorf("AUTH_ACCESS_TTL must be positive, got %s", c.AccessTTL))
	}
	if c.RefreshTTL <= 0 {
		errs = append(errs, fmt.Errorf("AUTH_REFRESH_TTL must be positive, got %s", c.RefreshTTL))
	}
	if c.AccessTTL > 0 && c.RefreshTTL > 0 && c.RefreshTTL <= c.AccessTTL {
		errs = append(errs, fmt.Errorf("AUTH_REFRESH_TTL (%s) must be longer than AUTH_ACCESS_TTL (%s)", c.RefreshTTL, c.AccessTTL))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
