package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/guildhall/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. Sub-repositories are exposed as methods so a
// Tx can hand out the same repos bound to the transaction, and so nobody
// accidentally opens a transaction inside a transaction.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens

	ApplyMigrations(ctx context.Context) error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users is the local mirror of platform identities.
type Users interface {
	// GetUserByID returns the identity for id or ErrNotFound.
	GetUserByID(ctx context.Context, id int64) (domain.UserIdentity, error)

	// UpsertUser inserts or replaces the identity, bumping updated_at.
	UpsertUser(ctx context.Context, u domain.UserIdentity) error
}

// RefreshTokens persists refresh records keyed by the fingerprint of their
// secret. Every mutation is a single statement.
type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the record whatever its state, or ErrNotFound.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// ConsumeRefreshToken flips consumed=1 only if the record is still
	// active at now, and reports whether it did.
	ConsumeRefreshToken(ctx context.Context, hash string, now time.Time) (bool, error)

	// RevokeRefreshToken flips revoked=1 only if the record is still
	// active at now, and reports whether it did.
	RevokeRefreshToken(ctx context.Context, hash string, now time.Time) (bool, error)

	// RevokeAllUserRefreshTokens revokes every record of userID still
	// active at now in one statement and returns how many changed.
	RevokeAllUserRefreshTokens(ctx context.Context, userID int64, now time.Time) (int64, error)

	// ListActiveRefreshTokens returns the user's active records, newest first.
	ListActiveRefreshTokens(ctx context.Context, userID int64, now time.Time) ([]domain.RefreshToken, error)

	// DeleteExpiredRefreshTokens hard-deletes records with expires_at < before.
	DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}
