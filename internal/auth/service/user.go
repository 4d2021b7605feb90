package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/guildhall/internal/auth/domain"
	"github.com/aussiebroadwan/guildhall/internal/auth/store"
	"github.com/aussiebroadwan/guildhall/pkg/slogx"
)

// UserService keeps the local identity mirror in step with the platform.
type UserService struct {
	Store store.Store
	Clock func() time.Time
}

// Lookup fetches the mirrored identity for userID.
func (s *UserService) Lookup(ctx context.Context, userID int64) (domain.UserIdentity, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// SyncIdentity stores the latest identity. A role change or a
// deactivation revokes every active session of the user in the same
// transaction, so stale claims cannot be refreshed. It returns the number
// of sessions revoked.
func (s *UserService) SyncIdentity(ctx context.Context, u domain.UserIdentity) (int64, error) {
	if u.ID <= 0 {
		return 0, ErrInvalidUser
	}

	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock().UTC()
	}

	var revoked int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		revoked, err = mirrorIdentity(ctx, tx, u, now)
		return err
	})
	if err != nil {
		return 0, err
	}
	return revoked, nil
}

// mirrorIdentity upserts u inside tx. If an already mirrored identity
// changes role or is deactivated, every active session of the user is
// revoked in the same transaction.
func mirrorIdentity(ctx context.Context, tx store.Tx, u domain.UserIdentity, now time.Time) (int64, error) {
	u.UpdatedAt = now

	prev, err := tx.Users().GetUserByID(ctx, u.ID)
	known := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return 0, fmt.Errorf("load user: %w", err)
	}

	if err := tx.Users().UpsertUser(ctx, u); err != nil {
		return 0, fmt.Errorf("upsert user: %w", err)
	}

	if !known || (prev.Role == u.Role && (u.IsActive || !prev.IsActive)) {
		return 0, nil
	}

	revoked, err := tx.RefreshTokens().RevokeAllUserRefreshTokens(ctx, u.ID, now)
	if err != nil {
		return 0, fmt.Errorf("revoke refresh tokens: %w", err)
	}
	if revoked > 0 {
		slogx.FromContext(ctx).Warn("sessions revoked after identity change",
			slog.Int64("user_id", u.ID),
			slog.String("role", u.Role),
			slog.Bool("active", u.IsActive),
			slog.Int64("revoked", revoked),
		)
	}
	return revoked, nil
}
