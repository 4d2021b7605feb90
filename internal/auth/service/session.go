package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/guildhall/internal/auth/domain"
	"github.com/aussiebroadwan/guildhall/internal/auth/store"
	"github.com/aussiebroadwan/guildhall/pkg/cryptox"
	"github.com/aussiebroadwan/guildhall/pkg/idx"
	"github.com/aussiebroadwan/guildhall/pkg/slogx"
)

// SessionConfig holds the refresh lifetime and policy switches of the
// session lifecycle. The access lifetime belongs to the Issuer. It is
// resolved once at startup.
type SessionConfig struct {
	RefreshTTL time.Duration

	// AllowEarlyRefresh lets a client rotate while its access token is
	// still valid. Off by default.
	AllowEarlyRefresh bool

	// RevokeOnReuse revokes every session of the owner when a consumed
	// refresh token is presented again.
	RevokeOnReuse bool
}

// SessionService issues, rotates, revokes and purges sessions. A session
// is an access token paired with a single-use refresh token.
type SessionService struct {
	Store  store.Store
	Issuer *AccessTokenIssuer
	Config SessionConfig

	// Clock defaults to time.Now.
	Clock func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// IssueSession starts a new session for user. The identity is mirrored
// locally in the same transaction that stores the refresh record, under
// the same rule as SyncIdentity: a changed role revokes the user's other
// sessions first.
func (s *SessionService) IssueSession(ctx context.Context, user domain.UserIdentity) (*domain.SessionPair, error) {
	if user.ID <= 0 {
		return nil, ErrInvalidUser
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	now := s.now()
	l := slogx.FromContext(ctx)

	var (
		pair   *domain.SessionPair
		record domain.RefreshToken
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := mirrorIdentity(ctx, tx, user, now); err != nil {
			return fmt.Errorf("mirror identity: %w", err)
		}

		var err error
		pair, record, err = s.issue(ctx, tx, user, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.Info("session issued",
		slog.Int64("user_id", user.ID),
		slog.String("refresh_id", record.ID.String()),
	)
	return pair, nil
}

// issue signs an access token and stores its paired refresh record.
func (s *SessionService) issue(ctx context.Context, tx store.Tx, user domain.UserIdentity, now time.Time) (*domain.SessionPair, domain.RefreshToken, error) {
	access, err := s.Issuer.Issue(BuildClaims(user), now)
	if err != nil {
		return nil, domain.RefreshToken{}, err
	}

	secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, domain.RefreshToken{}, fmt.Errorf("generate refresh secret: %w", err)
	}

	record := domain.RefreshToken{
		ID:        idx.NewAt(now),
		TokenHash: cryptox.FingerprintToken(secret),
		JTI:       access.JTI,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.Config.RefreshTTL),
		UpdatedAt: now,
	}
	if err := tx.RefreshTokens().CreateRefreshToken(ctx, record); err != nil {
		return nil, domain.RefreshToken{}, fmt.Errorf("store refresh token: %w", err)
	}

	return &domain.SessionPair{
		AccessToken:      access.Token,
		RefreshToken:     secret,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: record.ExpiresAt,
	}, record, nil
}

// RefreshSession rotates a session. The presented refresh token is
// consumed and a new pair is returned. Every failure leaves the store
// unchanged, and the caller should treat any of them as "log in again".
func (s *SessionService) RefreshSession(ctx context.Context, accessToken, refreshSecret string) (*domain.SessionPair, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	accessToken = strings.TrimSpace(accessToken)
	refreshSecret = strings.TrimSpace(refreshSecret)

	claims, err := s.Issuer.VerifySignature(accessToken)
	if err != nil {
		l.Info("session refresh rejected", slog.String("reason", reason(ErrInvalidSignature)), slog.Any("error", err))
		return nil, ErrInvalidSignature
	}
	subjectID, err := SubjectID(claims)
	if err != nil {
		l.Info("session refresh rejected", slog.String("reason", reason(ErrInvalidSignature)), slog.Any("error", err))
		return nil, ErrInvalidSignature
	}

	if !s.Config.AllowEarlyRefresh && !claims.ExpiredAt(now) {
		l.Info("session refresh rejected",
			slog.String("reason", reason(ErrAccessTokenActive)),
			slog.Int64("user_id", subjectID),
		)
		return nil, ErrAccessTokenActive
	}

	if refreshSecret == "" {
		return nil, ErrNotFound
	}
	hash := cryptox.FingerprintToken(refreshSecret)

	var (
		pair     *domain.SessionPair
		previous domain.RefreshToken
		next     domain.RefreshToken
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		record, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load refresh token: %w", err)
		}
		previous = record

		if err := checkRefreshable(record, claims.ID, subjectID, now); err != nil {
			return err
		}

		user, err := tx.Users().GetUserByID(ctx, record.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserInactive
			}
			return fmt.Errorf("load user: %w", err)
		}
		if !user.IsActive {
			return ErrUserInactive
		}

		ok, err := tx.RefreshTokens().ConsumeRefreshToken(ctx, hash, now)
		if err != nil {
			return fmt.Errorf("consume refresh token: %w", err)
		}
		if !ok {
			// Lost a race; report what the winner left behind.
			current, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrNotFound
				}
				return fmt.Errorf("reload refresh token: %w", err)
			}
			if err := checkRefreshable(current, claims.ID, subjectID, now); err != nil {
				return err
			}
			return ErrAlreadyUsed
		}

		pair, next, err = s.issue(ctx, tx, user, now)
		return err
	})
	if err != nil {
		if !IsSessionInvalid(err) {
			return nil, err
		}
		s.rejected(ctx, err, previous, subjectID)
		return nil, err
	}

	l.Info("session refreshed",
		slog.Int64("user_id", next.UserID),
		slog.String("consumed_id", previous.ID.String()),
		slog.String("refresh_id", next.ID.String()),
	)
	return pair, nil
}

// checkRefreshable validates a stored record against the presented access
// token. The order of checks decides which reason a caller sees.
func checkRefreshable(record domain.RefreshToken, jti string, subjectID int64, now time.Time) error {
	switch record.State(now) {
	case domain.RefreshTokenExpired:
		return ErrExpired
	case domain.RefreshTokenConsumed:
		return ErrAlreadyUsed
	case domain.RefreshTokenRevoked:
		return ErrRevoked
	}
	if record.JTI != jti || record.UserID != subjectID {
		return ErrMismatch
	}
	return nil
}

// rejected logs a refresh failure and applies the reuse policy.
func (s *SessionService) rejected(ctx context.Context, err error, record domain.RefreshToken, subjectID int64) {
	l := slogx.FromContext(ctx)
	attrs := []any{
		slog.String("reason", reason(err)),
		slog.Int64("user_id", subjectID),
	}
	if !record.ID.IsZero() {
		attrs = append(attrs, slog.String("refresh_id", record.ID.String()))
	}

	switch {
	case errors.Is(err, ErrAlreadyUsed), errors.Is(err, ErrMismatch):
		l.Warn("refresh token replay or mismatch", attrs...)
	default:
		l.Info("session refresh rejected", attrs...)
	}

	if !s.Config.RevokeOnReuse || !errors.Is(err, ErrAlreadyUsed) || record.UserID == 0 {
		return
	}
	n, rerr := s.RevokeAllSessions(ctx, record.UserID)
	if rerr != nil {
		l.Error("failed to revoke sessions after reuse", slog.Int64("user_id", record.UserID), slog.Any("error", rerr))
		return
	}
	l.Warn("revoked all sessions after reuse", slog.Int64("user_id", record.UserID), slog.Int64("revoked", n))
}

// RevokeSession revokes the refresh token with the given secret. It
// reports whether an active record was revoked; unknown or already
// terminal tokens return false without error.
func (s *SessionService) RevokeSession(ctx context.Context, refreshSecret string) (bool, error) {
	refreshSecret = strings.TrimSpace(refreshSecret)
	if refreshSecret == "" {
		return false, nil
	}

	ok, err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, cryptox.FingerprintToken(refreshSecret), s.now())
	if err != nil {
		return false, fmt.Errorf("revoke refresh token: %w", err)
	}
	if ok {
		slogx.FromContext(ctx).Info("session revoked")
	}
	return ok, nil
}

// RevokeAllSessions revokes every active refresh token of userID and
// returns how many were revoked.
func (s *SessionService) RevokeAllSessions(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, ErrInvalidUser
	}

	n, err := s.Store.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	slogx.FromContext(ctx).Warn("all sessions revoked", slog.Int64("user_id", userID), slog.Int64("revoked", n))
	return n, nil
}

// PurgeExpired hard-deletes refresh records that expired before now and
// returns how many were deleted. Records that are merely consumed or
// revoked stay until they expire.
func (s *SessionService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("purge expired refresh tokens: %w", err)
	}
	return n, nil
}

// ActiveSessions counts the user's active refresh tokens.
func (s *SessionService) ActiveSessions(ctx context.Context, userID int64) (int, error) {
	tokens, err := s.Store.RefreshTokens().ListActiveRefreshTokens(ctx, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("list active refresh tokens: %w", err)
	}
	return len(tokens), nil
}
