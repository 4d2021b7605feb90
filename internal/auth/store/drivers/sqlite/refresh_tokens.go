package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/guildhall/internal/auth/domain"
	"github.com/aussiebroadwan/guildhall/internal/dbx"
	"github.com/aussiebroadwan/guildhall/pkg/idx"
)

const refreshTokenColumns = `id, token_hash, jti, user_id, created_at, expires_at, consumed, revoked, updated_at`

type refreshTokensRepo struct {
	db dbx.DBTX
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRefreshToken(row scanner) (domain.RefreshToken, error) {
	var (
		t                         domain.RefreshToken
		id                        string
		created, expires, updated int64
	)
	if err := row.Scan(&id, &t.TokenHash, &t.JTI, &t.UserID, &created, &expires, &t.Consumed, &t.Revoked, &updated); err != nil {
		return domain.RefreshToken{}, err
	}
	t.ID = idx.ID(id)
	t.CreatedAt = fromMillis(created)
	t.ExpiresAt = fromMillis(expires)
	t.UpdatedAt = fromMillis(updated)
	return t, nil
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	const q = `
		INSERT INTO refresh_tokens (` + refreshTokenColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		t.ID.String(), t.TokenHash, t.JTI, t.UserID,
		toMillis(t.CreatedAt), toMillis(t.ExpiresAt),
		t.Consumed, t.Revoked, toMillis(t.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	const q = `SELECT ` + refreshTokenColumns + ` FROM refresh_tokens WHERE token_hash = ?`

	t, err := scanRefreshToken(r.db.QueryRowContext(ctx, q, hash))
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *refreshTokensRepo) ConsumeRefreshToken(ctx context.Context, hash string, now time.Time) (bool, error) {
	const q = `
		UPDATE refresh_tokens
		SET consumed = 1, updated_at = ?
		WHERE token_hash = ? AND consumed = 0 AND revoked = 0 AND expires_at >= ?`

	n, err := dbx.Affected(r.db.ExecContext(ctx, q, toMillis(now), hash, toMillis(now)))
	return n == 1, err
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string, now time.Time) (bool, error) {
	const q = `
		UPDATE refresh_tokens
		SET revoked = 1, updated_at = ?
		WHERE token_hash = ? AND consumed = 0 AND revoked = 0 AND expires_at >= ?`

	n, err := dbx.Affected(r.db.ExecContext(ctx, q, toMillis(now), hash, toMillis(now)))
	return n == 1, err
}

func (r *refreshTokensRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID int64, now time.Time) (int64, error) {
	const q = `
		UPDATE refresh_tokens
		SET revoked = 1, updated_at = ?
		WHERE user_id = ? AND consumed = 0 AND revoked = 0 AND expires_at >= ?`

	return dbx.Affected(r.db.ExecContext(ctx, q, toMillis(now), userID, toMillis(now)))
}

func (r *refreshTokensRepo) ListActiveRefreshTokens(ctx context.Context, userID int64, now time.Time) ([]domain.RefreshToken, error) {
	const q = `
		SELECT ` + refreshTokenColumns + `
		FROM refresh_tokens
		WHERE user_id = ? AND consumed = 0 AND revoked = 0 AND expires_at >= ?
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, q, userID, toMillis(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RefreshToken
	for rows.Next() {
		t, err := scanRefreshToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan refresh token: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	return dbx.Affected(r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at < ?`, toMillis(before)))
}
