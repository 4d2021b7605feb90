package postgres

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
		t  domain.RefreshToken
		id string
	)
	if err := row.Scan(&id, &t.TokenHash, &t.JTI, &t.UserID, &t.CreatedAt, &t.ExpiresAt, &t.Consumed, &t.Revoked, &t.UpdatedAt); err != nil {
		return domain.RefreshToken{}, err
	}
	t.ID = idx.ID(id)
	t.CreatedAt = t.CreatedAt.UTC()
	t.ExpiresAt = t.ExpiresAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	const q = `
		INSERT INTO refresh_tokens (` + refreshTokenColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, q,
		t.ID.String(), t.TokenHash, t.JTI, t.UserID,
		t.CreatedAt, t.ExpiresAt, t.Consumed, t.Revoked, t.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	const q = `SELECT ` + refreshTokenColumns + ` FROM refresh_tokens WHERE token_hash = $1`

	t, err := scanRefreshToken(r.db.QueryRowContext(ctx, q, hash))
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

// ConsumeRefreshToken relies on the row lock the UPDATE takes: a second
// transaction racing on the same row re-evaluates the WHERE after the
// first commits and matches nothing.
func (r *refreshTokensRepo) ConsumeRefreshToken(ctx context.Context, hash string, now time.Time) (bool, error) {
	const q = `
		UPDATE refresh_tokens
		SET consumed = TRUE, updated_at = $1
		WHERE token_hash = $2 AND NOT consumed AND NOT revoked AND expires_at >= $1`

	n, err := dbx.Affected(r.db.ExecContext(ctx, q, now, hash))
	return n == 1, err
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string, now time.Time) (bool, error) {
	const q = `
		UPDATE refresh_tokens
		SET revoked = TRUE, updated_at = $1
		WHERE token_hash = $2 AND NOT consumed AND NOT revoked AND expires_at >= $1`

	n, err := dbx.Affected(r.db.ExecContext(ctx, q, now, hash))
	return n == 1, err
}

func (r *refreshTokensRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID int64, now time.Time) (int64, error) {
	const q = `
		UPDATE refresh_tokens
		SET revoked = TRUE, updated_at = $1
		WHERE user_id = $2 AND NOT consumed AND NOT revoked AND expires_at >= $1`

	return dbx.Affected(r.db.ExecContext(ctx, q, now, userID))
}

func (r *refreshTokensRepo) ListActiveRefreshTokens(ctx context.Context, userID int64, now time.Time) ([]domain.RefreshToken, error) {
	const q = `
		SELECT ` + refreshTokenColumns + `
		FROM refresh_tokens
		WHERE user_id = $1 AND NOT consumed AND NOT revoked AND expires_at >= $2
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, q, userID, now)
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
	return dbx.Affected(r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, before))
}
