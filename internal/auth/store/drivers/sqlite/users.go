package sqlite

import (
	"context"

	"github.com/aussiebroadwan/guildhall/internal/auth/domain"
	"github.com/aussiebroadwan/guildhall/internal/dbx"
)

type usersRepo struct {
	db dbx.DBTX
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.UserIdentity, error) {
	const q = `
		SELECT id, username, email, role, avatar_url, level, xp,
		       is_active, is_email_verified, updated_at
		FROM users
		WHERE id = ?`

	var (
		u       domain.UserIdentity
		updated int64
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.Role, &u.AvatarURL, &u.Level, &u.XP,
		&u.IsActive, &u.IsEmailVerified, &updated,
	)
	if err != nil {
		return domain.UserIdentity{}, mapNotFound(err)
	}
	u.UpdatedAt = fromMillis(updated)
	return u, nil
}

func (r *usersRepo) UpsertUser(ctx context.Context, u domain.UserIdentity) error {
	const q = `
		INSERT INTO users (
			id, username, email, role, avatar_url, level, xp,
			is_active, is_email_verified, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username          = excluded.username,
			email             = excluded.email,
			role              = excluded.role,
			avatar_url        = excluded.avatar_url,
			level             = excluded.level,
			xp                = excluded.xp,
			is_active         = excluded.is_active,
			is_email_verified = excluded.is_email_verified,
			updated_at        = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, q,
		u.ID, u.Username, u.Email, u.Role, u.AvatarURL, u.Level, u.XP,
		u.IsActive, u.IsEmailVerified, toMillis(u.UpdatedAt),
	)
	return err
}
