package postgres

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
		WHERE id = $1`

	var u domain.UserIdentity
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.Role, &u.AvatarURL, &u.Level, &u.XP,
		&u.IsActive, &u.IsEmailVerified, &u.UpdatedAt,
	)
	if err != nil {
		return domain.UserIdentity{}, mapNotFound(err)
	}
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) UpsertUser(ctx context.Context, u domain.UserIdentity) error {
	const q = `
		INSERT INTO users (
			id, username, email, role, avatar_url, level, xp,
			is_active, is_email_verified, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			username          = EXCLUDED.username,
			email             = EXCLUDED.email,
			role              = EXCLUDED.role,
			avatar_url        = EXCLUDED.avatar_url,
			level             = EXCLUDED.level,
			xp                = EXCLUDED.xp,
			is_active         = EXCLUDED.is_active,
			is_email_verified = EXCLUDED.is_email_verified,
			updated_at        = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, q,
		u.ID, u.Username, u.Email, u.Role, u.AvatarURL, u.Level, u.XP,
		u.IsActive, u.IsEmailVerified, u.UpdatedAt,
	)
	return err
}
