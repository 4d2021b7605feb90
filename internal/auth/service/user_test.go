package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/guildhall/internal/auth/domain"
	"github.com/aussiebroadwan/guildhall/internal/auth/service"
	"github.com/aussiebroadwan/guildhall/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func TestUserService_Lookup(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, service.SessionConfig{})

	_, err := env.users.Lookup(ctx, 42)
	require.ErrorIs(t, err, store.ErrNotFound)

	revoked, err := env.users.SyncIdentity(ctx, testUser(42))
	require.NoError(t, err)
	require.Zero(t, revoked)

	got, err := env.users.Lookup(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, "raider", got.Username)
	require.True(t, got.UpdatedAt.Equal(t0))
}

func TestUserService_SyncIdentity(t *testing.T) {
	tests := []struct {
		name        string
		change      func(u *domain.UserIdentity)
		wantRevoked int64
	}{
		{"profile change keeps sessions", func(u *domain.UserIdentity) { u.Level = 9; u.XP = 4000 }, 0},
		{"role change revokes", func(u *domain.UserIdentity) { u.Role = "moderator" }, 2},
		{"deactivation revokes", func(u *domain.UserIdentity) { u.IsActive = false }, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t, service.SessionConfig{})
			a := env.issue(t, testUser(42))
			env.issue(t, testUser(42))
			env.issue(t, testUser(99))

			u := testUser(42)
			tt.change(&u)
			revoked, err := env.users.SyncIdentity(ctx, u)
			require.NoError(t, err)
			require.Equal(t, tt.wantRevoked, revoked)

			active, err := env.sessions.ActiveSessions(ctx, 42)
			require.NoError(t, err)
			require.Equal(t, 2-int(tt.wantRevoked), active)

			others, err := env.sessions.ActiveSessions(ctx, 99)
			require.NoError(t, err)
			require.Equal(t, 1, others)

			if tt.wantRevoked == 0 {
				return
			}
			env.clock.Set(t0.Add(2 * time.Hour))
			_, err = env.sessions.RefreshSession(ctx, a.AccessToken, a.RefreshToken)
			require.ErrorIs(t, err, service.ErrRevoked)
		})
	}
}

func TestUserService_SyncIdentityRejectsInvalidID(t *testing.T) {
	env := newTestEnv(t, service.SessionConfig{})
	_, err := env.users.SyncIdentity(context.Background(), testUser(-1))
	require.ErrorIs(t, err, service.ErrInvalidUser)
}
