package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/guildhall/internal/auth/domain"
	"github.com/aussiebroadwan/guildhall/internal/auth/service"
	"github.com/aussiebroadwan/guildhall/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/guildhall/pkg/cryptox"
	"github.com/aussiebroadwan/guildhall/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://auth.guildhall.test"
	testAudience = "guildhall"
	accessTTL    = time.Hour
	refreshTTL   = 24 * time.Hour
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testEnv struct {
	store    *sqlite.Store
	clock    *fakeClock
	keys     *jwtx.KeyManager
	sessions *service.SessionService
	users    *service.UserService
}

func newTestKeys(t *testing.T, clock *fakeClock) *jwtx.KeyManager {
	t.Helper()
	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		Algorithm: jwtx.AlgorithmHS256,
		KeyID:     "test-key",
		Key:       []byte("0123456789abcdef0123456789abcdef"),
		Issuer:    testIssuer,
		Audience:  []string{testAudience},
		Now:       clock.Now,
	})
	require.NoError(t, err)
	return km
}

func newTestEnv(t *testing.T, cfg service.SessionConfig) *testEnv {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations(context.Background()))

	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = refreshTTL
	}

	clock := &fakeClock{now: t0}
	keys := newTestKeys(t, clock)

	return &testEnv{
		store: s,
		clock: clock,
		keys:  keys,
		sessions: &service.SessionService{
			Store: s,
			Issuer: &service.AccessTokenIssuer{
				Keys:     keys,
				Issuer:   testIssuer,
				Audience: []string{testAudience},
				TTL:      accessTTL,
			},
			Config: cfg,
			Clock:  clock.Now,
		},
		users: &service.UserService{Store: s, Clock: clock.Now},
	}
}

func testUser(id int64) domain.UserIdentity {
	return domain.UserIdentity{
		ID:              id,
		Username:        "raider",
		Email:           "raider@example.com",
		Role:            "member",
		AvatarURL:       "https://cdn.example.com/a.png",
		Level:           7,
		XP:              1200,
		IsActive:        true,
		IsEmailVerified: true,
	}
}

func (e *testEnv) issue(t *testing.T, u domain.UserIdentity) *domain.SessionPair {
	t.Helper()
	pair, err := e.sessions.IssueSession(context.Background(), u)
	require.NoError(t, err)
	return pair
}

// refreshState returns the stored state of the record behind secret.
func (e *testEnv) refreshState(t *testing.T, secret string) domain.RefreshTokenState {
	t.Helper()
	rec, err := e.store.RefreshTokens().GetRefreshTokenByHash(context.Background(), cryptox.FingerprintToken(secret))
	require.NoError(t, err)
	return rec.State(e.clock.Now())
}
