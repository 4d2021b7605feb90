package session_test

import (
	"sync"
	"testing"

	"github.com/aussiebroadwan/guildhall/pkg/sessionsdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIssueRefreshRotate covers the complete flow:
// 1. Sync an identity and open a session
// 2. Refresh is refused while the access token is valid
// 3. After expiry the pair rotates
// 4. The old refresh token cannot be replayed
func TestIssueRefreshRotate(t *testing.T) {
	baseURL := setupAuthContainer(t, nil)
	client := sessionsdk.NewSDKClient(baseURL).WithServiceToken(serviceToken)
	ctx := t.Context()

	syncUser(t, client, 100, newIdentity("raider", "member"))

	issued, err := client.IssueSession(ctx, 100)
	require.NoError(t, err)
	assertSessionResponse(t, issued)

	me, err := client.Me(ctx, issued.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(100), me.UserID)
	require.Equal(t, "raider", me.Username)
	require.Equal(t, 1, me.ActiveSessions)

	_, err = client.RefreshSession(ctx, issued.AccessToken, issued.RefreshToken)
	assertSessionInvalid(t, err, "early refresh")

	waitForAccessExpiry()

	rotated, err := client.RefreshSession(ctx, issued.AccessToken, issued.RefreshToken)
	require.NoError(t, err)
	assertSessionResponse(t, rotated)
	require.NotEqual(t, issued.AccessToken, rotated.AccessToken, "Access token should be rotated")
	require.NotEqual(t, issued.RefreshToken, rotated.RefreshToken, "Refresh token should be rotated")

	_, err = client.RefreshSession(ctx, issued.AccessToken, issued.RefreshToken)
	assertSessionInvalid(t, err, "replayed refresh token")

	me, err = client.Me(ctx, rotated.AccessToken)
	require.NoError(t, err)
	require.Equal(t, 1, me.ActiveSessions, "the consumed record no longer counts")
}

// TestConcurrentRefresh verifies at most one of many simultaneous
// refreshes of the same pair succeeds.
func TestConcurrentRefresh(t *testing.T) {
	baseURL := setupAuthContainer(t, nil)
	client := sessionsdk.NewSDKClient(baseURL).WithServiceToken(serviceToken)
	ctx := t.Context()

	syncUser(t, client, 101, newIdentity("racer", "member"))
	issued, err := client.IssueSession(ctx, 101)
	require.NoError(t, err)

	waitForAccessExpiry()

	const attempts = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.RefreshSession(ctx, issued.AccessToken, issued.RefreshToken)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, sessionsdk.ErrSessionInvalid, "losing refresh")
		}()
	}
	wg.Wait()

	require.Equal(t, 1, successes)
}

// TestSessionWrapperAutoRefresh drives the SDK Session across an expiry.
func TestSessionWrapperAutoRefresh(t *testing.T) {
	baseURL := setupAuthContainer(t, nil)
	client := sessionsdk.NewSDKClient(baseURL).WithServiceToken(serviceToken)
	ctx := t.Context()

	syncUser(t, client, 102, newIdentity("wanderer", "member"))
	session, err := client.OpenSession(ctx, 102)
	require.NoError(t, err)

	first, _ := session.Tokens()
	waitForAccessExpiry()

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(102), me.UserID)

	current, _ := session.Tokens()
	require.NotEqual(t, first, current)

	require.NoError(t, session.Revoke(ctx))
}

// TestRevokeOnReuse verifies a replayed refresh token ends every session
// of its owner when the escalation is enabled.
func TestRevokeOnReuse(t *testing.T) {
	baseURL := setupAuthContainer(t, map[string]string{"AUTH_REVOKE_ON_REUSE": "true"})
	client := sessionsdk.NewSDKClient(baseURL).WithServiceToken(serviceToken)
	ctx := t.Context()

	syncUser(t, client, 103, newIdentity("victim", "member"))
	stolen, err := client.IssueSession(ctx, 103)
	require.NoError(t, err)
	other, err := client.IssueSession(ctx, 103)
	require.NoError(t, err)

	waitForAccessExpiry()

	rotated, err := client.RefreshSession(ctx, stolen.AccessToken, stolen.RefreshToken)
	require.NoError(t, err)

	_, err = client.RefreshSession(ctx, stolen.AccessToken, stolen.RefreshToken)
	assertSessionInvalid(t, err, "replay")

	waitForAccessExpiry()
	_, err = client.RefreshSession(ctx, rotated.AccessToken, rotated.RefreshToken)
	assertSessionInvalid(t, err, "rotated pair after replay")
	_, err = client.RefreshSession(ctx, other.AccessToken, other.RefreshToken)
	assertSessionInvalid(t, err, "sibling session after replay")
}
