package session_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/guildhall/pkg/sessionsdk"
	"github.com/stretchr/testify/require"
)

func TestRevokeSession(t *testing.T) {
	baseURL := setupAuthContainer(t, nil)
	client := sessionsdk.NewSDKClient(baseURL).WithServiceToken(serviceToken)
	ctx := t.Context()

	syncUser(t, client, 200, newIdentity("leaver", "member"))
	issued, err := client.IssueSession(ctx, 200)
	require.NoError(t, err)

	require.NoError(t, client.RevokeSession(ctx, issued.RefreshToken))
	require.NoError(t, client.RevokeSession(ctx, issued.RefreshToken), "second revoke still succeeds")
	require.NoError(t, client.RevokeSession(ctx, "unknown-token"), "unknown tokens are not reported")

	waitForAccessExpiry()
	_, err = client.RefreshSession(ctx, issued.AccessToken, issued.RefreshToken)
	assertSessionInvalid(t, err, "refresh after revoke")
}

func TestRevokeAllSessions(t *testing.T) {
	baseURL := setupAuthContainer(t, nil)
	client := sessionsdk.NewSDKClient(baseURL).WithServiceToken(serviceToken)
	ctx := t.Context()

	syncUser(t, client, 201, newIdentity("multi", "member"))
	var sessions []*sessionsdk.SessionResponse
	for range 3 {
		s, err := client.IssueSession(ctx, 201)
		require.NoError(t, err)
		sessions = append(sessions, s)
	}

	out, err := client.RevokeAllSessions(ctx, 201)
	require.NoError(t, err)
	require.Equal(t, int64(3), out.Revoked)

	waitForAccessExpiry()
	for _, s := range sessions {
		_, err := client.RefreshSession(ctx, s.AccessToken, s.RefreshToken)
		assertSessionInvalid(t, err, "refresh after revoke-all")
	}
}

// TestRoleChangeRevokes verifies an identity sync that changes the role
// forces the user to log in again.
func TestRoleChangeRevokes(t *testing.T) {
	baseURL := setupAuthContainer(t, nil)
	client := sessionsdk.NewSDKClient(baseURL).WithServiceToken(serviceToken)
	ctx := t.Context()

	syncUser(t, client, 202, newIdentity("climber", "member"))
	issued, err := client.IssueSession(ctx, 202)
	require.NoError(t, err)

	out := syncUser(t, client, 202, newIdentity("climber", "officer"))
	require.Equal(t, int64(1), out.Revoked)

	waitForAccessExpiry()
	_, err = client.RefreshSession(ctx, issued.AccessToken, issued.RefreshToken)
	assertSessionInvalid(t, err, "refresh with stale role")

	fresh, err := client.IssueSession(ctx, 202)
	require.NoError(t, err)
	me, err := client.Me(ctx, fresh.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "officer", me.Role)
}

func TestServiceRoutesRequireToken(t *testing.T) {
	baseURL := setupAuthContainer(t, nil)
	ctx := t.Context()

	_, err := sessionsdk.NewSDKClient(baseURL).WithServiceToken("wrong").IssueSession(ctx, 1)
	var oauthErr *sessionsdk.OAuth2Error
	require.ErrorAs(t, err, &oauthErr)
	require.Equal(t, http.StatusUnauthorized, oauthErr.StatusCode)

	_, err = sessionsdk.NewSDKClient(baseURL).WithServiceToken("wrong").PurgeExpired(ctx)
	require.ErrorAs(t, err, &oauthErr)
	require.Equal(t, http.StatusUnauthorized, oauthErr.StatusCode)
}

func TestPurgeExpired(t *testing.T) {
	baseURL := setupAuthContainer(t, nil)
	client := sessionsdk.NewSDKClient(baseURL).WithServiceToken(serviceToken)

	out, err := client.PurgeExpired(t.Context())
	require.NoError(t, err)
	require.Zero(t, out.Deleted)
	require.False(t, out.Before.IsZero())
}
