/*
Package sessionsdk is the Go client for the Guildhall session service.

# Overview

The service hands out sessions: a short-lived JWT access token paired with
a long-lived, single-use refresh token. Platform services open sessions
after they have authenticated a user themselves, and clients rotate the
pair when the access token lapses.

	client := sessionsdk.NewSDKClient("https://auth.guildhall.example")

	// Platform side, authenticated with the shared service token.
	platform := client.WithServiceToken(os.Getenv("AUTH_SERVICE_TOKEN"))
	pair, err := platform.IssueSession(ctx, userID)

	// Client side, rotating an expired access token.
	next, err := client.RefreshSession(ctx, pair.AccessToken, pair.RefreshToken)

# Sessions

A Session wraps a pair and rotates it on demand:

	session := client.NewSession(pair)
	me, err := session.Me(ctx) // refreshes first if the access token lapsed
	_ = session.Revoke(ctx)

Refresh tokens are single use. Two goroutines sharing a Session are
serialised, but two processes holding copies of the same refresh token
race, and the loser is told to log in again.

# Errors

Failures are returned as *OAuth2Error. Every refresh failure (bad
signature, unknown, expired, reused, revoked or mismatched token) is
reported as ErrSessionInvalid on purpose:

	if errors.Is(err, sessionsdk.ErrSessionInvalid) {
		// send the user back to the login form
	}

ErrServerError means the service could not decide; the session may still
be good and the call can be retried.

# Platform operations

With a service token the client can also revoke every session of a user,
purge expired records and push identity changes:

	_, err = platform.RevokeAllSessions(ctx, userID)
	_, err = platform.SyncIdentity(ctx, userID, sessionsdk.Identity{Role: "moderator", IsActive: true})
	_, err = platform.PurgeExpired(ctx)
*/
package sessionsdk
