package service_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/guildhall/internal/auth/service"
	"github.com/aussiebroadwan/guildhall/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenIssuer(t *testing.T) {
	clock := &fakeClock{now: t0}
	iss := &service.AccessTokenIssuer{
		Keys:     newTestKeys(t, clock),
		Issuer:   testIssuer,
		Audience: []string{testAudience},
		TTL:      accessTTL,
	}

	tok, err := iss.Issue(service.BuildClaims(testUser(42)), t0)
	require.NoError(t, err)
	require.Equal(t, int64(42), tok.SubjectID)
	require.Equal(t, t0, tok.IssuedAt.UTC())
	require.Equal(t, t0.Add(accessTTL), tok.ExpiresAt.UTC())
	require.NotEmpty(t, tok.JTI)

	claims, err := iss.Verify(tok.Token)
	require.NoError(t, err)
	require.Equal(t, tok.JTI, claims.ID)
	require.Equal(t, testIssuer, claims.Issuer)
	require.Contains(t, claims.Audience, testAudience)
	require.Equal(t, 7, claims.Level)

	clock.Set(t0.Add(accessTTL))
	_, err = iss.Verify(tok.Token)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	claims, err = iss.VerifySignature(tok.Token)
	require.NoError(t, err)
	require.True(t, claims.ExpiredAt(clock.Now()))

	id, err := service.SubjectID(claims)
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestAccessTokenIssuer_FreshJTIEachTime(t *testing.T) {
	clock := &fakeClock{now: t0}
	iss := &service.AccessTokenIssuer{
		Keys:   newTestKeys(t, clock),
		Issuer: testIssuer,
		TTL:    time.Minute,
	}

	a, err := iss.Issue(service.BuildClaims(testUser(1)), t0)
	require.NoError(t, err)
	b, err := iss.Issue(service.BuildClaims(testUser(1)), t0)
	require.NoError(t, err)
	require.NotEqual(t, a.JTI, b.JTI)
	require.NotEqual(t, a.Token, b.Token)
}
