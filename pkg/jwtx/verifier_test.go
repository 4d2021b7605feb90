package jwtx_test

import (
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/aussiebroadwan/guildhall/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "https://auth.guildhall.test"

var allAlgorithms = []string{
	jwtx.AlgorithmHS256,
	jwtx.AlgorithmRS256,
	jwtx.AlgorithmES256,
	jwtx.AlgorithmEdDSA,
}

func newTestKeyManager(t *testing.T, alg string, now func() time.Time) *jwtx.KeyManager {
	t.Helper()
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Algorithm: alg,
		Issuer:    exampleIssuer,
		Audience:  []string{"platform"},
		RSABits:   2048,
		Now:       now,
	})
	require.NoError(t, err)
	return km
}

func TestSignAndVerify_AllAlgorithms(t *testing.T) {
	now := time.Now().UTC()
	profile := jwtx.Profile{Username: "kaz", Email: "kaz@example.com", Role: "member", Level: 3, XP: 250}

	for _, alg := range allAlgorithms {
		t.Run(alg, func(t *testing.T) {
			km := newTestKeyManager(t, alg, nil)

			claims := jwtx.NewAccessClaims("42", "", profile, 5*time.Minute, exampleIssuer, []string{"platform"}, now)
			token, err := km.Signer.Sign(claims)
			require.NoError(t, err)

			parsed, err := km.Verifier.Verify(token)
			require.NoError(t, err)
			require.Equal(t, "42", parsed.Subject)
			require.Equal(t, claims.ID, parsed.ID)
			require.Equal(t, profile, parsed.Profile)
			require.ElementsMatch(t, []string{"platform"}, parsed.Audience)
		})
	}
}

func TestVerify_RejectsWrongIssuerAndAudience(t *testing.T) {
	km := newTestKeyManager(t, jwtx.AlgorithmEdDSA, nil)
	now := time.Now().UTC()

	token, err := km.Signer.Sign(jwtx.NewAccessClaims("42", "", jwtx.Profile{}, time.Minute, "someone-else", []string{"platform"}, now))
	require.NoError(t, err)
	_, err = km.Verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)

	token, err = km.Signer.Sign(jwtx.NewAccessClaims("42", "", jwtx.Profile{}, time.Minute, exampleIssuer, []string{"billing"}, now))
	require.NoError(t, err)
	_, err = km.Verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrAudience)
}

func TestVerifySignature_IgnoresExpiry(t *testing.T) {
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	later := issued.Add(48 * time.Hour)
	km := newTestKeyManager(t, jwtx.AlgorithmHS256, func() time.Time { return later })

	token, err := km.Signer.Sign(jwtx.NewAccessClaims("42", "", jwtx.Profile{}, 24*time.Hour, exampleIssuer, []string{"platform"}, issued))
	require.NoError(t, err)

	_, err = km.Verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	claims, err := km.Verifier.VerifySignature(token)
	require.NoError(t, err)
	require.Equal(t, "42", claims.Subject)
	require.True(t, claims.ExpiredAt(later))
}

func TestVerify_RejectsForeignKey(t *testing.T) {
	for _, alg := range allAlgorithms {
		t.Run(alg, func(t *testing.T) {
			signerKM := newTestKeyManager(t, alg, nil)
			verifierKM := newTestKeyManager(t, alg, nil)

			token, err := signerKM.Signer.Sign(jwtx.NewAccessClaims("42", "", jwtx.Profile{}, time.Minute, exampleIssuer, nil, time.Now()))
			require.NoError(t, err)

			_, err = verifierKM.Verifier.Verify(token)
			require.ErrorIs(t, err, jwtx.ErrUnknownKID)
		})
	}
}

func TestVerify_RejectsTamperedSignature(t *testing.T) {
	km := newTestKeyManager(t, jwtx.AlgorithmHS256, nil)
	token, err := km.Signer.Sign(jwtx.NewAccessClaims("42", "", jwtx.Profile{}, time.Minute, exampleIssuer, nil, time.Now()))
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	if tampered == token {
		tampered = token[:len(token)-2] + "yy"
	}
	_, err = km.Verifier.Verify(tampered)
	require.Error(t, err)
}

func TestVerify_RejectsAlgorithmConfusion(t *testing.T) {
	km := newTestKeyManager(t, jwtx.AlgorithmRS256, nil)
	claims := jwtx.NewAccessClaims("42", "", jwtx.Profile{Role: "admin"}, time.Minute, exampleIssuer, nil, time.Now())

	t.Run("alg none", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		tok.Header["kid"] = km.Signer.KID()
		token, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = km.Verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrAlgMismatch)
	})

	t.Run("HS256 keyed with the RSA public key", func(t *testing.T) {
		pub, err := km.KeySet.Get(km.Signer.KID())
		require.NoError(t, err)
		der, err := x509.MarshalPKIXPublicKey(pub)
		require.NoError(t, err)
		pemPub := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tok.Header["kid"] = km.Signer.KID()
		token, err := tok.SignedString(pemPub)
		require.NoError(t, err)

		_, err = km.Verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrAlgMismatch)
	})
}

func TestVerify_RejectsMalformed(t *testing.T) {
	km := newTestKeyManager(t, jwtx.AlgorithmEdDSA, nil)
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := km.Verifier.Verify(token)
		require.Error(t, err, token)
	}
}
