package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aussiebroadwan/guildhall/internal/auth/domain"
	"github.com/aussiebroadwan/guildhall/pkg/jwtx"
)

// AccessTokenIssuer signs access tokens. Every token gets a fresh jti.
type AccessTokenIssuer struct {
	Keys     *jwtx.KeyManager
	Issuer   string
	Audience []string
	TTL      time.Duration
}

// Issue signs claims valid from now until now+TTL.
func (i *AccessTokenIssuer) Issue(claims domain.ClaimSet, now time.Time) (domain.AccessToken, error) {
	jc := jwtx.NewAccessClaims(
		strconv.FormatInt(claims.SubjectID, 10),
		jwtx.NewJTI(),
		jwtx.Profile{
			Username:      claims.Username,
			Email:         claims.Email,
			EmailVerified: claims.EmailVerified,
			Role:          claims.Role,
			AvatarURL:     claims.AvatarURL,
			Level:         claims.Level,
			XP:            claims.XP,
		},
		i.TTL,
		i.Issuer,
		i.Audience,
		now,
	)

	token, err := i.Keys.Signer.Sign(jc)
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("sign access token: %w", err)
	}

	return domain.AccessToken{
		Token:     token,
		JTI:       jc.ID,
		SubjectID: claims.SubjectID,
		IssuedAt:  jc.IssuedAt.Time,
		ExpiresAt: jc.ExpiresAt.Time,
	}, nil
}

// Verify fully validates a token, including exp and nbf.
func (i *AccessTokenIssuer) Verify(token string) (*jwtx.Claims, error) {
	return i.Keys.Verifier.Verify(token)
}

// VerifySignature validates a token without looking at exp or nbf.
func (i *AccessTokenIssuer) VerifySignature(token string) (*jwtx.Claims, error) {
	return i.Keys.Verifier.VerifySignature(token)
}

// SubjectID parses the numeric user id out of verified claims.
func SubjectID(c *jwtx.Claims) (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("subject %q is not a user id", c.Subject)
	}
	return id, nil
}
