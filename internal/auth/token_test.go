package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/skills-enroll/internal/common"
)

func buildToken(t *testing.T, issuer string, nbf, exp time.Time) jwt.Token {
	t.Helper()
	token, err := jwt.NewBuilder().
		Issuer(issuer).
		Audience([]string{"aud"}).
		Subject("sub").
		IssuedAt(nbf).
		NotBefore(nbf).
		Expiration(exp).
		Build()
	require.NoError(t, err)
	return token
}

func TestTokenValidator(t *testing.T) {
	now := time.Now()
	validator := TokenValidator{Issuer: "issuer", Audience: "aud", ClockSkew: time.Second, Algorithm: jwa.HS256}

	require.NoError(t, validator.Validate(buildToken(t, "issuer", now, now.Add(time.Minute)), jwa.HS256, now))

	cases := map[string]struct {
		token jwt.Token
		alg   jwa.SignatureAlgorithm
	}{
		"issuer mismatch": {buildToken(t, "other", now, now.Add(time.Minute)), jwa.HS256},
		"expired":         {buildToken(t, "issuer", now.Add(-2*time.Hour), now.Add(-time.Minute)), jwa.HS256},
		"not yet valid":   {buildToken(t, "issuer", now.Add(5*time.Minute), now.Add(10*time.Minute)), jwa.HS256},
		"algorithm":       {buildToken(t, "issuer", now, now.Add(time.Minute)), jwa.RS256},
		"no algorithm":    {buildToken(t, "issuer", now, now.Add(time.Minute)), ""},
		"nil token":       {nil, jwa.HS256},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, validator.Validate(tc.token, tc.alg, now))
		})
	}
}

func TestTokensIssueAndParse(t *testing.T) {
	tokens, err := NewTokens("s3cret", "skills-enroll", "", time.Hour, 0)
	require.NoError(t, err)
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

	signed, expiresAt, err := tokens.Issue(common.Principal{UserID: "u-1", Email: "a@b.co"}, now)
	require.NoError(t, err)
	require.Equal(t, now.Add(time.Hour), expiresAt)

	p, err := tokens.Parse(signed, now.Add(30*time.Minute))
	require.NoError(t, err)
	require.Equal(t, common.Principal{UserID: "u-1", Email: "a@b.co"}, p)

	_, err = tokens.Parse(signed, now.Add(2*time.Hour))
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, common.CodeUnauthorized, appErr.Code)

	other, err := NewTokens("different", "skills-enroll", "", time.Hour, 0)
	require.NoError(t, err)
	_, err = other.Parse(signed, now)
	require.Error(t, err)

	_, err = tokens.Parse("not-a-token", now)
	require.Error(t, err)
	_, err = tokens.Parse("  ", now)
	require.Error(t, err)
}

func TestTokensRejectUnsignedTokens(t *testing.T) {
	tokens, err := NewTokens("s3cret", "skills-enroll", "", time.Hour, 0)
	require.NoError(t, err)
	now := time.Now()
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload := enc.EncodeToString([]byte(fmt.Sprintf(`{"sub":"u-1","iss":"skills-enroll","exp":%d}`, now.Add(time.Hour).Unix())))
	_, err = tokens.Parse(header+"."+payload+".", now)
	require.Error(t, err)
}

func TestNewTokensRequiresSecret(t *testing.T) {
	_, err := NewTokens(" ", "i", "", time.Hour, 0)
	require.Error(t, err)
}
