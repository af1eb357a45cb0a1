package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatehouse/internal/auth/service"
	"github.com/aussiebroadwan/gatehouse/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestIssueThenValidate(t *testing.T) {
	issuer := newTokenIssuer(t)

	token, err := issuer.Issue("a@x.com", nil)
	require.NoError(t, err)
	require.True(t, issuer.Validate(token))

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", claims.Subject)
	require.Equal(t, testIssuer, claims.Issuer)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssueNeverRepeatsJTI(t *testing.T) {
	issuer := newTokenIssuer(t)

	seen := make(map[string]bool)
	for range 50 {
		token, err := issuer.Issue("a@x.com", nil)
		require.NoError(t, err)
		jti, err := issuer.ExtractJTI(token)
		require.NoError(t, err)
		require.False(t, seen[jti], "duplicate jti %s", jti)
		seen[jti] = true
	}
}

func TestValidateRejects(t *testing.T) {
	issuer := newTokenIssuer(t)
	good, err := issuer.Issue("a@x.com", nil)
	require.NoError(t, err)

	expiredIssuer := newTokenIssuer(t)
	expiredIssuer.Now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredIssuer.Issue("a@x.com", nil)
	require.NoError(t, err)

	otherIssuer := newTokenIssuer(t)
	otherIssuer.Issuer = "someone-else"
	foreign, err := otherIssuer.Issue("a@x.com", nil)
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	for name, token := range map[string]string{
		"expired":  expired,
		"issuer":   foreign,
		"tampered": tampered,
		"garbage":  "not-a-token",
		"empty":    "",
	} {
		t.Run(name, func(t *testing.T) {
			require.False(t, issuer.Validate(token))
			_, err := issuer.Parse(token)
			require.ErrorIs(t, err, service.ErrTokenMalformed)
		})
	}
}

func TestExtractors(t *testing.T) {
	issuer := newTokenIssuer(t)
	token, err := issuer.Issue("a@x.com", nil)
	require.NoError(t, err)

	sub, err := issuer.ExtractSubject(token)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", sub)

	remaining, err := issuer.ExtractRemainingValidity(token)
	require.NoError(t, err)
	require.Greater(t, remaining, 14*time.Minute)
	require.LessOrEqual(t, remaining, 15*time.Minute)

	issuer.Now = func() time.Time { return time.Now().Add(time.Hour) }
	remaining, err = issuer.ExtractRemainingValidity(token)
	require.NoError(t, err)
	require.Zero(t, remaining)

	_, err = issuer.ExtractSubject("abc.def")
	require.ErrorIs(t, err, service.ErrTokenMalformed)
	_, err = issuer.ExtractJTI("")
	require.ErrorIs(t, err, service.ErrTokenMalformed)
}

func TestRestrictedTokenCarriesExtension(t *testing.T) {
	issuer := newTokenIssuer(t)

	token, err := issuer.IssueFor("a@x.com", time.Hour, map[string]bool{jwtx.ExtPasswordReset: true})
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	require.True(t, claims.Extension(jwtx.ExtPasswordReset))
	require.True(t, claims.Restricted())
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}
