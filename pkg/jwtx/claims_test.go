package jwtx_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatehouse/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "gatehouse-auth",
		},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("gatehouse-auth"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateIssuer("chat-service"), jwtx.ErrIssuer)
	})
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid window", func(t *testing.T) {
		c := jwtx.NewClaims("a@x.com", "iss", time.Minute, now, nil)
		require.NoError(t, c.ValidateExpiry())
	})

	t.Run("expired", func(t *testing.T) {
		c := jwtx.NewClaims("a@x.com", "iss", time.Minute, now.Add(-2*time.Minute), nil)
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrExpired)
	})

	t.Run("expired but inside leeway", func(t *testing.T) {
		c := jwtx.NewClaims("a@x.com", "iss", time.Minute, now.Add(-65*time.Second), nil)
		require.NoError(t, c.ValidateExpiryWithLeeway(10*time.Second))
	})

	t.Run("missing exp", func(t *testing.T) {
		c := &jwtx.Claims{}
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrInvalidClaim)
	})
}

func TestNewClaims(t *testing.T) {
	now := time.Now()
	c := jwtx.NewClaims("a@x.com", "iss", 15*time.Minute, now, nil)

	require.Equal(t, "a@x.com", c.Subject)
	require.Equal(t, "iss", c.Issuer)
	require.Equal(t, c.IssuedAt.Add(15*time.Minute).Unix(), c.ExpiresAt.Unix())
	require.NotEmpty(t, c.ID)

	t.Run("jti is never reused", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 1000 {
			id := jwtx.NewClaims("a@x.com", "iss", time.Minute, now, nil).ID
			_, dup := seen[id]
			require.False(t, dup)
			seen[id] = struct{}{}
		}
	})

	t.Run("remaining validity", func(t *testing.T) {
		require.InDelta(t, (15 * time.Minute).Seconds(), c.Remaining(now).Seconds(), 1)
		require.Zero(t, c.Remaining(now.Add(time.Hour)))
	})

	t.Run("registered names cannot be extensions", func(t *testing.T) {
		c := jwtx.NewClaims("a@x.com", "iss", time.Minute, now, map[string]bool{"sub": true, "admin": true})
		require.Equal(t, map[string]bool{"admin": true}, c.Extensions)
	})
}

func TestClaimsExtensionsJSON(t *testing.T) {
	c := jwtx.NewClaims("a@x.com", "iss", time.Minute, time.Now(), map[string]bool{
		jwtx.ExtVerification: true,
		"beta":               false,
	})

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	require.Equal(t, true, flat["verification"])
	require.Equal(t, false, flat["beta"])
	require.Equal(t, "a@x.com", flat["sub"])

	var back jwtx.Claims
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, c.ID, back.ID)
	require.True(t, back.Extension(jwtx.ExtVerification))
	require.False(t, back.Extension("beta"))
	require.True(t, back.Restricted())

	t.Run("non boolean members are ignored", func(t *testing.T) {
		var got jwtx.Claims
		require.NoError(t, json.Unmarshal([]byte(`{"sub":"a","jti":"j","scope":"x","admin":true}`), &got))
		require.Equal(t, map[string]bool{"admin": true}, got.Extensions)
		require.False(t, got.Restricted())
	})
}
