package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/gatehouse/internal/auth/service"
	"github.com/aussiebroadwan/gatehouse/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func principalFor(t *testing.T, h *harness, token string) httpx.Principal {
	t.Helper()
	claims, err := h.tokens.Parse(token)
	require.NoError(t, err)
	return httpx.Principal{
		Subject:   claims.Subject,
		TokenID:   claims.ID,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}

func TestIssuePair(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	pair, err := h.sessions.IssuePair(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, "Bearer", pair.TokenType)
	require.EqualValues(t, 900, pair.ExpiresIn)
	require.True(t, h.tokens.Validate(pair.AccessToken))

	sub, err := h.refresh.Resolve(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", sub)
}

func TestAccessDoesNotRotate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	pair := h.register(t, "a@x.com", "password123")
	keysBefore := len(h.mr.Keys())

	out, err := h.sessions.Access(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Empty(t, out.RefreshToken)
	require.True(t, h.tokens.Validate(out.AccessToken))
	require.Len(t, h.mr.Keys(), keysBefore)
}

func TestRefreshRotatesButKeepsOldToken(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	pair := h.register(t, "a@x.com", "password123")

	next, err := h.sessions.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, next.RefreshToken)
	require.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The previous refresh token is left to expire on its own.
	_, err = h.sessions.Access(ctx, pair.RefreshToken)
	require.NoError(t, err)
	_, err = h.sessions.Access(ctx, next.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejects(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	pair := h.register(t, "a@x.com", "password123")

	_, err := h.sessions.Refresh(ctx, "unknown")
	require.ErrorIs(t, err, service.ErrTokenNotFound)

	u := h.user(t, "a@x.com")
	require.NoError(t, h.store.Users().SetBanned(ctx, u.ID, true))

	_, err = h.sessions.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrBannedUser)
	_, err = h.sessions.Access(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrBannedUser)

	require.NoError(t, h.store.Users().DeleteUser(ctx, u.ID))
	_, err = h.sessions.Access(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

// Register, logout, then: the access token is dead but the refresh token
// still mints a new one.
func TestLogoutKeepsRefreshToken(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	pair, err := h.accounts.Register(ctx, service.RegisterInput{
		Email:    "a@x.com",
		Username: "a",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, h.sessions.Logout(ctx, principalFor(t, h, pair.AccessToken)))

	revoked, err := h.revocations.IsRevoked(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.True(t, revoked)

	fresh, err := h.sessions.Access(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.True(t, h.tokens.Validate(fresh.AccessToken))

	revoked, err = h.revocations.IsRevoked(ctx, fresh.AccessToken)
	require.NoError(t, err)
	require.False(t, revoked)
}
