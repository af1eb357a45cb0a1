package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatehouse/internal/auth/cache"
	"github.com/aussiebroadwan/gatehouse/internal/auth/service"
	"github.com/stretchr/testify/require"
)

func TestRefreshRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	token, err := h.refresh.Generate(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, token, 64)

	sub, err := h.refresh.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", sub)

	require.Equal(t, 7*24*time.Hour, h.mr.TTL(cache.PrefixRefresh+token))
}

func TestRefreshUnknownToken(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.refresh.Resolve(ctx, "never-generated")
	require.ErrorIs(t, err, service.ErrTokenNotFound)

	_, err = h.refresh.Resolve(ctx, "")
	require.ErrorIs(t, err, service.ErrTokenNotFound)
}

func TestRefreshExpires(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	token, err := h.refresh.Generate(ctx, "a@x.com")
	require.NoError(t, err)

	h.mr.FastForward(7*24*time.Hour + time.Second)

	_, err = h.refresh.Resolve(ctx, token)
	require.ErrorIs(t, err, service.ErrTokenNotFound)
}

func TestRefreshCacheDown(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.mr.Close()

	_, err := h.refresh.Generate(ctx, "a@x.com")
	require.ErrorIs(t, err, cache.ErrUnavailable)

	_, err = h.refresh.Resolve(ctx, "anything")
	require.ErrorIs(t, err, cache.ErrUnavailable)
}
