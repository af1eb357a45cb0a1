package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/gatehouse/internal/auth/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T, prefix string) (*cache.Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c := cache.NewRedis(cache.RedisConfig{Addr: mr.Addr(), KeyPrefix: prefix})
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisSetGetExpire(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t, "gatehouse:")

	require.NoError(t, c.Set(ctx, "refresh:abc", "a@x.com", time.Minute))

	got, err := c.Get(ctx, "refresh:abc")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", got)

	// Keys are namespaced and carry the ttl
	require.True(t, mr.Exists("gatehouse:refresh:abc"))
	require.Equal(t, time.Minute, mr.TTL("gatehouse:refresh:abc"))

	mr.FastForward(time.Minute + time.Second)

	_, err = c.Get(ctx, "refresh:abc")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestRedisExistsAndDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedis(t, "")

	ok, err := c.Exists(ctx, "2fa:a@x.com")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, "2fa:a@x.com", "", 5*time.Minute))

	ok, err = c.Exists(ctx, "2fa:a@x.com")
	require.NoError(t, err)
	require.True(t, ok, "empty marker values must still exist")

	require.NoError(t, c.Delete(ctx, "2fa:a@x.com"))
	ok, err = c.Exists(ctx, "2fa:a@x.com")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting a missing key is fine
	require.NoError(t, c.Delete(ctx, "2fa:a@x.com"))
}

func TestRedisNonPositiveTTLSkipsWrite(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t, "")

	require.NoError(t, c.Set(ctx, "revoked:jti", "", 0))
	require.NoError(t, c.Set(ctx, "revoked:jti2", "", -time.Second))

	require.False(t, mr.Exists("revoked:jti"))
	require.False(t, mr.Exists("revoked:jti2"))
}

func TestRedisUnavailable(t *testing.T) {
	ctx := context.Background()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	c := cache.NewRedis(cache.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	mr.Close()

	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, cache.ErrUnavailable)

	_, err = c.Exists(ctx, "k")
	require.ErrorIs(t, err, cache.ErrUnavailable)

	require.ErrorIs(t, c.Set(ctx, "k", "v", time.Minute), cache.ErrUnavailable)
	require.ErrorIs(t, c.Delete(ctx, "k"), cache.ErrUnavailable)
	require.ErrorIs(t, c.Ping(ctx), cache.ErrUnavailable)
}

func TestRedisFromClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	c := cache.NewRedisFromClient(client, "p:")
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Set(context.Background(), "k", "v", time.Second))
	require.True(t, mr.Exists("p:k"))
}
