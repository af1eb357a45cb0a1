package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Memory implements Cache in process. It is only suitable for a single
// instance (dev, tests); replicas would not share sessions.
type Memory struct {
	items *ttlcache.Cache[string, string]
}

// NewMemory starts an in-memory cache with background expiry.
func NewMemory() *Memory {
	items := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	go items.Start()

	return &Memory{items: items}
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.items.Set(key, value, ttl)
	return nil
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	item := m.items.Get(key)
	if item == nil || item.IsExpired() {
		return "", ErrNotFound
	}
	return item.Value(), nil
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	item := m.items.Get(key)
	return item != nil && !item.IsExpired(), nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.items.Delete(key)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Close stops the expiry goroutine.
func (m *Memory) Close() error {
	m.items.Stop()
	return nil
}
