package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Memory is the in-process backend, used when no DATABASE_URL is configured.
type Memory struct {
	c *cache.Cache
}

func NewMemory() *Memory {
	return &Memory{c: cache.New(cache.NoExpiration, 10*time.Minute)}
}

func (m *Memory) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	m.c.Set(key, value, ttl)
	return nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}
