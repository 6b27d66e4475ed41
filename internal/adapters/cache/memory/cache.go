package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache es el adapter in-process (dev y tests) sobre go-cache.
type Cache struct {
	c *gocache.Cache
}

// New crea el cache. cleanup es el intervalo de purga de expirados.
func New(cleanup time.Duration) *Cache {
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &Cache{c: gocache.New(gocache.NoExpiration, cleanup)}
}

func (m *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

// Set guarda una copia del valor. ttl <= 0 no expira.
func (m *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(key, append([]byte(nil), value...), ttl)
	return nil
}
