package cache

import (
	"context"
	"time"
)

// Cache es el key-value store con expiración usado como read-through.
// Get devuelve found=false (sin error) cuando la clave no existe o expiró.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
