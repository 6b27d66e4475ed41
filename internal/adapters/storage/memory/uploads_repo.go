package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"pet-adoption/internal/domain/uploads"
)

var ErrDuplicate = errors.New("already exists")

type uploadsRepo struct {
	mu      sync.RWMutex
	byID    map[string]struct{}
	batches []uploads.Batch
}

func NewUploadsRepo() uploads.Repository {
	return &uploadsRepo{byID: make(map[string]struct{})}
}

func (r *uploadsRepo) Save(_ context.Context, b uploads.Batch) error {
	if strings.TrimSpace(b.ID) == "" {
		return errors.New("batch id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[b.ID]; ok {
		return ErrDuplicate
	}
	b.Files = slices.Clone(b.Files)
	r.byID[b.ID] = struct{}{}
	r.batches = append(r.batches, b)
	return nil
}

// ListRecent devuelve los lotes del más nuevo al más viejo.
func (r *uploadsRepo) ListRecent(_ context.Context, limit int) ([]uploads.Batch, error) {
	if limit <= 0 {
		return []uploads.Batch{}, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]uploads.Batch, 0, min(limit, len(r.batches)))
	for i := len(r.batches) - 1; i >= 0 && len(out) < limit; i-- {
		b := r.batches[i]
		b.Files = slices.Clone(b.Files)
		out = append(out, b)
	}
	return out, nil
}
