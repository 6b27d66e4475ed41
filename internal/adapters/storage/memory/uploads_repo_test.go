package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/domain/uploads"
)

func TestUploadsRepo_SaveAndListRecent(t *testing.T) {
	repo := NewUploadsRepo()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"b1", "b2", "b3"} {
		require.NoError(t, repo.Save(ctx, uploads.Batch{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Files:     []uploads.FileResult{{FileName: id + ".jpg", State: uploads.StatePersisted}},
		}))
	}

	got, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b3", got[0].ID)
	assert.Equal(t, "b2", got[1].ID)

	// la copia devuelta no toca lo guardado
	got[0].Files[0].State = uploads.StatePersistSkipped
	again, _ := repo.ListRecent(ctx, 1)
	assert.Equal(t, uploads.StatePersisted, again[0].Files[0].State)
}

func TestUploadsRepo_Rejects(t *testing.T) {
	repo := NewUploadsRepo()
	ctx := context.Background()

	assert.Error(t, repo.Save(ctx, uploads.Batch{}))
	require.NoError(t, repo.Save(ctx, uploads.Batch{ID: "b1"}))
	assert.ErrorIs(t, repo.Save(ctx, uploads.Batch{ID: "b1"}), ErrDuplicate)
}
