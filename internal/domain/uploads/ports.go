package uploads

import (
	"context"
	"time"
)

// PresignRequest describe las restricciones del destino firmado.
type PresignRequest struct {
	Key         string
	ContentType string
	MaxBytes    int64
	Expiry      time.Duration
}

// PresignedPost es el form que el navegador envía directo al bucket.
type PresignedPost struct {
	URL    string
	Fields map[string]string
}

type Presigner interface {
	PresignPost(ctx context.Context, req PresignRequest) (PresignedPost, error)
}

// AssetPublisher crea, procesa y publica la imagen como asset del CMS.
type AssetPublisher interface {
	Publish(ctx context.Context, img Image) (assetID string, err error)
}

type Captioner interface {
	Caption(ctx context.Context, imageURL string) (Caption, error)
}

// EntryCreator persiste la ficha "pet" en el CMS.
type EntryCreator interface {
	CreatePet(ctx context.Context, fields EntryFields) (entryID string, err error)
}

// Repository guarda el historial de lotes.
type Repository interface {
	Save(ctx context.Context, b Batch) error
	ListRecent(ctx context.Context, limit int) ([]Batch, error)
}
