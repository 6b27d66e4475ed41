package s3

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pet-adoption/internal/domain/uploads"
)

var ErrNotConfigured = errors.New("object storage not configured")

const DefaultEndpoint = "s3.amazonaws.com"

type Config struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint sin esquema (p.ej. "localhost:9000" para MinIO).
	Endpoint string
	Insecure bool
}

func (c Config) IsConfigured() bool {
	return strings.TrimSpace(c.Bucket) != "" &&
		strings.TrimSpace(c.AccessKey) != "" &&
		strings.TrimSpace(c.SecretKey) != ""
}

// postSigner es el subconjunto de *minio.Client que usamos.
type postSigner interface {
	PresignedPostPolicy(ctx context.Context, p *minio.PostPolicy) (*url.URL, map[string]string, error)
}

// Presigner genera presigned POSTs para subir fotos directo al bucket.
// Implementa uploads.Presigner.
type Presigner struct {
	bucket string
	client postSigner
	now    func() time.Time
}

func New(cfg Config) (*Presigner, error) {
	if !cfg.IsConfigured() {
		return nil, ErrNotConfigured
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: !cfg.Insecure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return newWithClient(cfg.Bucket, mc), nil
}

func newWithClient(bucket string, c postSigner) *Presigner {
	return &Presigner{bucket: strings.TrimSpace(bucket), client: c, now: time.Now}
}

func (p *Presigner) PresignPost(ctx context.Context, req uploads.PresignRequest) (uploads.PresignedPost, error) {
	policy := minio.NewPostPolicy()
	if err := policy.SetBucket(p.bucket); err != nil {
		return uploads.PresignedPost{}, err
	}
	if err := policy.SetKey(req.Key); err != nil {
		return uploads.PresignedPost{}, err
	}
	if err := policy.SetExpires(p.now().UTC().Add(req.Expiry)); err != nil {
		return uploads.PresignedPost{}, err
	}
	if err := policy.SetContentType(req.ContentType); err != nil {
		return uploads.PresignedPost{}, err
	}
	if err := policy.SetContentLengthRange(0, req.MaxBytes); err != nil {
		return uploads.PresignedPost{}, err
	}

	u, fields, err := p.client.PresignedPostPolicy(ctx, policy)
	if err != nil {
		return uploads.PresignedPost{}, fmt.Errorf("presign post %s: %w", req.Key, err)
	}
	return uploads.PresignedPost{URL: u.String(), Fields: fields}, nil
}
