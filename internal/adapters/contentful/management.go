package contentful

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/uploads"
	"pet-adoption/internal/platform/httpclient"
)

// ManagementClient escribe vía Content Management API. Implementa
// uploads.AssetPublisher y uploads.EntryCreator.
type ManagementClient struct {
	cfg  Config
	http *httpclient.Client
}

func NewManagementClient(cfg Config) (*ManagementClient, error) {
	cfg = cfg.withDefaults()
	if !cfg.ManagementConfigured() {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.NewWithTransport(cfg.Timeout, cfg.Transport).WithBaseURL(cfg.CMAURL, cfg.ManagementToken)
	if err != nil {
		return nil, err
	}
	return &ManagementClient{cfg: cfg, http: hc}, nil
}

func (c *ManagementClient) do(ctx context.Context, method, path string, headers map[string]string, in, out any) error {
	err := c.http.Do(ctx, httpclient.Request{
		Method:      method,
		Path:        c.cfg.envPath(path),
		Headers:     headers,
		Body:        in,
		ContentType: contentTypeCMA,
	}, out)
	return wrapStatus(err)
}

func version(v int) map[string]string {
	return map[string]string{"X-Contentful-Version": strconv.Itoa(v)}
}

// Publish crea el asset desde la URL pública, lo procesa, espera a que tenga
// URL propia y lo publica. Devuelve el ID del asset.
func (c *ManagementClient) Publish(ctx context.Context, img uploads.Image) (string, error) {
	loc := c.cfg.Locale
	var created cmaAsset
	err := c.do(ctx, http.MethodPost, "/assets", nil, cmaAsset{Fields: cmaAssetFields{
		Title: localized[string]{loc: img.FileName},
		File: localized[cmaUploadFile]{loc: {
			ContentType: img.ContentType,
			FileName:    img.FileName,
			Upload:      img.URL,
		}},
	}}, &created)
	if err != nil {
		return "", fmt.Errorf("create asset: %w", err)
	}
	if created.Sys == nil || created.Sys.ID == "" {
		return "", fmt.Errorf("create asset: %w: missing sys.id", ErrUpstream)
	}
	id := created.Sys.ID

	if err := c.do(ctx, http.MethodPut, "/assets/"+id+"/files/"+loc+"/process", version(created.Sys.Version), nil, nil); err != nil {
		return "", fmt.Errorf("process asset %s: %w", id, err)
	}

	processed, err := c.waitProcessed(ctx, id)
	if err != nil {
		return "", err
	}

	if err := c.do(ctx, http.MethodPut, "/assets/"+id+"/published", version(processed.Sys.Version), nil, nil); err != nil {
		return "", fmt.Errorf("publish asset %s: %w", id, err)
	}
	return id, nil
}

func (c *ManagementClient) waitProcessed(ctx context.Context, id string) (cmaAsset, error) {
	for attempt := 1; ; attempt++ {
		var a cmaAsset
		if err := c.do(ctx, http.MethodGet, "/assets/"+id, nil, nil, &a); err != nil {
			return cmaAsset{}, fmt.Errorf("get asset %s: %w", id, err)
		}
		if f, ok := a.Fields.File[c.cfg.Locale]; ok && strings.TrimSpace(f.URL) != "" && a.Sys != nil {
			return a, nil
		}
		if attempt >= c.cfg.PollAttempts {
			return cmaAsset{}, fmt.Errorf("%w: %s after %d checks", ErrNotProcessed, id, attempt)
		}

		t := time.NewTimer(c.cfg.PollInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return cmaAsset{}, ctx.Err()
		case <-t.C:
		}
	}
}

// CreatePet crea la ficha "pet" (queda en borrador).
func (c *ManagementClient) CreatePet(ctx context.Context, f uploads.EntryFields) (string, error) {
	loc := c.cfg.Locale
	body := cmaEntry{Fields: cmaEntryFields{
		Title:       localized[string]{loc: f.Title},
		Description: localized[*pets.Document]{loc: f.Description},
		Species:     localized[string]{loc: f.Species},
		Breed:       localized[string]{loc: f.Breed},
		Color:       localized[string]{loc: f.Color},
		Size:        localized[string]{loc: f.Size},
		Gender:      localized[string]{loc: f.Gender},
		Pictures:    localized[[]link]{loc: {assetLink(f.PictureAssetID)}},
	}}

	var created cmaEntry
	headers := map[string]string{"X-Contentful-Content-Type": pets.ContentTypePet}
	if err := c.do(ctx, http.MethodPost, "/entries", headers, body, &created); err != nil {
		return "", fmt.Errorf("create entry: %w", err)
	}
	if created.Sys == nil || created.Sys.ID == "" {
		return "", fmt.Errorf("create entry: %w: missing sys.id", ErrUpstream)
	}
	return created.Sys.ID, nil
}
