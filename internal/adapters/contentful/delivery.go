package contentful

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/platform/httpclient"
)

const contentTypeSiteConfig = "siteConfig"

// DeliveryClient lee del CDN (Content Delivery API). Implementa pets.Catalog
// y pets.SiteConfigSource.
type DeliveryClient struct {
	cfg  Config
	http *httpclient.Client
}

func NewDeliveryClient(cfg Config) (*DeliveryClient, error) {
	cfg = cfg.withDefaults()
	if !cfg.DeliveryConfigured() {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.NewWithTransport(cfg.Timeout, cfg.Transport).WithBaseURL(cfg.CDNURL, cfg.DeliveryToken)
	if err != nil {
		return nil, err
	}
	return &DeliveryClient{cfg: cfg, http: hc}, nil
}

// entriesQuery traduce el descriptor a los query params de la API.
func entriesQuery(d pets.Descriptor) url.Values {
	q := url.Values{}
	q.Set("content_type", d.ContentType)
	for _, f := range pets.FilterableFields {
		if vals := d.In(f); len(vals) > 0 {
			q.Set("fields."+string(f)+"[in]", strings.Join(vals, ","))
		}
	}
	q.Set("skip", strconv.Itoa(d.Skip))
	if d.Query != "" {
		q.Set("query", d.Query)
	}
	return q
}

func (c *DeliveryClient) Entries(ctx context.Context, d pets.Descriptor) (pets.RawPage, error) {
	var resp entriesResponse
	if err := c.get(ctx, entriesQuery(d), &resp); err != nil {
		return pets.RawPage{}, err
	}

	out := pets.RawPage{
		Total:  resp.Total,
		Skip:   resp.Skip,
		Limit:  resp.Limit,
		Items:  make([]pets.RawEntry, 0, len(resp.Items)),
		Assets: make(map[string]pets.Picture, len(resp.Includes.Asset)),
	}
	for _, a := range resp.Includes.Asset {
		out.Assets[a.Sys.ID] = a.toPicture()
	}
	for _, it := range resp.Items {
		var f petFields
		if err := json.Unmarshal(it.Fields, &f); err != nil {
			return pets.RawPage{}, fmt.Errorf("%w: decode entry %s: %w", ErrUpstream, it.Sys.ID, err)
		}
		e := pets.RawEntry{
			ID:          it.Sys.ID,
			Title:       f.Title,
			Species:     f.Species,
			Breed:       f.Breed,
			Color:       f.Color,
			Size:        f.Size,
			Gender:      f.Gender,
			Description: f.Description,
		}
		for _, l := range f.Pictures {
			e.PictureIDs = append(e.PictureIDs, l.Sys.ID)
		}
		out.Items = append(out.Items, e)
	}
	return out, nil
}

// SiteConfig lee la primera entrada siteConfig.
func (c *DeliveryClient) SiteConfig(ctx context.Context) (pets.SiteConfig, error) {
	q := url.Values{}
	q.Set("content_type", contentTypeSiteConfig)
	q.Set("limit", "1")

	var resp entriesResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return pets.SiteConfig{}, err
	}
	if len(resp.Items) == 0 {
		return pets.SiteConfig{}, fmt.Errorf("%w: no siteConfig entry", ErrUpstream)
	}
	var f siteConfigFields
	if err := json.Unmarshal(resp.Items[0].Fields, &f); err != nil {
		return pets.SiteConfig{}, fmt.Errorf("%w: decode siteConfig: %w", ErrUpstream, err)
	}
	return pets.SiteConfig{Title: f.Title, Intro: f.IntroRichText}, nil
}

func (c *DeliveryClient) get(ctx context.Context, q url.Values, out any) error {
	err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   c.cfg.envPath("/entries"),
		Query:  q,
	}, out)
	return wrapStatus(err)
}

func wrapStatus(err error) error {
	if err == nil {
		return nil
	}
	switch code := httpclient.StatusCode(err); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status=%d", ErrUnauthorized, code)
	case code != 0:
		return fmt.Errorf("%w: status=%d: %w", ErrUpstream, code, err)
	default:
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
}
