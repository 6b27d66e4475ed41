package pets

import (
	"context"
	"fmt"

	"pet-adoption/internal/ports/cache"
)

const SiteConfigCacheKey = "siteConfig-query"

// SiteConfigService cachea el título e intro de la home.
type SiteConfigService struct {
	src   SiteConfigSource
	cache readThrough
}

func NewSiteConfigService(src SiteConfigSource, c cache.Cache, opts Options) *SiteConfigService {
	if opts.TTL <= 0 {
		opts.TTL = DefaultSiteConfigTTL
	}
	return &SiteConfigService{src: src, cache: newReadThrough("site_config", c, opts)}
}

func (s *SiteConfigService) Get(ctx context.Context) (SiteConfig, error) {
	if s.src == nil {
		return SiteConfig{}, ErrNotConfigured
	}
	var out SiteConfig
	err := s.cache.load(ctx, SiteConfigCacheKey, &out, func(ctx context.Context) (any, error) {
		cfg, err := s.src.SiteConfig(ctx)
		s.cache.metrics.CatalogQuery(err)
		if err != nil {
			return nil, fmt.Errorf("query site config: %w", err)
		}
		out = cfg
		return cfg, nil
	})
	if err != nil {
		return SiteConfig{}, err
	}
	return out, nil
}
