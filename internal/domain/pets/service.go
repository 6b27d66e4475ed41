package pets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/ports/cache"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotConfigured = errors.New("catalog not configured")
)

const (
	DefaultPageTTL       = 3 * time.Hour
	DefaultFiltersTTL    = 3 * time.Hour
	DefaultSiteConfigTTL = 30 * time.Minute
	DefaultMaxPages      = 20
)

// Options comunes a Service, Aggregator y SiteConfigService.
type Options struct {
	TTL     time.Duration
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

// Service es el Pet Query Service: read-through sobre el catálogo.
type Service struct {
	catalog Catalog
	cache   readThrough
}

func NewService(catalog Catalog, c cache.Cache, opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultPageTTL
	}
	return &Service{
		catalog: catalog,
		cache:   newReadThrough("pets", c, opts),
	}
}

// Search devuelve la página pedida. Un hit se devuelve tal cual, sin revalidar.
func (s *Service) Search(ctx context.Context, q Query) (PagedResult, error) {
	if q.Skip < 0 {
		return PagedResult{}, ErrInvalidInput
	}
	if s.catalog == nil {
		return PagedResult{}, ErrNotConfigured
	}
	d := q.Descriptor()

	var out PagedResult
	err := s.cache.load(ctx, d.CacheKey(), &out, func(ctx context.Context) (any, error) {
		raw, err := s.catalog.Entries(ctx, d)
		s.cache.metrics.CatalogQuery(err)
		if err != nil {
			return nil, fmt.Errorf("query catalog: %w", err)
		}
		res := toPagedResult(raw)
		out = res
		return res, nil
	})
	if err != nil {
		return PagedResult{}, err
	}
	return out, nil
}

// readThrough encapsula get -> miss -> compute -> set con TTL fijo.
// Los errores del cache no se propagan: se loguean, se cuentan y cuentan como miss.
type readThrough struct {
	name    string
	cache   cache.Cache
	ttl     time.Duration
	log     logger.Logger
	metrics *metrics.Metrics
}

func newReadThrough(name string, c cache.Cache, opts Options) readThrough {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return readThrough{
		name:    name,
		cache:   c,
		ttl:     opts.TTL,
		log:     log.With(logger.Fields{"component": name}),
		metrics: opts.Metrics,
	}
}

// load decodifica el valor cacheado en dst. En miss, compute debe dejar el
// resultado en dst y devolverlo para escribirlo en el cache.
func (rt readThrough) load(ctx context.Context, key string, dst any, compute func(context.Context) (any, error)) error {
	if rt.cache != nil {
		raw, found, err := rt.cache.Get(ctx, key)
		switch {
		case err != nil:
			rt.metrics.CacheResult(rt.name, "error")
			rt.log.Warn("cache read failed, treating as miss", logger.Fields{"key": key, "error": err})
		case found:
			derr := json.Unmarshal(raw, dst)
			if derr == nil {
				rt.metrics.CacheResult(rt.name, "hit")
				return nil
			}
			rt.metrics.CacheResult(rt.name, "error")
			rt.log.Warn("cache entry undecodable, treating as miss", logger.Fields{"key": key, "error": derr})
		default:
			rt.metrics.CacheResult(rt.name, "miss")
		}
	}

	v, err := compute(ctx)
	if err != nil {
		return err
	}
	if rt.cache == nil {
		return nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := rt.cache.Set(ctx, key, b, rt.ttl); err != nil {
		rt.metrics.CacheResult(rt.name, "write_error")
		rt.log.Warn("cache write failed", logger.Fields{"key": key, "error": err})
	}
	return nil
}
