package pets

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/cache"
)

// FiltersCacheKey es la clave del Filter Universe, independiente del cache de páginas.
const FiltersCacheKey = "all-filters"

// FilterUniverse son los valores distintos por atributo filtrable, en orden de aparición.
type FilterUniverse map[Field][]string

// Sorted devuelve una copia con cada lista ordenada.
func (u FilterUniverse) Sorted() FilterUniverse {
	out := make(FilterUniverse, len(u))
	for f, vals := range u {
		out[f] = slices.Sorted(slices.Values(vals))
	}
	return out
}

// Derive recorre las mascotas y junta los valores no vacíos de cada atributo.
func Derive(items []Pet) FilterUniverse {
	out := make(FilterUniverse, len(FilterableFields))
	seen := make(map[Field]map[string]struct{}, len(FilterableFields))
	for _, f := range FilterableFields {
		out[f] = []string{}
		seen[f] = map[string]struct{}{}
	}
	for _, p := range items {
		for _, f := range FilterableFields {
			v := p.Value(f)
			if v == "" {
				continue
			}
			if _, dup := seen[f][v]; dup {
				continue
			}
			seen[f][v] = struct{}{}
			out[f] = append(out[f], v)
		}
	}
	return out
}

// FilterSummary es lo que se cachea bajo FiltersCacheKey.
type FilterSummary struct {
	Filters   FilterUniverse `json:"filters"`
	Total     int            `json:"total"`
	Scanned   int            `json:"scanned"`
	Truncated bool           `json:"truncated"`
}

// PageSource entrega páginas del catálogo. *Service la implementa.
type PageSource interface {
	Search(ctx context.Context, q Query) (PagedResult, error)
}

// Aggregator recorre el catálogo completo (sin filtros) página por página.
type Aggregator struct {
	pages    PageSource
	maxPages int
	cache    readThrough
}

func NewAggregator(pages PageSource, c cache.Cache, maxPages int, opts Options) *Aggregator {
	if opts.TTL <= 0 {
		opts.TTL = DefaultFiltersTTL
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Aggregator{
		pages:    pages,
		maxPages: maxPages,
		cache:    newReadThrough("filters", c, opts),
	}
}

// Aggregate acumula páginas en secuencia hasta llegar al total o al tope de
// páginas (la primera cuenta). Si el tope corta antes, el resultado queda truncado.
func (a *Aggregator) Aggregate(ctx context.Context) (PagedResult, error) {
	page, err := a.pages.Search(ctx, Query{})
	if err != nil {
		return PagedResult{}, fmt.Errorf("aggregate page 1: %w", err)
	}

	acc := PagedResult{
		Items: slices.Clone(page.Items),
		Total: page.Total,
		Limit: page.Limit,
		Skip:  0,
	}
	fetched := 1
	for len(acc.Items) < page.Total && fetched < a.maxPages {
		if page.Limit <= 0 || len(page.Items) == 0 {
			break
		}
		next := page.Skip + page.Limit
		page, err = a.pages.Search(ctx, Query{Skip: next})
		if err != nil {
			return PagedResult{}, fmt.Errorf("aggregate page %d: %w", fetched+1, err)
		}
		fetched++
		acc.Items = append(acc.Items, page.Items...)
		acc.Total = page.Total
	}

	a.cache.metrics.AggregatePages(fetched)
	if len(acc.Items) < acc.Total {
		a.cache.log.Warn("catalog aggregation truncated", logger.Fields{
			"pages":         fetched,
			"scanned":       len(acc.Items),
			"total":         acc.Total,
			"catalog_limit": a.maxPages * acc.Limit,
		})
	}
	return acc, nil
}

// Summary devuelve el Filter Universe (sin ordenar) con el total del catálogo.
func (a *Aggregator) Summary(ctx context.Context) (FilterSummary, error) {
	var out FilterSummary
	err := a.cache.load(ctx, FiltersCacheKey, &out, func(ctx context.Context) (any, error) {
		all, err := a.Aggregate(ctx)
		if err != nil {
			return nil, err
		}
		out = FilterSummary{
			Filters:   Derive(all.Items),
			Total:     all.Total,
			Scanned:   len(all.Items),
			Truncated: len(all.Items) < all.Total,
		}
		return out, nil
	})
	if err != nil {
		return FilterSummary{}, err
	}
	if out.Filters == nil {
		out.Filters = FilterUniverse{}
	}
	return out, nil
}

func (a *Aggregator) FilterUniverse(ctx context.Context) (FilterUniverse, error) {
	s, err := a.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return maps.Clone(s.Filters), nil
}
