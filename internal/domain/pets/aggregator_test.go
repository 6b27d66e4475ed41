package pets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_StopsWhenTotalReached(t *testing.T) {
	cat := newFakeCatalog(7, 3) // 3 páginas: 3 + 3 + 1
	svc := NewService(cat, newFakeCache(), Options{})
	agg := NewAggregator(svc, newFakeCache(), 20, Options{})

	all, err := agg.Aggregate(context.Background())
	require.NoError(t, err)

	assert.Len(t, all.Items, 7)
	assert.Equal(t, 7, all.Total)
	require.Equal(t, 3, cat.callCount())
	assert.Equal(t, []int{0, 3, 6}, []int{cat.calls[0].Skip, cat.calls[1].Skip, cat.calls[2].Skip})
}

func TestAggregate_CeilingBindsFirst(t *testing.T) {
	cat := newFakeCatalog(50, 5) // 10 páginas disponibles
	svc := NewService(cat, newFakeCache(), Options{})
	agg := NewAggregator(svc, newFakeCache(), 4, Options{})

	all, err := agg.Aggregate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, cat.callCount())
	assert.Len(t, all.Items, 20)
	assert.Equal(t, 50, all.Total)
}

func TestAggregate_EmptyPageStopsLoop(t *testing.T) {
	cat := newFakeCatalog(4, 2)
	// el catálogo dice tener más de lo que devuelve
	cat.entries = cat.entries[:3]
	svc := NewService(&inflatedTotal{fakeCatalog: cat, total: 10}, nil, Options{})
	agg := NewAggregator(svc, nil, 20, Options{})

	all, err := agg.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
	assert.Equal(t, 3, cat.callCount())
}

type inflatedTotal struct {
	*fakeCatalog
	total int
}

func (c *inflatedTotal) Entries(ctx context.Context, d Descriptor) (RawPage, error) {
	p, err := c.fakeCatalog.Entries(ctx, d)
	p.Total = c.total
	return p, err
}

func TestAggregate_PropagatesPageErrors(t *testing.T) {
	cat := newFakeCatalog(4, 2)
	cat.err = errCatalogDown
	agg := NewAggregator(NewService(cat, nil, Options{}), nil, 20, Options{})

	_, err := agg.Aggregate(context.Background())
	assert.ErrorIs(t, err, errCatalogDown)
}

func TestFilterUniverse_DerivedAndCachedSeparately(t *testing.T) {
	cat := newFakeCatalog(6, 4)
	pageCache := newFakeCache()
	filtersCache := newFakeCache()
	agg := NewAggregator(NewService(cat, pageCache, Options{}), filtersCache, 20, Options{})
	ctx := context.Background()

	u, err := agg.FilterUniverse(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"cachorro", "gato"}, u[FieldSpecies])
	assert.Equal(t, []string{"Vira Lata", "Siamês", "Poodle"}, u[FieldBreed]) // orden de aparición
	assert.Equal(t, []string{"macho", "fêmea"}, u[FieldGender])                 // vacíos descartados
	assert.Equal(t, []string{"médio"}, u[FieldSize])
	assert.Empty(t, u[FieldColor])

	assert.Equal(t, []string{FiltersCacheKey}, filtersCache.keys())
	assert.Len(t, pageCache.keys(), 2)

	// segunda llamada: sale del cache de filtros, sin tocar el catálogo
	calls := cat.callCount()
	again, err := agg.FilterUniverse(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, again)
	assert.Equal(t, calls, cat.callCount())
}

func TestSummary_ReportsTruncation(t *testing.T) {
	cat := newFakeCatalog(10, 2)
	agg := NewAggregator(NewService(cat, nil, Options{}), nil, 2, Options{})

	s, err := agg.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Truncated)
	assert.Equal(t, 4, s.Scanned)
	assert.Equal(t, 10, s.Total)
}

func TestFilterUniverse_Sorted(t *testing.T) {
	u := FilterUniverse{FieldBreed: {"Vira Lata", "Poodle", "Siamês"}}
	s := u.Sorted()

	assert.Equal(t, []string{"Poodle", "Siamês", "Vira Lata"}, s[FieldBreed])
	assert.Equal(t, []string{"Vira Lata", "Poodle", "Siamês"}, u[FieldBreed])
}
