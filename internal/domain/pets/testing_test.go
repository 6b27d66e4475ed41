package pets

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"
)

// -------------------------
// Fakes (cache + catálogo)
// -------------------------

type fakeCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
	gets   int
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = append([]byte(nil), value...)
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.data))
	for k := range c.data {
		out = append(out, k)
	}
	return out
}

// fakeCatalog pagina un slice de entradas con un limit fijo.
type fakeCatalog struct {
	mu      sync.Mutex
	entries []RawEntry
	assets  map[string]Picture
	limit   int
	err     error

	calls []Descriptor
}

func newFakeCatalog(n, limit int) *fakeCatalog {
	c := &fakeCatalog{limit: limit, assets: map[string]Picture{}}
	for i := 0; i < n; i++ {
		id := strconv.Itoa(i)
		c.entries = append(c.entries, RawEntry{
			ID:      "pet-" + id,
			Title:   "Script - " + id,
			Species: []string{"cachorro", "gato"}[i%2],
			Breed:   []string{"Vira Lata", "Siamês", "Poodle"}[i%3],
			Gender:  []string{"macho", "fêmea", ""}[i%3],
			Size:    "médio",
		})
	}
	return c
}

func (c *fakeCatalog) Entries(_ context.Context, d Descriptor) (RawPage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, d)
	if c.err != nil {
		return RawPage{}, c.err
	}
	start := min(d.Skip, len(c.entries))
	end := min(start+c.limit, len(c.entries))
	return RawPage{
		Total:  len(c.entries),
		Skip:   d.Skip,
		Limit:  c.limit,
		Items:  append([]RawEntry(nil), c.entries[start:end]...),
		Assets: c.assets,
	}, nil
}

func (c *fakeCatalog) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

var errCatalogDown = errors.New("catalog: down")
