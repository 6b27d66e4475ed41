package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pet_adoption"

// Metrics agrupa los contadores del servicio. Un *Metrics nil es válido (no-op).
type Metrics struct {
	registry *prometheus.Registry

	cacheRequests  *prometheus.CounterVec
	catalogQueries *prometheus.CounterVec
	uploadFiles    *prometheus.CounterVec
	aggregatePages prometheus.Histogram
}

// New registra los contadores en un registry propio (evita colisiones entre tests).
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Read-through cache lookups by cache name and result (hit, miss, error, write_error).",
		}, []string{"cache", "result"}),
		catalogQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_queries_total",
			Help:      "Queries sent to the content store, by outcome.",
		}, []string{"outcome"}),
		uploadFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_files_total",
			Help:      "Batch upload files by terminal state.",
		}, []string{"state"}),
		aggregatePages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregate_pages",
			Help:      "Pages fetched per filter-universe aggregation.",
			Buckets:   []float64{1, 2, 5, 10, 15, 20, 50},
		}),
	}

	reg.MustRegister(
		m.cacheRequests,
		m.catalogQueries,
		m.uploadFiles,
		m.aggregatePages,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) CacheResult(cache, result string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) CatalogQuery(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.catalogQueries.WithLabelValues(outcome).Inc()
}

func (m *Metrics) UploadFile(state string) {
	if m == nil {
		return
	}
	m.uploadFiles.WithLabelValues(state).Inc()
}

func (m *Metrics) AggregatePages(n int) {
	if m == nil {
		return
	}
	m.aggregatePages.Observe(float64(n))
}

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry se usa en tests para leer valores.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
