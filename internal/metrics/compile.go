package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Enrichment resolver names used as metric labels.
const (
	EnrichArticleLookup = "article_lookup"
	EnrichScrape        = "url_scrape"
	EnrichMedia         = "media_hash"
)

// Query compiler Prometheus metrics.
var (
	compileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "artidex",
			Name:      "query_compile_duration_seconds",
			Help:      "Filter/sort query compilation duration in seconds, enrichment included",
			Buckets:   []float64{0.001, 0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	enrichmentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artidex",
			Name:      "enrichment_total",
			Help:      "Enrichment resolver outcomes by resolver and status",
		},
		[]string{"resolver", "status"},
	)

	scrapeCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artidex",
			Name:      "scrape_cache_total",
			Help:      "URL scrape cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var compileMetricsRegistered bool

// RegisterCompileMetrics registers compiler metrics. Must be called once from main.
func RegisterCompileMetrics() {
	if compileMetricsRegistered {
		return
	}
	prometheus.MustRegister(compileDuration)
	prometheus.MustRegister(enrichmentTotal)
	prometheus.MustRegister(scrapeCacheTotal)
	compileMetricsRegistered = true
}

// ObserveCompile records one compilation's duration.
func ObserveCompile(d time.Duration) {
	compileDuration.Observe(d.Seconds())
}

// CountEnrichment records one enrichment resolver outcome.
func CountEnrichment(resolver string, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	enrichmentTotal.WithLabelValues(resolver, status).Inc()
}

// CountScrapeCache records a scrape cache hit or miss.
func CountScrapeCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	scrapeCacheTotal.WithLabelValues(result).Inc()
}
