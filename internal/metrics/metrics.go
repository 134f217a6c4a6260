package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for a crawl run. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Registry         *prometheus.Registry
	AttemptsTotal    *prometheus.CounterVec
	CacheHitsTotal   *prometheus.CounterVec
	ItemsTotal       *prometheus.CounterVec
	DownloadDuration prometheus.Histogram
	MapAssetAttempts *prometheus.CounterVec
}

// New constructs and registers all collectors on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	attempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_attempts_total",
			Help: "Image acquisition attempts by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)
	cacheHits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_cache_hits_total",
			Help: "Item categories satisfied by an existing local file.",
		},
		[]string{"category"},
	)
	items := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_items_total",
			Help: "Terminal item category states.",
		},
		[]string{"category", "state"},
	)
	downloadDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crawl_download_duration_seconds",
			Help:    "Latency of image downloads.",
			Buckets: prometheus.DefBuckets,
		},
	)
	mapAttempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_map_asset_attempts_total",
			Help: "Shared map asset download attempts by outcome.",
		},
		[]string{"outcome"},
	)

	registry.MustRegister(attempts, cacheHits, items, downloadDuration, mapAttempts)

	return &Metrics{
		Registry:         registry,
		AttemptsTotal:    attempts,
		CacheHitsTotal:   cacheHits,
		ItemsTotal:       items,
		DownloadDuration: downloadDuration,
		MapAssetAttempts: mapAttempts,
	}
}

func (m *Metrics) IncAttempt(provider, outcome string) {
	if m == nil {
		return
	}
	m.AttemptsTotal.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) IncCacheHit(category string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(category).Inc()
}

func (m *Metrics) IncItem(category, state string) {
	if m == nil {
		return
	}
	m.ItemsTotal.WithLabelValues(category, state).Inc()
}

func (m *Metrics) ObserveDownload(d time.Duration) {
	if m == nil {
		return
	}
	m.DownloadDuration.Observe(d.Seconds())
}

func (m *Metrics) IncMapAttempt(outcome string) {
	if m == nil {
		return
	}
	m.MapAssetAttempts.WithLabelValues(outcome).Inc()
}
