package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := New()

	m.IncAttempt("bing", "success")
	m.IncAttempt("bing", "success")
	m.IncAttempt("duckduckgo", "no_candidate")
	m.IncCacheHit("food")
	m.IncItem("hotel", "exhausted")
	m.IncMapAttempt("failure")
	m.ObserveDownload(120 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AttemptsTotal.WithLabelValues("bing", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AttemptsTotal.WithLabelValues("duckduckgo", "no_candidate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("food")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ItemsTotal.WithLabelValues("hotel", "exhausted")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.DownloadDuration))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncAttempt("bing", "success")
		m.IncCacheHit("food")
		m.IncItem("food", "success")
		m.ObserveDownload(time.Second)
		m.IncMapAttempt("success")
	})
}
