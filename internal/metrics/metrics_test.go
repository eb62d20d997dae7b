package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordLookup(ResultHit)
	m.RecordLookup(ResultHit)
	m.RecordLookup(ResultMiss)
	m.RecordFetch(StatusOK, 150*time.Millisecond)
	m.SetArticles(42)
	m.RecordRequest("GET", "/api/articles", "200", 5*time.Millisecond)

	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues(ResultHit)); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}

	if got := testutil.ToFloat64(m.Fetches.WithLabelValues(StatusOK)); got != 1 {
		t.Errorf("fetches = %v, want 1", got)
	}

	if got := testutil.ToFloat64(m.Articles); got != 42 {
		t.Errorf("articles = %v, want 42", got)
	}

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/articles", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics

	m.RecordLookup(ResultMiss)
	m.RecordFetch(StatusError, time.Second)
	m.SetArticles(1)
	m.RecordRequest("GET", "/", "200", time.Millisecond)
}
