package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterSearchMetrics_Idempotent(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics()

	err := prometheus.Register(SearchRequestsTotal)
	var already prometheus.AlreadyRegisteredError
	if !errors.As(err, &already) {
		t.Fatalf("expected AlreadyRegisteredError, got %v", err)
	}
}

func TestSearchMetrics_Labels(t *testing.T) {
	SearchRequestsTotal.WithLabelValues("manuscript", "ok").Inc()
	if got := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues("manuscript", "ok")); got < 1 {
		t.Errorf("search_requests_total = %f", got)
	}

	SearchDuration.WithLabelValues("type", "aggregations").Observe(0.02)
	if testutil.CollectAndCount(SearchDuration) == 0 {
		t.Error("expected search_duration_seconds observations")
	}

	before := testutil.ToFloat64(VerseGroupsTotal)
	VerseGroupsTotal.Add(3)
	if got := testutil.ToFloat64(VerseGroupsTotal) - before; got != 3 {
		t.Errorf("verse groups delta = %f", got)
	}
}
