package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordRefresh("week", "synthetic")
	r.RecordRefresh("week", "synthetic")
	r.RecordDiscard("ctr-forecast")
	r.RecordError("network_failure")
	r.RecordLatency("forecast", 0.2)

	if got := testutil.ToFloat64(r.refreshes.WithLabelValues("week", "synthetic")); got != 2 {
		t.Fatalf("refreshes = %v", got)
	}
	if got := testutil.ToFloat64(r.discards.WithLabelValues("ctr-forecast")); got != 1 {
		t.Fatalf("discards = %v", got)
	}
	if n := testutil.CollectAndCount(r.latency); n != 1 {
		t.Fatalf("latency series = %d", n)
	}
}
