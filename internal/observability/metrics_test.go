package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveUpstream_CountsByOutcome(t *testing.T) {
	okBefore := testutil.ToFloat64(upstreamCalls.WithLabelValues(UpstreamStore, "test-op", "ok"))
	errBefore := testutil.ToFloat64(upstreamCalls.WithLabelValues(UpstreamStore, "test-op", "error"))

	ObserveUpstream(UpstreamStore, "test-op", time.Now(), nil)
	ObserveUpstream(UpstreamStore, "test-op", time.Now(), nil)
	ObserveUpstream(UpstreamStore, "test-op", time.Now(), errors.New("boom"))

	if got := testutil.ToFloat64(upstreamCalls.WithLabelValues(UpstreamStore, "test-op", "ok")) - okBefore; got != 2 {
		t.Fatalf("ok delta = %v; want 2", got)
	}
	if got := testutil.ToFloat64(upstreamCalls.WithLabelValues(UpstreamStore, "test-op", "error")) - errBefore; got != 1 {
		t.Fatalf("error delta = %v; want 1", got)
	}
	if n := testutil.CollectAndCount(upstreamLat, "gateway_upstream_call_duration_seconds"); n == 0 {
		t.Fatalf("expected latency series to be collected")
	}
}

func TestProfileCreated_Increments(t *testing.T) {
	before := testutil.ToFloat64(profilesCreated)
	ProfileCreated()
	if got := testutil.ToFloat64(profilesCreated) - before; got != 1 {
		t.Fatalf("profiles delta = %v; want 1", got)
	}
}
