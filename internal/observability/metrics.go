package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upstream names used as metric labels.
const (
	UpstreamIdentity   = "identity"
	UpstreamStore      = "store"
	UpstreamCompletion = "completion"
)

var (
	upstreamCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_upstream_calls_total",
			Help: "Calls issued to external systems by upstream, operation and outcome.",
		},
		[]string{"upstream", "op", "outcome"},
	)

	upstreamLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gateway_upstream_call_duration_seconds",
			Help: "Duration of calls to external systems in seconds.",
			// completions routinely take several seconds
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"upstream", "op"},
	)

	profilesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_profiles_created_total",
			Help: "Profile records written on first login.",
		},
	)
)

func init() {
	prometheus.MustRegister(upstreamCalls, upstreamLat, profilesCreated)
}

// ObserveUpstream records one call to upstream/op that started at start.
// Typical use: defer func() { ObserveUpstream(UpstreamStore, "list", start, err) }().
func ObserveUpstream(upstream, op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamCalls.WithLabelValues(upstream, op, outcome).Inc()
	upstreamLat.WithLabelValues(upstream, op).Observe(time.Since(start).Seconds())
}

// ProfileCreated counts a first-login profile write.
func ProfileCreated() { profilesCreated.Inc() }
