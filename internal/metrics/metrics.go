package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dealpulse"

// Upstream fetch outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeNoData = "no_data"
	OutcomeError  = "error"
)

var (
	// RunsTotal counts finished analysis runs by terminal status (completed|failed).
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Finished analysis runs by terminal status.",
	}, []string{"status"})

	// RunDuration observes wall time of a run from start to terminal event.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of analysis runs.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	})

	// UpstreamFetchTotal counts daily archive downloads by outcome.
	UpstreamFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_fetch_total",
		Help:      "Daily archive fetches by outcome (ok|no_data|error).",
	}, []string{"outcome"})

	DealsParsedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deals_parsed_total",
		Help:      "Buy-side deals accepted from archive files.",
	})

	RowsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_skipped_total",
		Help:      "Archive rows skipped as malformed or not buy-side.",
	})
)

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
