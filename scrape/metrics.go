package scrape

import (
	"time"

	"github.com/IDGORRU/pars"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for extraction runs.
type Metrics struct {
	Registry      *prometheus.Registry
	FetchAttempts *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	RunsTotal     *prometheus.CounterVec
	RecordsTotal  *prometheus.CounterVec
	RunDuration   prometheus.Histogram
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	attempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pars_fetch_attempts_total",
			Help: "Fetch attempts by strategy and outcome.",
		},
		[]string{"strategy", "outcome"},
	)
	fetchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pars_fetch_duration_seconds",
			Help:    "Latency of fetch attempts by strategy.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)
	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pars_runs_total",
			Help: "Finished runs by mode and terminal state.",
		},
		[]string{"mode", "state"},
	)
	records := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pars_records_total",
			Help: "Records returned by completed runs, by mode.",
		},
		[]string{"mode"},
	)
	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pars_run_duration_seconds",
			Help:    "Wall time of finished runs.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
	)

	registry.MustRegister(attempts, fetchDuration, runs, records, runDuration)

	return &Metrics{
		Registry:      registry,
		FetchAttempts: attempts,
		FetchDuration: fetchDuration,
		RunsTotal:     runs,
		RecordsTotal:  records,
		RunDuration:   runDuration,
	}
}

// ObserveFetch records one fetch attempt.
func (m *Metrics) ObserveFetch(s pars.Strategy, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.FetchAttempts.WithLabelValues(string(s), outcome).Inc()
	m.FetchDuration.WithLabelValues(string(s)).Observe(d.Seconds())
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(res *pars.RunResult) {
	if m == nil || res == nil {
		return
	}
	m.RunsTotal.WithLabelValues(string(res.Mode), string(res.State)).Inc()
	m.RecordsTotal.WithLabelValues(string(res.Mode)).Add(float64(len(res.Records)))
	m.RunDuration.Observe(res.Duration.Seconds())
}
