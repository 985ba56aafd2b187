package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	GraphRequests   *prometheus.CounterVec
	GraphRetries    *prometheus.CounterVec
	GraphDuration   *prometheus.HistogramVec
	PagesFetched    *prometheus.CounterVec
	NestedScans     *prometheus.CounterVec
	EntitiesHarvest *prometheus.GaugeVec
	Runs            *prometheus.CounterVec
	RunDuration     *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		GraphRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pns_graph_requests_total",
			Help: "GraphQL requests by operation and outcome",
		}, []string{"operation", "outcome"}),
		GraphRetries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pns_graph_retries_total",
			Help: "GraphQL requests retried after a transient failure",
		}, []string{"operation"}),
		GraphDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pns_graph_request_duration_seconds",
			Help:    "Duration of individual GraphQL request attempts",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		PagesFetched: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pns_harvest_pages_total",
			Help: "Pages consumed by harvest cursors",
		}, []string{"family", "stage"}),
		NestedScans: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pns_harvest_nested_scans_total",
			Help: "Continuation scans triggered by truncated child collections",
		}, []string{"family"}),
		EntitiesHarvest: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pns_harvest_entities",
			Help: "Entity count of the last snapshot built per kind",
		}, []string{"kind"}),
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pns_harvest_runs_total",
			Help: "Harvest runs by kind and final status",
		}, []string{"kind", "status"}),
		RunDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pns_harvest_run_duration_seconds",
			Help:    "Wall time of completed harvest runs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"kind"}),
	}
}

// Nop returns metrics registered with a private registry, for tests and
// commands that do not expose them.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}

// ObserveRequest records one GraphQL attempt.
func (m *Metrics) ObserveRequest(operation, outcome string, d time.Duration) {
	m.GraphRequests.WithLabelValues(operation, outcome).Inc()
	m.GraphDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObservePage records one consumed page.
func (m *Metrics) ObservePage(family, stage string) {
	m.PagesFetched.WithLabelValues(family, stage).Inc()
}

// ObserveRun records the outcome of a harvest run.
func (m *Metrics) ObserveRun(kind, status string, entities int, d time.Duration) {
	m.Runs.WithLabelValues(kind, status).Inc()
	if status == "succeeded" {
		m.EntitiesHarvest.WithLabelValues(kind).Set(float64(entities))
		m.RunDuration.WithLabelValues(kind).Observe(d.Seconds())
	}
}
