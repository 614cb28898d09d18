// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// The ETL is a batch job with no long-lived HTTP listener, so collectors are
// kept in a private registry and pushed to a Pushgateway on Flush. The
// Pushgateway "job" grouping key carries the pipeline job name; the
// remaining labels become Prometheus labels.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"footballetl/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // etl_step_total
	stepDuration *prometheus.SummaryVec // etl_step_duration_seconds
	docCounter   *prometheus.CounterVec // etl_documents_total
	rowCounter   *prometheus.CounterVec // etl_table_rows_total
}

var _ metrics.Backend = (*Backend)(nil)

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName: the Pushgateway "job" name (usually the pipeline job).
// gatewayURL: base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "etl"
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		stepCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_step_total",
				Help: "Total number of ETL step executions, partitioned by step and status.",
			},
			[]string{"step", "status"},
		),
		stepDuration: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       "etl_step_duration_seconds",
				Help:       "Duration of ETL steps in seconds, partitioned by step and status.",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{"step", "status"},
		),
		docCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_documents_total",
				Help: "Source documents fetched, partitioned by document kind.",
			},
			[]string{"kind"},
		),
		rowCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_table_rows_total",
				Help: "Rows loaded, partitioned by destination table.",
			},
			[]string{"table"},
		),
	}

	for name, c := range map[string]prometheus.Collector{
		"step counter":     b.stepCounter,
		"step summary":     b.stepDuration,
		"document counter": b.docCounter,
		"row counter":      b.rowCounter,
	} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}
	return b, nil
}

// IncCounter routes name to its collector. Unknown names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "etl_step_total":
		if b.stepCounter != nil {
			b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
		}
	case "etl_documents_total":
		if b.docCounter != nil {
			b.docCounter.WithLabelValues(labels["kind"]).Add(delta)
		}
	case "etl_table_rows_total":
		if b.rowCounter != nil {
			b.rowCounter.WithLabelValues(labels["table"]).Add(delta)
		}
	}
}

// ObserveHistogram records step durations; other names are ignored.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != "etl_step_duration_seconds" || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
