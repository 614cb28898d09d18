// Package metrics records operational metrics from the ETL run through a
// pluggable Backend. The default backend discards everything, so callers may
// record unconditionally; concrete systems live in subpackages (prompush).
//
// Metric names:
//
//	etl_step_total{job,step,status}
//	etl_step_duration_seconds{job,step,status}
//	etl_documents_total{job,kind}
//	etl_table_rows_total{job,table}
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep records one execution of a run step (fetch, normalize, load,
// ...) with its outcome and duration.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter("etl_step_total", 1, lbls)
	backend.ObserveHistogram("etl_step_duration_seconds", d.Seconds(), lbls)
}

// RecordDocuments counts source documents fetched per kind
// ("match", "competition").
func RecordDocuments(job, kind string, n int) {
	if n <= 0 {
		return
	}
	backend.IncCounter("etl_documents_total", float64(n), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordTableRows counts rows loaded into a relational table.
func RecordTableRows(job, table string, n int) {
	if n <= 0 {
		return
	}
	backend.IncCounter("etl_table_rows_total", float64(n), Labels{
		"job":   job,
		"table": table,
	})
}
