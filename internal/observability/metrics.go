package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "amrdb"

// Metrics holds the counters for reconciliation and catalog refresh runs.
// Batch runs are short-lived, so metrics are exported with WriteTextfile for
// a node-exporter textfile collector rather than served.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	runs                  *prometheus.CounterVec
	rowsProcessed         *prometheus.CounterVec
	resultsWritten        *prometheus.CounterVec
	variantsRegistered    *prometheus.CounterVec
	orientationMismatches *prometheus.CounterVec
	collisionFallbacks    *prometheus.CounterVec
	unknownAccessions     *prometheus.CounterVec
	catalogEntries        *prometheus.CounterVec
	operationDuration     *prometheus.HistogramVec
	operationOutcome      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "runs_total",
			Help: "Reconciliation runs by tool and final status.",
		}, []string{"tool", "status"}),
		rowsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "rows_processed_total",
			Help: "Input rows handed to the reconciliation engine.",
		}, []string{"tool"}),
		resultsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "results_written_total",
			Help: "Result rows persisted.",
		}, []string{"tool"}),
		variantsRegistered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "variants_registered_total",
			Help: "Provisional catalog entries created from near-identical hits.",
		}, []string{"kind"}),
		orientationMismatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "orientation_mismatches_total",
			Help: "Hits whose sequence matched neither strand of the assembly region.",
		}, []string{"tool"}),
		collisionFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "hash_collision_fallbacks_total",
			Help: "Resolutions that fell back to the first accession match.",
		}, []string{"kind"}),
		unknownAccessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "unknown_accessions_total",
			Help: "Runs aborted on an accession missing from the catalog.",
		}, []string{"kind"}),
		catalogEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "catalog_entries_total",
			Help: "Catalog refresh writes by kind and action (inserted, updated).",
		}, []string{"kind", "action"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "operation_duration_seconds",
			Help:    "Transactional write duration by operation and status.",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"op", "status"}),
		operationOutcome: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "operation_outcomes_total",
			Help: "Conflict and retryable failures by operation.",
		}, []string{"op", "outcome"}),
	}
	m.registry.MustRegister(
		m.runs,
		m.rowsProcessed,
		m.resultsWritten,
		m.variantsRegistered,
		m.orientationMismatches,
		m.collisionFallbacks,
		m.unknownAccessions,
		m.catalogEntries,
		m.operationDuration,
		m.operationOutcome,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile atomically writes the registry in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func (m *Metrics) IncRun(tool, status string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(tool, status).Inc()
}

func (m *Metrics) AddRows(tool string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsProcessed.WithLabelValues(tool).Add(float64(n))
}

func (m *Metrics) AddResults(tool string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.resultsWritten.WithLabelValues(tool).Add(float64(n))
}

func (m *Metrics) AddVariants(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.variantsRegistered.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) AddOrientationMismatches(tool string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.orientationMismatches.WithLabelValues(tool).Add(float64(n))
}

func (m *Metrics) AddCollisionFallbacks(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.collisionFallbacks.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) IncUnknownAccession(kind string) {
	if m == nil {
		return
	}
	m.unknownAccessions.WithLabelValues(kind).Inc()
}

func (m *Metrics) AddCatalogEntries(kind, action string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.catalogEntries.WithLabelValues(kind, action).Add(float64(n))
}

func (m *Metrics) ObserveOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.operationDuration.WithLabelValues(op, status).Observe(dur.Seconds())
}

func (m *Metrics) IncOperationOutcome(op, outcome string) {
	if m == nil {
		return
	}
	m.operationOutcome.WithLabelValues(op, outcome).Inc()
}
