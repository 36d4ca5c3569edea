package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the object lifecycle engine.
type Metrics struct {
	objectsCreated       *prometheus.CounterVec
	transitions          *prometheus.CounterVec
	conflictsFound       *prometheus.CounterVec
	conflictsAutoSolved  prometheus.Counter
	validationsSubmitted *prometheus.CounterVec
	staleWrites          *prometheus.CounterVec
	importedObjects      *prometheus.CounterVec
	attachmentBytes      prometheus.Counter
	attachmentServed     prometheus.Counter
	cacheLookups         *prometheus.CounterVec
	cacheEvictions       prometheus.Counter
	analysisDuration     prometheus.Histogram
}

// NewMetrics creates and registers all metrics with reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		objectsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "infra_objects_created_total",
				Help: "Total number of objects created, by source",
			},
			[]string{"source"},
		),
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "infra_object_transitions_total",
				Help: "Total number of status transitions",
			},
			[]string{"from", "to"},
		),
		conflictsFound: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "infra_conflicts_found_total",
				Help: "Total number of conflict findings, by type",
			},
			[]string{"type"},
		),
		conflictsAutoSolved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "infra_conflicts_auto_resolved_total",
				Help: "Total number of duplicate findings resolved automatically",
			},
		),
		validationsSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "infra_validations_submitted_total",
				Help: "Total number of validation submissions",
			},
			[]string{"type", "status"},
		),
		staleWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "infra_stale_writes_total",
				Help: "Total number of optimistic updates that lost a race",
			},
			[]string{"operation"},
		),
		importedObjects: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "infra_imported_objects_total",
				Help: "Objects processed by bulk imports, by result",
			},
			[]string{"result"},
		),
		attachmentBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "infra_attachment_bytes_total",
				Help: "Total bytes of validation attachments stored",
			},
		),
		attachmentServed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "infra_attachment_bytes_served_total",
				Help: "Total bytes of validation attachments downloaded",
			},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "infra_attachment_cache_lookups_total",
				Help: "Attachment cache lookups, by result",
			},
			[]string{"result"},
		),
		cacheEvictions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "infra_attachment_cache_evictions_total",
				Help: "Attachment blobs evicted from the memory cache",
			},
		),
		analysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "infra_conflict_analysis_duration_ms",
				Help:    "Duration of conflict analysis runs in milliseconds",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
			},
		),
	}
}

func (m *Metrics) ObjectCreated(source string) {
	m.objectsCreated.WithLabelValues(source).Inc()
}

func (m *Metrics) Transition(from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) ConflictsFound(conflictType string, n int) {
	m.conflictsFound.WithLabelValues(conflictType).Add(float64(n))
}

func (m *Metrics) ConflictsAutoResolved(n int) {
	m.conflictsAutoSolved.Add(float64(n))
}

func (m *Metrics) ValidationSubmitted(validationType, status string) {
	m.validationsSubmitted.WithLabelValues(validationType, status).Inc()
}

func (m *Metrics) StaleWrite(operation string) {
	m.staleWrites.WithLabelValues(operation).Inc()
}

func (m *Metrics) ImportedObjects(result string, n int) {
	m.importedObjects.WithLabelValues(result).Add(float64(n))
}

func (m *Metrics) AttachmentBytes(n int64) {
	m.attachmentBytes.Add(float64(n))
}

func (m *Metrics) AttachmentServed(n int64) {
	m.attachmentServed.Add(float64(n))
}

// CacheLookup counts one attachment cache lookup.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) CacheEviction() {
	m.cacheEvictions.Inc()
}

// RecordAnalysisLatency records the duration of an analysis run.
func (m *Metrics) RecordAnalysisLatency(milliseconds float64) {
	m.analysisDuration.Observe(milliseconds)
}
