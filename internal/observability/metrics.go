package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lending_indexer"

var (
	// Ingestion metrics
	eventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingestion",
		Name:      "events_processed_total",
		Help:      "Total number of decoded events applied to the ledger",
	}, []string{"event"})

	eventsDuplicate = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingestion",
		Name:      "events_duplicate_total",
		Help:      "Total number of redelivered events absorbed as no-ops",
	}, []string{"event"})

	eventsConflict = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingestion",
		Name:      "events_conflict_total",
		Help:      "Total number of inserts rejected because the stored record differs",
	})

	eventsObserved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingestion",
		Name:      "events_observed_total",
		Help:      "Total number of known but unmapped events seen and skipped",
	}, []string{"event"})

	eventsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingestion",
		Name:      "events_failed_total",
		Help:      "Total number of events that could not be applied",
	}, []string{"event", "reason"})

	// Feed metrics
	feedReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "reconnects_total",
		Help:      "Total number of event feed reconnect attempts",
	})

	// Query metrics
	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "query",
		Name:      "duration_seconds",
		Help:      "Query service operation latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	// HTTP metrics
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordEventProcessed increments the processed counter for an event kind.
func RecordEventProcessed(event string) {
	eventsProcessed.WithLabelValues(event).Inc()
}

// RecordEventDuplicate increments the duplicate counter for an event kind.
func RecordEventDuplicate(event string) {
	eventsDuplicate.WithLabelValues(event).Inc()
}

// RecordEventConflict increments the conflict counter.
func RecordEventConflict() {
	eventsConflict.Inc()
}

// RecordEventObserved increments the observed-only counter for an event kind.
func RecordEventObserved(event string) {
	eventsObserved.WithLabelValues(event).Inc()
}

// RecordEventFailed increments the failure counter for an event kind.
func RecordEventFailed(event, reason string) {
	eventsFailed.WithLabelValues(event, reason).Inc()
}

// RecordFeedReconnect increments the feed reconnect counter.
func RecordFeedReconnect() {
	feedReconnects.Inc()
}

// RecordQueryDuration records one query service operation.
func RecordQueryDuration(operation string, seconds float64) {
	queryDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(route, method, status string, seconds float64) {
	httpDuration.WithLabelValues(route, method, status).Observe(seconds)
}
