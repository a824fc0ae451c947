package audit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopgrove/marketplace/internal/domain"
)

const namespace = "marketplace"

var (
	auditEventsIndexed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "events_indexed_total",
			Help:      "Total audit events successfully written to the index",
		},
		[]string{"kind"},
	)

	auditEventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "events_dropped_total",
			Help:      "Total audit events dropped before reaching the index",
		},
		[]string{"kind", "reason"},
	)

	auditEventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "events_failed_total",
			Help:      "Total audit events rejected by the index",
		},
		[]string{"kind"},
	)

	auditIndexDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "index_duration_seconds",
			Help:      "Time to index a single audit event",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"kind"},
	)
)

func recordEventIndexed(kind domain.AuditEventKind, duration time.Duration) {
	auditEventsIndexed.WithLabelValues(string(kind)).Inc()
	auditIndexDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
}

func recordEventDropped(kind domain.AuditEventKind, reason string) {
	auditEventsDropped.WithLabelValues(string(kind), reason).Inc()
}

func recordEventFailed(kind domain.AuditEventKind) {
	auditEventsFailed.WithLabelValues(string(kind)).Inc()
}
