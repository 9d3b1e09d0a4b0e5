package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	attendanceMarks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "churchops",
		Subsystem: "attendance",
		Name:      "marks_total",
		Help:      "Total number of attendance mark transitions broken down by action and result.",
	}, []string{"action", "result"})

	importRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "churchops",
		Subsystem: "import",
		Name:      "rows_total",
		Help:      "Total number of imported rows broken down by outcome.",
	}, []string{"outcome"})

	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "churchops",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Total number of cache lookups broken down by cache and hit/miss.",
	}, []string{"cache", "result"})

	cacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "churchops",
		Subsystem: "cache",
		Name:      "invalidate_total",
		Help:      "Total number of cache invalidations broken down by entity.",
	}, []string{"entity"})

	hierarchyConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "churchops",
		Subsystem: "hierarchy",
		Name:      "write_conflicts_total",
		Help:      "Total number of get-or-create insert conflicts resolved by re-fetching, by level.",
	}, []string{"level"})

	outboxPublishes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "churchops",
		Subsystem: "outbox",
		Name:      "publish_total",
		Help:      "Total number of outbox publish attempts broken down by topic and result.",
	}, []string{"topic", "result"})
)

func RecordAttendanceMark(action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	if action == "" {
		action = "none"
	}
	attendanceMarks.WithLabelValues(action, result).Inc()
}

func RecordImportRow(outcome string) {
	importRows.WithLabelValues(outcome).Inc()
}

func RecordCacheRequest(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheRequests.WithLabelValues(cache, result).Inc()
}

func RecordCacheInvalidate(entity string) {
	if entity == "" {
		entity = "manual"
	}
	cacheInvalidations.WithLabelValues(entity).Inc()
}

func RecordHierarchyConflict(level string) {
	hierarchyConflicts.WithLabelValues(level).Inc()
}

func RecordOutboxPublish(topic string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	outboxPublishes.WithLabelValues(topic, result).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
