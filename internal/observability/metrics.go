package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	apiRequestsTotal  *prometheus.CounterVec
	apiLatencySeconds *prometheus.HistogramVec
	apiErrorsTotal    *prometheus.CounterVec

	attendanceSessionsSaved *prometheus.CounterVec
	marksAuditEntries       prometheus.Counter
	leaveDecisionsTotal     *prometheus.CounterVec
	notificationsPublished  *prometheus.CounterVec
	outboxDispatched        *prometheus.CounterVec
	sseClientsActive        prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "collegedesk_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "collegedesk_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "collegedesk_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		attendanceSessionsSaved = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "collegedesk_attendance_sessions_saved_total",
			Help: "Number of committed attendance sessions, by capture method.",
		}, []string{"method"})

		marksAuditEntries = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "collegedesk_marks_audit_entries_total",
			Help: "Number of marks audit trail entries appended.",
		})

		leaveDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "collegedesk_leave_decisions_total",
			Help: "Number of finalized leave decisions.",
		}, []string{"decision"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "collegedesk_notifications_published_total",
			Help: "Number of notifications dispatched, by type.",
		}, []string{"type"})

		outboxDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "collegedesk_sync_outbox_dispatched_total",
			Help: "Outcome of sync outbox dispatch attempts.",
		}, []string{"status"})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "collegedesk_sse_clients_active",
			Help: "Currently connected notification stream clients.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			attendanceSessionsSaved,
			marksAuditEntries,
			leaveDecisionsTotal,
			notificationsPublished,
			outboxDispatched,
			sseClientsActive,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// AttendanceSessionsSaved exposes the committed session counter.
func AttendanceSessionsSaved() *prometheus.CounterVec {
	RegisterMetrics()
	return attendanceSessionsSaved
}

// MarksAuditEntries exposes the audit entry counter.
func MarksAuditEntries() prometheus.Counter {
	RegisterMetrics()
	return marksAuditEntries
}

// LeaveDecisions exposes the leave decision counter.
func LeaveDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return leaveDecisionsTotal
}

// NotificationsPublishedTotal exposes the notification counter.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// OutboxDispatched exposes the outbox dispatch outcome counter.
func OutboxDispatched() *prometheus.CounterVec {
	RegisterMetrics()
	return outboxDispatched
}

// SSEClientsActive exposes the live stream client gauge.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}
