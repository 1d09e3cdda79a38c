package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_checkins_total",
			Help: "Total number of attendance check-ins",
		},
		[]string{"method"},
	)

	PaymentsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_payments_recorded_total",
			Help: "Total number of payment rows created",
		},
		[]string{"source"},
	)

	BiometricVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_biometric_verifications_total",
			Help: "Total number of WebAuthn verification attempts",
		},
		[]string{"flow", "outcome"},
	)

	MembershipsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_memberships_created_total",
			Help: "Total number of memberships created",
		},
		[]string{"status"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymdesk_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCheckIn(method string) {
	CheckInsTotal.WithLabelValues(method).Inc()
}

func RecordPayment(source string) {
	PaymentsRecordedTotal.WithLabelValues(source).Inc()
}

func RecordBiometricVerification(flow, outcome string) {
	BiometricVerificationsTotal.WithLabelValues(flow, outcome).Inc()
}

func RecordMembership(status string) {
	MembershipsCreatedTotal.WithLabelValues(status).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
