package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/api/members", "200", 0.5)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/members", "200"))
	assert.Equal(t, float64(1), count)
}

func TestRecordHTTPRequestMultiple(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/api/auth/login", "200", 0.1)
	RecordHTTPRequest("POST", "/api/auth/login", "200", 0.2)
	RecordHTTPRequest("POST", "/api/auth/login", "401", 0.05)

	successCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/auth/login", "200"))
	failCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/auth/login", "401"))

	assert.Equal(t, float64(2), successCount)
	assert.Equal(t, float64(1), failCount)
}

func TestRecordCheckIn(t *testing.T) {
	CheckInsTotal.Reset()

	RecordCheckIn("manual")
	RecordCheckIn("manual")
	RecordCheckIn("fingerprint")

	manualCount := testutil.ToFloat64(CheckInsTotal.WithLabelValues("manual"))
	fingerprintCount := testutil.ToFloat64(CheckInsTotal.WithLabelValues("fingerprint"))

	assert.Equal(t, float64(2), manualCount)
	assert.Equal(t, float64(1), fingerprintCount)
}

func TestRecordPayment(t *testing.T) {
	PaymentsRecordedTotal.Reset()

	RecordPayment("manual")
	RecordPayment("payhere")
	RecordPayment("payhere")

	manualCount := testutil.ToFloat64(PaymentsRecordedTotal.WithLabelValues("manual"))
	gatewayCount := testutil.ToFloat64(PaymentsRecordedTotal.WithLabelValues("payhere"))

	assert.Equal(t, float64(1), manualCount)
	assert.Equal(t, float64(2), gatewayCount)
}

func TestRecordBiometricVerification(t *testing.T) {
	BiometricVerificationsTotal.Reset()

	RecordBiometricVerification("registration", "success")
	RecordBiometricVerification("authentication", "success")
	RecordBiometricVerification("authentication", "failed")

	regSuccess := testutil.ToFloat64(BiometricVerificationsTotal.WithLabelValues("registration", "success"))
	authSuccess := testutil.ToFloat64(BiometricVerificationsTotal.WithLabelValues("authentication", "success"))
	authFailed := testutil.ToFloat64(BiometricVerificationsTotal.WithLabelValues("authentication", "failed"))

	assert.Equal(t, float64(1), regSuccess)
	assert.Equal(t, float64(1), authSuccess)
	assert.Equal(t, float64(1), authFailed)
}

func TestRecordMembership(t *testing.T) {
	MembershipsCreatedTotal.Reset()

	RecordMembership("pending")
	RecordMembership("active")
	RecordMembership("pending")

	pendingCount := testutil.ToFloat64(MembershipsCreatedTotal.WithLabelValues("pending"))
	activeCount := testutil.ToFloat64(MembershipsCreatedTotal.WithLabelValues("active"))

	assert.Equal(t, float64(2), pendingCount)
	assert.Equal(t, float64(1), activeCount)
}

func TestRecordEmail(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("generic", "sent")
	RecordEmail("generic", "failed")
	RecordEmail("generic", "sent")

	sentCount := testutil.ToFloat64(EmailsSentTotal.WithLabelValues("generic", "sent"))
	failedCount := testutil.ToFloat64(EmailsSentTotal.WithLabelValues("generic", "failed"))

	assert.Equal(t, float64(2), sentCount)
	assert.Equal(t, float64(1), failedCount)
}

func TestEmailQueueLength(t *testing.T) {
	EmailQueueLength.Set(10)
	assert.Equal(t, float64(10), testutil.ToFloat64(EmailQueueLength))

	EmailQueueLength.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(EmailQueueLength))
}

func TestMetricsIntegration(t *testing.T) {
	HTTPRequestsTotal.Reset()
	CheckInsTotal.Reset()
	PaymentsRecordedTotal.Reset()
	MembershipsCreatedTotal.Reset()

	RecordHTTPRequest("POST", "/api/attendance/mark", "200", 0.25)
	RecordCheckIn("fingerprint")
	RecordPayment("payhere")
	RecordMembership("active")

	httpCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/attendance/mark", "200"))
	checkInCount := testutil.ToFloat64(CheckInsTotal.WithLabelValues("fingerprint"))
	paymentCount := testutil.ToFloat64(PaymentsRecordedTotal.WithLabelValues("payhere"))
	membershipCount := testutil.ToFloat64(MembershipsCreatedTotal.WithLabelValues("active"))

	assert.Equal(t, float64(1), httpCount)
	assert.Equal(t, float64(1), checkInCount)
	assert.Equal(t, float64(1), paymentCount)
	assert.Equal(t, float64(1), membershipCount)
}
