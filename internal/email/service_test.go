package email

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

func newTestService(rdb *redis.Client) *Service {
	return &Service{
		redis:    rdb,
		from:     "noreply@gymdesk.local",
		fromName: "GymDesk",
		smtpHost: "smtp.test.com",
		smtpPort: "587",
		smtpUser: "test@example.com",
		smtpPass: "password",
	}
}

func TestSend(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)

	svc := newTestService(db)

	err := svc.Send(ctx, "user@example.com", "User", "Hello", "Test body")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendQueuesFreshJob(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	job := EmailJob{
		To:      "user@example.com",
		Name:    "User",
		Subject: "Hello",
		Body:    "Test body",
	}

	mock.CustomMatch(func(expected, actual []interface{}) error {
		// redismock passes the full command args: ["lpush", "emails", <payload>].
		require.Len(t, actual, 3)

		var got EmailJob
		require.NoError(t, json.Unmarshal(actual[2].([]byte), &got))
		assert.Equal(t, job.To, got.To)
		assert.Equal(t, job.Subject, got.Subject)
		assert.Equal(t, 0, got.Tries)
		return nil
	}).ExpectLPush("emails", "ignored").SetVal(1)

	svc := newTestService(db)

	err := svc.Send(ctx, job.To, job.Name, job.Subject, job.Body)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendUpdatesQueueGauge(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	// LPush returns the new list length, which drives the gauge.
	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(3)

	svc := newTestService(db)

	err := svc.Send(ctx, "user@example.com", "User", "Hello", "Test body")
	assert.NoError(t, err)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.EmailQueueLength))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMembershipApproved(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)

	svc := newTestService(db)

	endDate := time.Now().AddDate(0, 1, 0)
	err := svc.SendMembershipApproved(ctx, "user@example.com", "Kasun", "Monthly", endDate)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendScheduleAssigned(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)

	svc := newTestService(db)

	items := []string{"Mon: Chest at 09:00 AM (Ruwan)", "Wed: Legs at 05:00 PM (Ruwan)"}
	err := svc.SendScheduleAssigned(ctx, "user@example.com", "Kasun", "Beginner Strength", items)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendPaymentReceipt(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)

	svc := newTestService(db)

	err := svc.SendPaymentReceipt(ctx, "user@example.com", "Kasun", "INV-20250601-0001", 3500)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectLLen("emails").SetVal(5)

	svc := newTestService(db)

	length := svc.QueueLength(ctx)
	assert.Equal(t, int64(5), length)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLengthZero(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectLLen("emails").SetVal(0)

	svc := newTestService(db)

	length := svc.QueueLength(ctx)
	assert.Equal(t, int64(0), length)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetErr(assert.AnError)

	svc := newTestService(db)

	err := svc.Send(ctx, "user@example.com", "User", "Hello", "Test body")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
