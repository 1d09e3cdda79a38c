package attendance

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"testing"
	"time"

	"gymdesk/internal/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func setupMarkRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, func()) {
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	handler := NewHandler(sqlxDB)

	router := gin.New()
	router.POST("/attendance/mark", handler.Mark)

	closer := func() { sqlxDB.Close() }
	return router, mock, closer
}

func memberRow(id int, firstName, lastName, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone", "nic", "dob", "gender", "address", "status", "active_plan_id", "created_at"}).
		AddRow(id, firstName, lastName, nil, "0771234567", nil, nil, nil, nil, status, nil, time.Now())
}

func TestMark_CheckInSuccess(t *testing.T) {
	router, mock, close := setupMarkRouter(t)
	defer close()

	mock.ExpectQuery("FROM members").
		WithArgs(42).
		WillReturnRows(memberRow(42, "Kasun", "Perera", "active"))

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance (member_id, method, date, check_in_time)")).
		WithArgs(42, MethodManual, LocalDate()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "date", "check_in_time", "check_out_time", "method"}).
			AddRow(1, 42, now, now, nil, MethodManual))

	body, _ := json.Marshal(MarkRequest{MemberID: 42, Type: "in"})
	req := httptest.NewRequest("POST", "/attendance/mark", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp MarkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Contains(t, resp.Message, "Welcome, Kasun")
	require.Equal(t, "Kasun Perera", resp.Member.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMark_MemberNotFound(t *testing.T) {
	router, mock, close := setupMarkRouter(t)
	defer close()

	mock.ExpectQuery("FROM members").
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	body, _ := json.Marshal(MarkRequest{MemberID: 999, Type: "in"})
	req := httptest.NewRequest("POST", "/attendance/mark", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "999")
}

func TestMark_LookupFailureIsNotReportedAsMissingMember(t *testing.T) {
	router, mock, close := setupMarkRouter(t)
	defer close()

	mock.ExpectQuery("FROM members").
		WithArgs(42).
		WillReturnError(errors.New("pq: connection reset by peer"))

	body, _ := json.Marshal(MarkRequest{MemberID: 42, Type: "in"})
	req := httptest.NewRequest("POST", "/attendance/mark", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Database error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMark_CheckOutWithoutOpenSession(t *testing.T) {
	router, mock, close := setupMarkRouter(t)
	defer close()

	mock.ExpectQuery("FROM members").
		WithArgs(42).
		WillReturnRows(memberRow(42, "Kasun", "Perera", "active"))

	mock.ExpectExec("UPDATE attendance").
		WithArgs(42, LocalDate()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	body, _ := json.Marshal(MarkRequest{MemberID: 42, Type: "out"})
	req := httptest.NewRequest("POST", "/attendance/mark", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "No active check-in found for today")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMark_RejectsUnknownDirection(t *testing.T) {
	router, _, close := setupMarkRouter(t)
	defer close()

	req := httptest.NewRequest("POST", "/attendance/mark", bytes.NewBufferString(`{"member_id": 42, "type": "sideways"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
