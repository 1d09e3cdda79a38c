package member

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMemberMock(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func memberColumns() []string {
	return []string{"id", "first_name", "last_name", "email", "phone", "nic", "dob", "gender", "address", "status", "active_plan_id", "created_at"}
}

func TestCreate_DefaultsToInactive(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	ctx := context.Background()
	email := "kasun@example.com"
	nic := "991234567V"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO members (first_name, last_name, email, phone, nic, dob, gender, address)")).
		WithArgs("Kasun", "Perera", &email, "0771234567", &nic, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(memberColumns()).
			AddRow(1, "Kasun", "Perera", email, "0771234567", nic, nil, nil, nil, StatusInactive, nil, time.Now()))

	m, err := repo.Create(ctx, CreateMemberRequest{
		FirstName: "Kasun",
		LastName:  "Perera",
		Phone:     "0771234567",
		Email:     &email,
		NIC:       &nic,
	}, nil)
	require.NoError(t, err)
	require.Equal(t, StatusInactive, m.Status)
	require.Nil(t, m.ActivePlanID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE members").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(ctx, 999, UpdateMemberRequest{
		FirstName: "Kasun",
		LastName:  "Perera",
		Phone:     "0771234567",
		Status:    StatusActive,
	}, nil)
	require.ErrorIs(t, err, ErrMemberNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM members WHERE id = $1")).
		WithArgs(999).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(ctx, 999)
	require.ErrorIs(t, err, ErrMemberNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_Success(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM members WHERE id = $1")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailExists(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM members WHERE email = $1)")).
		WithArgs("kasun@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(ctx, "kasun@example.com")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNICExists(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM members WHERE nic = $1)")).
		WithArgs("991234567V").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.NICExists(ctx, "991234567V")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCurrentMembership_ReturnsLatest(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("FROM memberships ms").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan_id", "plan_name", "start_date", "end_date", "status", "amount"}).
			AddRow(7, 3, "Monthly", now, now.AddDate(0, 1, 0), "active", 3500.0))

	summary, err := repo.GetCurrentMembership(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, "Monthly", summary.PlanName)
	require.Equal(t, "active", summary.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
