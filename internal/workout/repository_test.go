package workout

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupWorkoutMock(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func itemColumns() []string {
	return []string{"id", "plan_id", "day_of_week", "activity", "time", "type", "trainer"}
}

func TestListWithItems_GroupsItemsByPlan(t *testing.T) {
	repo, mock, close := setupWorkoutMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectQuery("FROM workout_plans").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "difficulty_level", "created_at"}).
			AddRow(1, "Beginner Strength", nil, "beginner", time.Now()).
			AddRow(2, "Cardio Blast", nil, nil, time.Now()))

	mock.ExpectQuery("FROM workout_plan_items").
		WillReturnRows(sqlmock.NewRows(itemColumns()).
			AddRow(10, 1, "Mon", "Chest", "09:00 AM", "Gym", "Ruwan").
			AddRow(11, 1, "Wed", "Legs", "09:00 AM", "Gym", "Ruwan"))

	plans, err := repo.ListWithItems(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	require.Len(t, plans[0].Items, 2)
	// A plan with no items gets an empty slice, not null JSON
	require.NotNil(t, plans[1].Items)
	require.Empty(t, plans[1].Items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_InsertsPlanAndItemsInOneTransaction(t *testing.T) {
	repo, mock, close := setupWorkoutMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO workout_plans (name, description, difficulty_level)")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO workout_plan_items (plan_id, day_of_week, activity, time, type, trainer)")).
		WithArgs(3, "Mon", "Chest", "09:00 AM", "Gym", "Staff").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// Omitted time, type and trainer fall back to defaults
	planID, err := repo.Create(ctx, CreatePlanRequest{
		Name:  "Push Day",
		Items: []CreateItemRequest{{DayOfWeek: "Mon", Activity: "Chest"}},
	})
	require.NoError(t, err)
	require.Equal(t, 3, planID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssign_EmptyPlanFailsBeforeTouchingSchedules(t *testing.T) {
	repo, mock, close := setupWorkoutMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM workout_plan_items").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(itemColumns()))
	mock.ExpectRollback()

	err := repo.Assign(ctx, 99, []int{42, 43})
	require.ErrorIs(t, err, ErrPlanEmpty)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssign_ReplacesScheduleForEachMember(t *testing.T) {
	repo, mock, close := setupWorkoutMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM workout_plan_items").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(itemColumns()).
			AddRow(10, 3, "Mon", "Chest", "09:00 AM", "Gym", "Ruwan"))

	for _, memberID := range []int{42, 43} {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM member_schedules WHERE member_id = $1")).
			WithArgs(memberID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE members SET active_plan_id = $1 WHERE id = $2")).
			WithArgs(3, memberID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO member_schedules (member_id, day_of_week, activity, time, type, trainer)")).
			WithArgs(memberID, "Mon", "Chest", "09:00 AM", "Gym", "Ruwan").
			WillReturnResult(sqlmock.NewResult(1, 1))
	}

	mock.ExpectCommit()

	err := repo.Assign(ctx, 3, []int{42, 43})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssign_RollsBackWhenAnyMemberFails(t *testing.T) {
	repo, mock, close := setupWorkoutMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM workout_plan_items").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(itemColumns()).
			AddRow(10, 3, "Mon", "Chest", "09:00 AM", "Gym", "Ruwan"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM member_schedules WHERE member_id = $1")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE members SET active_plan_id = $1 WHERE id = $2")).
		WithArgs(3, 42).
		WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	err := repo.Assign(ctx, 3, []int{42})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, close := setupWorkoutMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM workout_plans WHERE id = $1")).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(ctx, 99)
	require.ErrorIs(t, err, ErrPlanNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
