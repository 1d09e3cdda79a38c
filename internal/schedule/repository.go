package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrItemNotFound = errors.New("schedule item not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func localDate() string {
	return time.Now().Format("2006-01-02")
}

func (r *Repository) GetByMember(ctx context.Context, memberID int) ([]Item, error) {
	items := []Item{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT id, member_id, day_of_week, activity, time, type, trainer
		FROM member_schedules
		WHERE member_id = $1
		ORDER BY array_position(ARRAY['Mon','Tue','Wed','Thu','Fri','Sat','Sun'], day_of_week)
	`, memberID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *Repository) AddItem(ctx context.Context, memberID int, req AddItemRequest) (*Item, error) {
	itemTime := req.Time
	if itemTime == "" {
		itemTime = "09:00 AM"
	}
	itemType := req.Type
	if itemType == "" {
		itemType = "Gym"
	}
	trainer := req.Trainer
	if trainer == "" {
		trainer = "Staff"
	}

	var item Item
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO member_schedules (member_id, day_of_week, activity, time, type, trainer)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, member_id, day_of_week, activity, time, type, trainer
	`, memberID, req.DayOfWeek, req.Activity, itemTime, itemType, trainer).StructScan(&item)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// DeleteItem is scoped to the member so a caller cannot delete another
// member's schedule row by guessing ids.
func (r *Repository) DeleteItem(ctx context.Context, memberID, itemID int) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM member_schedules WHERE id = $1 AND member_id = $2
	`, itemID, memberID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *Repository) GetCompletions(ctx context.Context, memberID int, date string) ([]Completion, error) {
	if date == "" {
		date = localDate()
	}

	completions := []Completion{}
	err := r.db.SelectContext(ctx, &completions, `
		SELECT id, member_id, schedule_item_id, completion_date, created_at
		FROM activity_completions
		WHERE member_id = $1 AND completion_date = $2
	`, memberID, date)
	if err != nil {
		return nil, err
	}

	return completions, nil
}

// ToggleCompletion flips the done flag for one schedule item on one date.
// Returns true when the toggle resulted in the item being marked done.
func (r *Repository) ToggleCompletion(ctx context.Context, memberID, itemID int, date string) (bool, error) {
	if date == "" {
		date = localDate()
	}

	result, err := r.db.ExecContext(ctx, `
		DELETE FROM activity_completions
		WHERE member_id = $1 AND schedule_item_id = $2 AND completion_date = $3
	`, memberID, itemID, date)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rowsAffected > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO activity_completions (member_id, schedule_item_id, completion_date)
		VALUES ($1, $2, $3)
	`, memberID, itemID, date)
	if err != nil {
		return false, err
	}

	return true, nil
}
