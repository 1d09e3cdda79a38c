package workout

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrPlanEmpty    = errors.New("plan has no items or does not exist")
	ErrPlanNotFound = errors.New("workout plan not found")
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListWithItems(ctx context.Context) ([]Plan, error) {
	plans := []Plan{}
	err := r.db.SelectContext(ctx, &plans, `
		SELECT id, name, description, difficulty_level, created_at
		FROM workout_plans
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}

	items := []Item{}
	err = r.db.SelectContext(ctx, &items, `
		SELECT id, plan_id, day_of_week, activity, time, type, trainer
		FROM workout_plan_items
		ORDER BY array_position(ARRAY['Mon','Tue','Wed','Thu','Fri','Sat','Sun'], day_of_week)
	`)
	if err != nil {
		return nil, err
	}

	byPlan := make(map[int][]Item, len(plans))
	for _, item := range items {
		byPlan[item.PlanID] = append(byPlan[item.PlanID], item)
	}

	for i := range plans {
		plans[i].Items = byPlan[plans[i].ID]
		if plans[i].Items == nil {
			plans[i].Items = []Item{}
		}
	}

	return plans, nil
}

func (r *Repository) Create(ctx context.Context, req CreatePlanRequest) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var planID int
	err = tx.GetContext(ctx, &planID, `
		INSERT INTO workout_plans (name, description, difficulty_level)
		VALUES ($1, $2, $3)
		RETURNING id
	`, req.Name, req.Description, req.Difficulty)
	if err != nil {
		return 0, err
	}

	for _, item := range req.Items {
		itemTime := item.Time
		if itemTime == "" {
			itemTime = "09:00 AM"
		}
		itemType := item.Type
		if itemType == "" {
			itemType = "Gym"
		}
		trainer := item.Trainer
		if trainer == "" {
			trainer = "Staff"
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO workout_plan_items (plan_id, day_of_week, activity, time, type, trainer)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, planID, item.DayOfWeek, item.Activity, itemTime, itemType, trainer)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return planID, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workout_plans WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPlanNotFound
	}

	return nil
}

// Assign replaces each target member's personal schedule with a copy of
// the plan's items, all in one transaction. A plan with zero items fails
// the whole assignment before any member's schedule is touched, so a bad
// plan id can never wipe existing schedules.
//
// The copies are deliberately decoupled from the plan: editing the plan
// later does not change schedules already assigned.
func (r *Repository) Assign(ctx context.Context, planID int, memberIDs []int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	items := []Item{}
	err = tx.SelectContext(ctx, &items, `
		SELECT id, plan_id, day_of_week, activity, time, type, trainer
		FROM workout_plan_items
		WHERE plan_id = $1
	`, planID)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		return ErrPlanEmpty
	}

	for _, memberID := range memberIDs {
		_, err = tx.ExecContext(ctx, `DELETE FROM member_schedules WHERE member_id = $1`, memberID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE members SET active_plan_id = $1 WHERE id = $2`, planID, memberID)
		if err != nil {
			return err
		}

		for _, item := range items {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO member_schedules (member_id, day_of_week, activity, time, type, trainer)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, memberID, item.DayOfWeek, item.Activity, item.Time, item.Type, item.Trainer)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (r *Repository) GetItems(ctx context.Context, planID int) ([]Item, error) {
	items := []Item{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT id, plan_id, day_of_week, activity, time, type, trainer
		FROM workout_plan_items
		WHERE plan_id = $1
		ORDER BY array_position(ARRAY['Mon','Tue','Wed','Thu','Fri','Sat','Sun'], day_of_week)
	`, planID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *Repository) GetPlanName(ctx context.Context, planID int) (string, error) {
	var name string
	err := r.db.GetContext(ctx, &name, `SELECT name FROM workout_plans WHERE id = $1`, planID)
	if err != nil {
		return "", err
	}
	return name, nil
}
