package membership

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrMembershipNotFound = errors.New("membership not found or not pending")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListPlans(ctx context.Context) ([]Plan, error) {
	query := `
		SELECT id, name, duration_months, price, description
		FROM membership_plans
		ORDER BY price ASC
	`

	plans := []Plan{}
	err := r.db.SelectContext(ctx, &plans, query)
	if err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *Repository) GetPlan(ctx context.Context, id int) (*Plan, error) {
	query := `
		SELECT id, name, duration_months, price, description
		FROM membership_plans
		WHERE id = $1
	`

	var plan Plan
	err := r.db.GetContext(ctx, &plan, query, id)
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

// CreateRequest writes the membership and its payment row in one
// transaction so a failed payment insert never leaves a dangling
// membership.
func (r *Repository) CreateRequest(
	ctx context.Context,
	memberID, planID int,
	status string,
	startDate, endDate time.Time,
	amount float64,
	paymentMethod, invoiceNumber string,
) (*Membership, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var ms Membership
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO memberships (member_id, plan_id, start_date, end_date, status, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, member_id, plan_id, start_date, end_date, status, amount, created_at
	`, memberID, planID, startDate, endDate, status, amount).StructScan(&ms)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (member_id, membership_id, amount, payment_method, invoice_number)
		VALUES ($1, $2, $3, $4, $5)
	`, memberID, ms.ID, amount, paymentMethod, invoiceNumber)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &ms, nil
}

func (r *Repository) ListPending(ctx context.Context) ([]PendingMembership, error) {
	query := `
		SELECT ms.id, ms.member_id, ms.plan_id, ms.start_date, ms.end_date, ms.status, ms.amount, ms.created_at,
		       m.first_name, m.last_name, p.name AS plan_name
		FROM memberships ms
		JOIN members m ON ms.member_id = m.id
		JOIN membership_plans p ON ms.plan_id = p.id
		WHERE ms.status = 'pending'
		ORDER BY ms.created_at DESC
	`

	pending := []PendingMembership{}
	err := r.db.SelectContext(ctx, &pending, query)
	if err != nil {
		return nil, err
	}

	return pending, nil
}

// Approve flips a pending membership to active and activates the member.
// Returns the member id for the post-commit notification.
func (r *Repository) Approve(ctx context.Context, id int) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var memberID int
	err = tx.GetContext(ctx, &memberID, `
		UPDATE memberships
		SET status = 'active'
		WHERE id = $1 AND status = 'pending'
		RETURNING member_id
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrMembershipNotFound
	}
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx, `UPDATE members SET status = 'active' WHERE id = $1`, memberID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return memberID, nil
}

func (r *Repository) Reject(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE memberships
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrMembershipNotFound
	}

	return nil
}
