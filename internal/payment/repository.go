package payment

import (
	"context"
	"time"

	"gymdesk/internal/membership"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]PaymentWithMember, error) {
	query := `
		SELECT p.id, p.member_id, p.membership_id, p.amount, p.payment_method, p.invoice_number, p.created_at,
		       m.first_name, m.last_name, m.email
		FROM payments p
		JOIN members m ON p.member_id = m.id
		ORDER BY p.created_at DESC
	`

	payments := []PaymentWithMember{}
	err := r.db.SelectContext(ctx, &payments, query)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *Repository) GetByMember(ctx context.Context, memberID int) ([]Payment, error) {
	query := `
		SELECT id, member_id, membership_id, amount, payment_method, invoice_number, created_at
		FROM payments
		WHERE member_id = $1
		ORDER BY created_at DESC
	`

	payments := []Payment{}
	err := r.db.SelectContext(ctx, &payments, query, memberID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

// Create inserts a bare payment row without touching memberships or the
// member's status. Used for lightweight manual entries.
func (r *Repository) Create(ctx context.Context, memberID int, amount float64, method, invoiceNumber string) (*Payment, error) {
	query := `
		INSERT INTO payments (member_id, amount, payment_method, invoice_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, member_id, membership_id, amount, payment_method, invoice_number, created_at
	`

	var p Payment
	err := r.db.GetContext(ctx, &p, query, memberID, amount, method, invoiceNumber)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreateWithPlan records a payment in one transaction: optionally creates
// an active membership for the given plan, inserts the payment row, and
// activates the member. Any failure rolls the whole thing back.
func (r *Repository) CreateWithPlan(
	ctx context.Context,
	memberID int,
	plan *membership.Plan,
	amount float64,
	method, invoiceNumber string,
) (*Payment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var membershipID *int
	if plan != nil {
		startDate := time.Now()
		endDate := startDate.AddDate(0, plan.DurationMonths, 0)

		var id int
		err = tx.GetContext(ctx, &id, `
			INSERT INTO memberships (member_id, plan_id, start_date, end_date, status, amount)
			VALUES ($1, $2, $3, $4, 'active', $5)
			RETURNING id
		`, memberID, plan.ID, startDate, endDate, amount)
		if err != nil {
			return nil, err
		}
		membershipID = &id
	}

	var p Payment
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO payments (member_id, membership_id, amount, payment_method, invoice_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, member_id, membership_id, amount, payment_method, invoice_number, created_at
	`, memberID, membershipID, amount, method, invoiceNumber).StructScan(&p)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `UPDATE members SET status = 'active' WHERE id = $1`, memberID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &p, nil
}
