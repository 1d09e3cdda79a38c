package member

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrMemberNotFound = errors.New("member not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]Member, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, nic, dob, gender, address, status, active_plan_id, created_at
		FROM members
		ORDER BY created_at DESC
	`

	members := []Member{}
	err := r.db.SelectContext(ctx, &members, query)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (r *Repository) Create(ctx context.Context, req CreateMemberRequest, dob *time.Time) (*Member, error) {
	query := `
		INSERT INTO members (first_name, last_name, email, phone, nic, dob, gender, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, first_name, last_name, email, phone, nic, dob, gender, address, status, active_plan_id, created_at
	`

	var m Member
	err := r.db.GetContext(ctx, &m, query,
		req.FirstName, req.LastName, req.Email, req.Phone, req.NIC, dob, req.Gender, req.Address)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Member, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, nic, dob, gender, address, status, active_plan_id, created_at
		FROM members
		WHERE id = $1
	`

	var m Member
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*Member, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, nic, dob, gender, address, status, active_plan_id, created_at
		FROM members
		WHERE email = $1
	`

	var m Member
	err := r.db.GetContext(ctx, &m, query, email)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *Repository) Update(ctx context.Context, id int, req UpdateMemberRequest, dob *time.Time) error {
	query := `
		UPDATE members
		SET first_name = $1, last_name = $2, email = $3, phone = $4, nic = $5,
		    dob = $6, gender = $7, address = $8, status = $9
		WHERE id = $10
	`

	result, err := r.db.ExecContext(ctx, query,
		req.FirstName, req.LastName, req.Email, req.Phone, req.NIC, dob, req.Gender, req.Address, req.Status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM members WHERE email = $1)`, email)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *Repository) NICExists(ctx context.Context, nic string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM members WHERE nic = $1)`, nic)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *Repository) GetCurrentMembership(ctx context.Context, memberID int) (*MembershipSummary, error) {
	query := `
		SELECT ms.id, ms.plan_id, p.name AS plan_name, ms.start_date, ms.end_date, ms.status, ms.amount
		FROM memberships ms
		JOIN membership_plans p ON ms.plan_id = p.id
		WHERE ms.member_id = $1
		ORDER BY ms.created_at DESC
		LIMIT 1
	`

	var s MembershipSummary
	err := r.db.GetContext(ctx, &s, query, memberID)
	if err != nil {
		return nil, err
	}

	return &s, nil
}
