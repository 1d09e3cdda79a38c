package user

import (
	"context"
	"errors"

	"gymdesk/internal/auth"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, name, email, passwordHash string, roleID int) (*User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, password_hash, role_id, created_at
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, name, email, passwordHash, roleID)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// EnsureAdmin creates the bootstrap admin account on first start. Does
// nothing when a user with the email already exists.
func (r *Repository) EnsureAdmin(ctx context.Context, name, email, password string) error {
	exists, err := r.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	var roleID int
	if err := r.db.GetContext(ctx, &roleID, `SELECT id FROM roles WHERE name = 'admin'`); err != nil {
		return err
	}

	_, err = r.Create(ctx, name, email, hash, roleID)
	return err
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.role_id, r.name AS role, u.created_at
		FROM users u
		JOIN roles r ON u.role_id = r.id
		WHERE u.email = $1
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return false, err
	}
	return exists, nil
}
