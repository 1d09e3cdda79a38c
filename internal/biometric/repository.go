package biometric

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, cred *Credential) error {
	query := `
		INSERT INTO biometric_credentials (id, member_id, public_key, counter, transports, attestation_type)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		cred.ID, cred.MemberID, cred.PublicKey, cred.Counter, cred.Transports, cred.AttestationType)
	return err
}

func (r *Repository) GetByMember(ctx context.Context, memberID int) ([]Credential, error) {
	query := `
		SELECT id, member_id, public_key, counter, transports, attestation_type, created_at
		FROM biometric_credentials
		WHERE member_id = $1
		ORDER BY created_at ASC
	`

	creds := []Credential{}
	err := r.db.SelectContext(ctx, &creds, query, memberID)
	if err != nil {
		return nil, err
	}

	return creds, nil
}

// UpdateCounter stores the authenticator's new signature counter after a
// successful assertion. The counter must never decrease; the verifier
// rejects assertions that would move it backwards.
func (r *Repository) UpdateCounter(ctx context.Context, id string, counter int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE biometric_credentials SET counter = $1 WHERE id = $2`, counter, id)
	return err
}
