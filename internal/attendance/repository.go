package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNoOpenCheckIn = errors.New("no active check-in for today")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// LocalDate is the calendar date as seen by this process, not the database.
// Keeping date computation on the application side avoids off-by-one-day
// records when the database runs in a different time zone.
func LocalDate() string {
	return time.Now().Format("2006-01-02")
}

// CheckIn records a new check-in for the given date. There is deliberately
// no guard against an already-open session: two check-ins without a
// check-out in between leave two open records for the day.
func (r *Repository) CheckIn(ctx context.Context, memberID int, method, date string) (*Record, error) {
	query := `
		INSERT INTO attendance (member_id, method, date, check_in_time)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, member_id, date, check_in_time, check_out_time, method
	`

	var rec Record
	err := r.db.GetContext(ctx, &rec, query, memberID, method, date)
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// CheckOut closes the most recent open record for member and date.
func (r *Repository) CheckOut(ctx context.Context, memberID int, date string) error {
	query := `
		UPDATE attendance
		SET check_out_time = NOW()
		WHERE id = (
			SELECT id FROM attendance
			WHERE member_id = $1 AND date = $2 AND check_out_time IS NULL
			ORDER BY check_in_time DESC
			LIMIT 1
		)
	`

	result, err := r.db.ExecContext(ctx, query, memberID, date)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNoOpenCheckIn
	}

	return nil
}

func (r *Repository) GetByDate(ctx context.Context, date string) ([]RecordWithMember, error) {
	query := `
		SELECT a.id, a.member_id, a.date, a.check_in_time, a.check_out_time, a.method,
		       m.first_name, m.last_name
		FROM attendance a
		JOIN members m ON a.member_id = m.id
		WHERE a.date = $1
		ORDER BY a.check_in_time DESC
	`

	records := []RecordWithMember{}
	err := r.db.SelectContext(ctx, &records, query, date)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Repository) GetHistory(ctx context.Context, fromDate string) ([]RecordWithMember, error) {
	query := `
		SELECT a.id, a.member_id, a.date, a.check_in_time, a.check_out_time, a.method,
		       m.first_name, m.last_name
		FROM attendance a
		JOIN members m ON a.member_id = m.id
		WHERE a.date >= $1
		ORDER BY a.date DESC, a.check_in_time DESC
	`

	records := []RecordWithMember{}
	err := r.db.SelectContext(ctx, &records, query, fromDate)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Repository) GetByMember(ctx context.Context, memberID int) ([]Record, error) {
	query := `
		SELECT id, member_id, date, check_in_time, check_out_time, method
		FROM attendance
		WHERE member_id = $1
		ORDER BY date DESC, check_in_time DESC
	`

	records := []Record{}
	err := r.db.SelectContext(ctx, &records, query, memberID)
	if err != nil {
		return nil, err
	}

	return records, nil
}
