package dashboard

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetStats gathers the admin dashboard rollup. Queries run sequentially
// on one connection pool; any single failure fails the whole call rather
// than returning a partially filled payload.
func (r *Repository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		RecentCheckIns: []RecentCheckIn{},
		RevenueByMonth: []MonthlyRevenue{},
	}

	err := r.db.GetContext(ctx, &stats.TotalMembers, `SELECT COUNT(*) FROM members`)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &stats.ActiveMembers,
		`SELECT COUNT(*) FROM members WHERE status = 'active'`)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &stats.ExpiredMembers,
		`SELECT COUNT(*) FROM members WHERE status = 'expired'`)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	err = r.db.GetContext(ctx, &stats.MonthlyRevenue, `
		SELECT COALESCE(SUM(amount), 0) FROM payments WHERE created_at >= $1
	`, monthStart)
	if err != nil {
		return nil, err
	}

	today := now.Format("2006-01-02")
	err = r.db.GetContext(ctx, &stats.TodayAttendance, `
		SELECT COUNT(DISTINCT member_id) FROM attendance WHERE date = $1
	`, today)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &stats.RecentCheckIns, `
		SELECT a.id, a.member_id, m.first_name, m.last_name, a.check_in_time
		FROM attendance a
		JOIN members m ON a.member_id = m.id
		ORDER BY a.check_in_time DESC
		LIMIT 5
	`)
	if err != nil {
		return nil, err
	}

	sixMonthsAgo := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -5, 0)

	err = r.db.SelectContext(ctx, &stats.RevenueByMonth, `
		SELECT TO_CHAR(created_at, 'YYYY-MM') AS month, COALESCE(SUM(amount), 0) AS revenue
		FROM payments
		WHERE created_at >= $1
		GROUP BY TO_CHAR(created_at, 'YYYY-MM')
		ORDER BY month
	`, sixMonthsAgo)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
