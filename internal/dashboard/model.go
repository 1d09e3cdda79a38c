package dashboard

import "time"

type Stats struct {
	TotalMembers    int              `json:"total_members"`
	ActiveMembers   int              `json:"active_members"`
	ExpiredMembers  int              `json:"expired_members"`
	MonthlyRevenue  float64          `json:"monthly_revenue"`
	TodayAttendance int              `json:"today_attendance"`
	RecentCheckIns  []RecentCheckIn  `json:"recent_check_ins"`
	RevenueByMonth  []MonthlyRevenue `json:"revenue_by_month"`
}

type RecentCheckIn struct {
	ID          int       `db:"id" json:"id"`
	MemberID    int       `db:"member_id" json:"member_id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	CheckInTime time.Time `db:"check_in_time" json:"check_in_time"`
}

type MonthlyRevenue struct {
	Month   string  `db:"month" json:"month"`
	Revenue float64 `db:"revenue" json:"revenue"`
}
