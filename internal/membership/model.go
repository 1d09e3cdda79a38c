package membership

import "time"

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

type Plan struct {
	ID             int     `db:"id" json:"id"`
	Name           string  `db:"name" json:"name"`
	DurationMonths int     `db:"duration_months" json:"duration_months"`
	Price          float64 `db:"price" json:"price"`
	Description    *string `db:"description" json:"description,omitempty"`
}

type Membership struct {
	ID        int       `db:"id" json:"id"`
	MemberID  int       `db:"member_id" json:"member_id"`
	PlanID    int       `db:"plan_id" json:"plan_id"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Status    string    `db:"status" json:"status"`
	Amount    float64   `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type PendingMembership struct {
	Membership
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	PlanName  string `db:"plan_name" json:"plan_name"`
}

type RequestMembershipRequest struct {
	MemberID      int    `json:"member_id" binding:"required"`
	PlanID        int    `json:"plan_id" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}
