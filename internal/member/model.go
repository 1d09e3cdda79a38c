package member

import "time"

const (
	StatusActive   = "active"
	StatusExpired  = "expired"
	StatusInactive = "inactive"
)

type Member struct {
	ID           int        `db:"id" json:"id"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	Email        *string    `db:"email" json:"email,omitempty"`
	Phone        string     `db:"phone" json:"phone"`
	NIC          *string    `db:"nic" json:"nic,omitempty"`
	DOB          *time.Time `db:"dob" json:"dob,omitempty"`
	Gender       *string    `db:"gender" json:"gender,omitempty"`
	Address      *string    `db:"address" json:"address,omitempty"`
	Status       string     `db:"status" json:"status"`
	ActivePlanID *int       `db:"active_plan_id" json:"active_plan_id,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// MembershipSummary is the member's latest membership joined with its plan.
type MembershipSummary struct {
	ID        int       `db:"id" json:"id"`
	PlanID    int       `db:"plan_id" json:"plan_id"`
	PlanName  string    `db:"plan_name" json:"plan_name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Status    string    `db:"status" json:"status"`
	Amount    float64   `db:"amount" json:"amount"`
}

type CreateMemberRequest struct {
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Phone     string  `json:"phone" binding:"required"`
	Email     *string `json:"email"`
	NIC       *string `json:"nic"`
	DOB       *string `json:"dob"`
	Gender    *string `json:"gender"`
	Address   *string `json:"address"`
}

type UpdateMemberRequest struct {
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Phone     string  `json:"phone" binding:"required"`
	Email     *string `json:"email"`
	NIC       *string `json:"nic"`
	DOB       *string `json:"dob"`
	Gender    *string `json:"gender"`
	Address   *string `json:"address"`
	Status    string  `json:"status" binding:"required,oneof=active expired inactive"`
}
