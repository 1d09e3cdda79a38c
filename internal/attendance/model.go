package attendance

import "time"

const (
	MethodManual      = "manual"
	MethodFingerprint = "fingerprint"

	DirectionIn  = "in"
	DirectionOut = "out"
)

type Record struct {
	ID           int        `db:"id" json:"id"`
	MemberID     int        `db:"member_id" json:"member_id"`
	Date         time.Time  `db:"date" json:"date"`
	CheckInTime  time.Time  `db:"check_in_time" json:"check_in_time"`
	CheckOutTime *time.Time `db:"check_out_time" json:"check_out_time,omitempty"`
	Method       string     `db:"method" json:"method"`
}

type RecordWithMember struct {
	Record
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

type MarkRequest struct {
	MemberID int    `json:"member_id" binding:"required"`
	Type     string `json:"type" binding:"required,oneof=in out"`
}

type MarkMember struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type MarkResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Member  MarkMember `json:"member"`
}
