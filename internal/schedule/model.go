package schedule

import "time"

type Item struct {
	ID        int    `db:"id" json:"id"`
	MemberID  int    `db:"member_id" json:"member_id"`
	DayOfWeek string `db:"day_of_week" json:"day_of_week"`
	Activity  string `db:"activity" json:"activity"`
	Time      string `db:"time" json:"time"`
	Type      string `db:"type" json:"type"`
	Trainer   string `db:"trainer" json:"trainer"`
}

type Completion struct {
	ID             int       `db:"id" json:"id"`
	MemberID       int       `db:"member_id" json:"member_id"`
	ScheduleItemID int       `db:"schedule_item_id" json:"schedule_item_id"`
	CompletionDate string    `db:"completion_date" json:"completion_date"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type AddItemRequest struct {
	DayOfWeek string `json:"day_of_week" binding:"required,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	Activity  string `json:"activity" binding:"required"`
	Time      string `json:"time"`
	Type      string `json:"type" binding:"omitempty,oneof=Gym Class"`
	Trainer   string `json:"trainer"`
}

type ToggleCompletionResponse struct {
	Completed bool   `json:"completed"`
	Message   string `json:"message"`
}
