package workout

import "time"

type Plan struct {
	ID              int       `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	DifficultyLevel *string   `db:"difficulty_level" json:"difficulty_level,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	Items           []Item    `json:"items"`
}

type Item struct {
	ID        int    `db:"id" json:"id"`
	PlanID    int    `db:"plan_id" json:"plan_id"`
	DayOfWeek string `db:"day_of_week" json:"day_of_week"`
	Activity  string `db:"activity" json:"activity"`
	Time      string `db:"time" json:"time"`
	Type      string `db:"type" json:"type"`
	Trainer   string `db:"trainer" json:"trainer"`
}

type CreateItemRequest struct {
	DayOfWeek string `json:"day_of_week" binding:"required,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	Activity  string `json:"activity" binding:"required"`
	Time      string `json:"time"`
	Type      string `json:"type" binding:"omitempty,oneof=Gym Class"`
	Trainer   string `json:"trainer"`
}

type CreatePlanRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description *string             `json:"description"`
	Difficulty  *string             `json:"difficulty"`
	Items       []CreateItemRequest `json:"items"`
}

type AssignPlanRequest struct {
	PlanID    int   `json:"plan_id" binding:"required"`
	MemberIDs []int `json:"member_ids" binding:"required,min=1"`
}
