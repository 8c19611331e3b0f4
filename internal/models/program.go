package models

import "time"

const (
	AssignmentActive    = "ACTIVE"
	AssignmentCompleted = "COMPLETED"
)

type Program struct {
	ID          int64     `json:"id"`
	CoachID     *int64    `json:"coach_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Assignment struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ProgramID   int64     `json:"program_id"`
	ProgramName string    `json:"program_name,omitempty"`
	Status      string    `json:"status"`
	StartDate   time.Time `json:"start_date"`
}
