package types

import "time"

type Assignment struct {
	ID          int64     `json:"id" db:"id"`
	WorkspaceID int64     `json:"workspace_id" db:"workspace_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	DueDate     time.Time `json:"due_date" db:"due_date"`
	Started     bool      `json:"started" db:"started"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Question struct {
	ID           int64  `json:"id" db:"id"`
	AssignmentID int64  `json:"assignment_id" db:"assignment_id"`
	Ordinal      int    `json:"ordinal" db:"ordinal"`
	Question     string `json:"question" db:"question"`
}

type AssignmentDetail struct {
	Assignment
	Questions []Question `json:"questions"`
}

type CreateAssignmentArgs struct {
	WorkspaceID int64
	Name        string
	Description string
	StartDate   time.Time
	DueDate     time.Time
	Questions   []string
}

type EditAssignmentArgs struct {
	Name        string
	Description string
	StartDate   time.Time
	DueDate     time.Time
	// Questions replaces the question set when non-nil, only allowed before start.
	Questions []string
}
