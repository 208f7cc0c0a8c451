package types

import "time"

const (
	ROLE_INSTRUCTOR = "instructor"
	ROLE_STUDENT    = "student"
)

type User struct {
	ID        int64     `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Workspace struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Group struct {
	ID          int64  `json:"id" db:"id"`
	WorkspaceID int64  `json:"workspace_id" db:"workspace_id"`
	Name        string `json:"name" db:"name"`
}

// Membership binds a user to a workspace with one role. Instructors usually
// carry no group.
type Membership struct {
	UserID      int64  `json:"user_id" db:"user_id"`
	GroupID     *int64 `json:"group_id" db:"group_id"`
	WorkspaceID int64  `json:"workspace_id" db:"workspace_id"`
	Role        string `json:"role" db:"role"`
}

func (m Membership) IsInstructor() bool {
	return m.Role == ROLE_INSTRUCTOR
}
