package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type JournalAssignment struct {
	ID          int64     `json:"id" db:"id"`
	WorkspaceID int64     `json:"workspace_id" db:"workspace_id"`
	Name        string    `json:"name" db:"name"`
	WeekNumber  int       `json:"week_number" db:"week_number"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
}

// JournalContent is editor.js block JSON stored as jsonb.
type JournalContent json.RawMessage

func (c JournalContent) Value() (driver.Value, error) {
	if len(c) == 0 {
		return nil, nil
	}
	return string(c), nil
}

func (c *JournalContent) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = nil
	case []byte:
		*c = append((*c)[:0], v...)
	case string:
		*c = JournalContent(v)
	default:
		return fmt.Errorf("unsupported journal content type %T", src)
	}
	return nil
}

func (c JournalContent) MarshalJSON() ([]byte, error) {
	if len(c) == 0 {
		return []byte("null"), nil
	}
	return c, nil
}

func (c *JournalContent) UnmarshalJSON(data []byte) error {
	*c = append((*c)[:0], data...)
	return nil
}

type JournalEntry struct {
	JournalAssignmentID int64          `json:"journal_assignment_id" db:"journal_assignment_id"`
	UserID              int64          `json:"user_id" db:"user_id"`
	Content             JournalContent `json:"content" db:"content"`
	SubmittedAt         time.Time      `json:"submitted_at" db:"submitted_at"`
}

type JournalEntryDetail struct {
	JournalEntry
	Markdown string `json:"markdown"`
}

type CreateJournalAssignmentsArgs struct {
	StartDate string
	EndDate   string
	Weekday   time.Weekday
	SkipWeeks []int
}

type WeekClassification struct {
	Past    []int `json:"past"`
	Current []int `json:"current"`
	Future  []int `json:"future"`
}
