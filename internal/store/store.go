package store

import (
	"context"
	"errors"
	"time"

	"github.com/breeew/peer-api/pkg/types"
)

// Provider is the persistence surface the logic layer works against.
type Provider interface {
	Transaction(ctx context.Context, f func(ctx context.Context) error) error

	UserStore() UserStore
	WorkspaceStore() WorkspaceStore
	GroupStore() GroupStore
	MembershipStore() MembershipStore
	AssignmentStore() AssignmentStore
	QuestionStore() QuestionStore
	ReviewStore() ReviewStore
	RatingStore() RatingStore
	AnalyticsStore() AnalyticsStore
	JournalAssignmentStore() JournalAssignmentStore
	JournalEntryStore() JournalEntryStore
}

type UserStore interface {
	Create(ctx context.Context, data types.User) error
	Get(ctx context.Context, id int64) (*types.User, error)
	ListByIDs(ctx context.Context, ids []int64) ([]types.User, error)
}

type WorkspaceStore interface {
	Create(ctx context.Context, data types.Workspace) error
	Get(ctx context.Context, id int64) (*types.Workspace, error)
	Delete(ctx context.Context, id int64) error
}

type GroupStore interface {
	Create(ctx context.Context, data types.Group) error
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]types.Group, error)
}

type MembershipStore interface {
	Create(ctx context.Context, data types.Membership) error
	// GetRole returns sql.ErrNoRows when the user is not part of the workspace.
	GetRole(ctx context.Context, userID, workspaceID int64) (*types.Membership, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]types.Membership, error)
}

type AssignmentStore interface {
	Create(ctx context.Context, data types.Assignment) error
	Get(ctx context.Context, id int64) (*types.Assignment, error)
	Update(ctx context.Context, id int64, data types.Assignment) error
	Delete(ctx context.Context, id int64) error
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]types.Assignment, error)
	// ListPendingStart lists assignments not started whose start date is at or before before.
	ListPendingStart(ctx context.Context, before time.Time) ([]types.Assignment, error)
	// MarkStarted flips started false->true and reports whether this call did it.
	MarkStarted(ctx context.Context, id int64) (bool, error)
}

type QuestionStore interface {
	BatchCreate(ctx context.Context, data []types.Question) error
	// ListByAssignment returns questions ordered by ordinal.
	ListByAssignment(ctx context.Context, assignmentID int64) ([]types.Question, error)
	DeleteByAssignment(ctx context.Context, assignmentID int64) error
}

type ReviewStore interface {
	BatchCreate(ctx context.Context, data []types.Review) error
	Get(ctx context.Context, id int64) (*types.Review, error)
	CountByAssignment(ctx context.Context, assignmentID int64) (int64, error)
	ListByReviewer(ctx context.Context, assignmentID, userID int64) ([]types.Review, error)
	ListByTarget(ctx context.Context, assignmentID, targetID int64, onlyCompleted bool) ([]types.Review, error)
	Complete(ctx context.Context, id int64, comment *string) error
	DeleteByAssignment(ctx context.Context, assignmentID int64) error
	// ListCompletion ranks reviewers that still have open reviews.
	ListCompletion(ctx context.Context, assignmentID int64, page, pageSize uint64) ([]types.CompletionRow, error)
	TotalCompletion(ctx context.Context, assignmentID int64) (int64, error)
}

type RatingStore interface {
	BatchCreate(ctx context.Context, data []types.Rating) error
	ListByReview(ctx context.Context, reviewID int64) ([]types.Rating, error)
	DeleteByReview(ctx context.Context, reviewID int64) error
}

type AnalyticsStore interface {
	// Init creates empty entries for the users, keeping existing ones.
	Init(ctx context.Context, assignmentID int64, userIDs []int64) error
	// Recompute rescans completed ratings targeting userID and upserts the mean.
	Recompute(ctx context.Context, userID, assignmentID int64) (*types.Analytics, error)
	Get(ctx context.Context, userID, assignmentID int64) (*types.Analytics, error)
	ListRankedAverages(ctx context.Context, assignmentID int64, page, pageSize uint64) ([]types.RankedAverage, error)
	DeleteByAssignment(ctx context.Context, assignmentID int64) error
}

type JournalAssignmentStore interface {
	BatchCreate(ctx context.Context, data []types.JournalAssignment) error
	Get(ctx context.Context, id int64) (*types.JournalAssignment, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]types.JournalAssignment, error)
	DeleteByWorkspace(ctx context.Context, workspaceID int64) error
}

type JournalEntryStore interface {
	Upsert(ctx context.Context, data types.JournalEntry) error
	Get(ctx context.Context, journalAssignmentID, userID int64) (*types.JournalEntry, error)
}

// ErrDuplicate is returned when a write hits a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")
