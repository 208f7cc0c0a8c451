package v1_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeew/peer-api/internal/core"
	v1 "github.com/breeew/peer-api/internal/logic/v1"
	"github.com/breeew/peer-api/internal/store/memstore"
	"github.com/breeew/peer-api/pkg/errors"
	"github.com/breeew/peer-api/pkg/security"
	"github.com/breeew/peer-api/pkg/types"
)

const (
	workspaceID = int64(100)

	instructorID = int64(1)
	userA        = int64(2)
	userB        = int64(3)
	userC        = int64(4)
	loner        = int64(5)
	outsider     = int64(6)
)

var (
	startDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	dueDate   = time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	core *core.Core
	db   *memstore.DB
	now  time.Time
}

func (f *fixture) setNow(t time.Time) {
	f.now = t
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:  memstore.New(),
		now: startDate.Add(time.Hour),
	}
	f.core = core.NewCore(core.CoreConfig{}, f.db)
	f.core.SetClock(func() time.Time { return f.now })

	ctx := context.Background()
	require.NoError(t, f.db.WorkspaceStore().Create(ctx, types.Workspace{ID: workspaceID, Name: "course"}))
	require.NoError(t, f.db.WorkspaceStore().Create(ctx, types.Workspace{ID: 200, Name: "other"}))
	require.NoError(t, f.db.GroupStore().Create(ctx, types.Group{ID: 10, WorkspaceID: workspaceID, Name: "g1"}))
	require.NoError(t, f.db.GroupStore().Create(ctx, types.Group{ID: 11, WorkspaceID: workspaceID, Name: "g2"}))

	users := []types.User{
		{ID: instructorID, FirstName: "Ivy", LastName: "Instructor", Email: "ivy@example.com"},
		{ID: userA, FirstName: "Ann", LastName: "Adams", Email: "ann@example.com"},
		{ID: userB, FirstName: "Ben", LastName: "Brown", Email: "ben@example.com"},
		{ID: userC, FirstName: "Cat", LastName: "Clark", Email: "cat@example.com"},
		{ID: loner, FirstName: "Lou", LastName: "Lone", Email: "lou@example.com"},
		{ID: outsider, FirstName: "Otto", LastName: "Out", Email: "otto@example.com"},
	}
	for _, u := range users {
		require.NoError(t, f.db.UserStore().Create(ctx, u))
	}

	g1, g2 := int64(10), int64(11)
	for _, m := range []types.Membership{
		{UserID: instructorID, WorkspaceID: workspaceID, Role: types.ROLE_INSTRUCTOR},
		{UserID: userA, GroupID: &g1, WorkspaceID: workspaceID, Role: types.ROLE_STUDENT},
		{UserID: userB, GroupID: &g1, WorkspaceID: workspaceID, Role: types.ROLE_STUDENT},
		{UserID: userC, GroupID: &g1, WorkspaceID: workspaceID, Role: types.ROLE_STUDENT},
		{UserID: loner, GroupID: &g2, WorkspaceID: workspaceID, Role: types.ROLE_STUDENT},
		{UserID: outsider, WorkspaceID: 200, Role: types.ROLE_INSTRUCTOR},
	} {
		require.NoError(t, f.db.MembershipStore().Create(ctx, m))
	}
	return f
}

func as(userID int64) context.Context {
	return context.WithValue(context.Background(), v1.TOKEN_CONTEXT_KEY, security.NewTokenClaims(userID))
}

// createAssignment makes a two question assignment open between startDate
// and dueDate.
func (f *fixture) createAssignment(t *testing.T) int64 {
	t.Helper()
	id, err := v1.NewAssignmentLogic(as(instructorID), f.core).CreateAssignment(types.CreateAssignmentArgs{
		WorkspaceID: workspaceID,
		Name:        "Sprint 1",
		StartDate:   startDate,
		DueDate:     dueDate,
		Questions:   []string{"Communication", "Delivery"},
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) reviewOf(t *testing.T, assignmentID, reviewer, target int64) types.Review {
	t.Helper()
	list, err := f.db.ReviewStore().ListByReviewer(context.Background(), assignmentID, reviewer)
	require.NoError(t, err)
	for _, r := range list {
		if r.TargetID == target {
			return r
		}
	}
	t.Fatalf("review %d -> %d not found", reviewer, target)
	return types.Review{}
}

func assertCode(t *testing.T, err error, code int, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, errors.HttpCode(err))
	var ce *errors.CustomizedError
	if assert.True(t, errors.As(err, &ce)) && msg != "" {
		assert.Equal(t, msg, ce.Message())
	}
}
