package sqlstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeew/peer-api/pkg/types"
	"github.com/breeew/peer-api/pkg/utils"
)

type dsn string

func (d dsn) FormatDSN() string { return string(d) }

// setupPostgres connects to the database named by PEER_API_TEST_POSTGRESQL_DSN
// and applies the schema. Tests are skipped without it.
func setupPostgres(t *testing.T) *Provider {
	t.Helper()
	raw := os.Getenv("PEER_API_TEST_POSTGRESQL_DSN")
	if raw == "" {
		t.Skip("PEER_API_TEST_POSTGRESQL_DSN not set")
	}
	p := MustSetup(dsn(raw))()
	require.NoError(t, p.Install(context.Background()))
	return p
}

// analyticsFixture builds one group of three users on a two question
// assignment and returns the ids.
type analyticsFixture struct {
	workspaceID  int64
	assignmentID int64
	a, b, c      int64
	questions    []types.Question
}

func newAnalyticsFixture(t *testing.T, p *Provider) *analyticsFixture {
	t.Helper()
	ctx := context.Background()
	f := &analyticsFixture{
		workspaceID:  utils.GenSpecID(),
		assignmentID: utils.GenSpecID(),
		a:            utils.GenSpecID(),
		b:            utils.GenSpecID(),
		c:            utils.GenSpecID(),
	}
	groupID := utils.GenSpecID()

	require.NoError(t, p.WorkspaceStore().Create(ctx, types.Workspace{ID: f.workspaceID, Name: "integration"}))
	t.Cleanup(func() {
		_ = p.WorkspaceStore().Delete(context.Background(), f.workspaceID)
		_, _ = p.GetMaster(context.Background()).ExecContext(context.Background(),
			"DELETE FROM "+types.TABLE_USER.Name()+" WHERE id = ANY($1)", pq.Array([]int64{f.a, f.b, f.c}))
	})
	require.NoError(t, p.GroupStore().Create(ctx, types.Group{ID: groupID, WorkspaceID: f.workspaceID, Name: "g1"}))

	for _, u := range []types.User{
		{ID: f.a, FirstName: "Ann", LastName: "Adams", Email: utils.GenSpecIDStr() + "@example.com"},
		{ID: f.b, FirstName: "Ben", LastName: "Brown", Email: utils.GenSpecIDStr() + "@example.com"},
		{ID: f.c, FirstName: "Cat", LastName: "Clark", Email: utils.GenSpecIDStr() + "@example.com"},
	} {
		require.NoError(t, p.UserStore().Create(ctx, u))
		require.NoError(t, p.MembershipStore().Create(ctx, types.Membership{
			UserID: u.ID, GroupID: &groupID, WorkspaceID: f.workspaceID, Role: types.ROLE_STUDENT,
		}))
	}

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, p.AssignmentStore().Create(ctx, types.Assignment{
		ID: f.assignmentID, WorkspaceID: f.workspaceID, Name: "Sprint 1",
		StartDate: start, DueDate: start.AddDate(0, 0, 7), CreatedAt: start,
	}))
	f.questions = []types.Question{
		{ID: utils.GenSpecID(), AssignmentID: f.assignmentID, Ordinal: 1, Question: "Communication"},
		{ID: utils.GenSpecID(), AssignmentID: f.assignmentID, Ordinal: 2, Question: "Delivery"},
	}
	require.NoError(t, p.QuestionStore().BatchCreate(ctx, f.questions))

	members, err := p.MembershipStore().ListByWorkspace(ctx, f.workspaceID)
	require.NoError(t, err)
	reviews := types.BuildReviewPairs(f.assignmentID, members, utils.GenSpecID)
	require.Len(t, reviews, 6)
	require.NoError(t, p.ReviewStore().BatchCreate(ctx, reviews))
	require.NoError(t, p.AnalyticsStore().Init(ctx, f.assignmentID, []int64{f.a, f.b, f.c}))
	return f
}

func (f *analyticsFixture) submit(t *testing.T, p *Provider, reviewer, target int64, ratings ...int) {
	t.Helper()
	ctx := context.Background()
	list, err := p.ReviewStore().ListByReviewer(ctx, f.assignmentID, reviewer)
	require.NoError(t, err)

	for _, r := range list {
		if r.TargetID != target {
			continue
		}
		var rows []types.Rating
		for i, q := range f.questions {
			rows = append(rows, types.Rating{ReviewID: r.ID, QuestionID: q.ID, Rating: ratings[i]})
		}
		require.NoError(t, p.RatingStore().BatchCreate(ctx, rows))
		require.NoError(t, p.ReviewStore().Complete(ctx, r.ID, nil))
		_, err = p.AnalyticsStore().Recompute(ctx, target, f.assignmentID)
		require.NoError(t, err)
		return
	}
	t.Fatalf("review %d -> %d not found", reviewer, target)
}

func TestPostgresRankedAnalytics(t *testing.T) {
	p := setupPostgres(t)
	f := newAnalyticsFixture(t, p)
	ctx := context.Background()

	f.submit(t, p, f.a, f.b, 4, 5)
	f.submit(t, p, f.c, f.b, 3, 3)
	f.submit(t, p, f.a, f.c, 4, 5)
	f.submit(t, p, f.b, f.c, 3, 3)

	// nobody rated a yet
	res, err := p.AnalyticsStore().Recompute(ctx, f.a, f.assignmentID)
	require.NoError(t, err)
	assert.Nil(t, res.AverageRating)

	entry, err := p.AnalyticsStore().Get(ctx, f.b, f.assignmentID)
	require.NoError(t, err)
	require.NotNil(t, entry.AverageRating)
	assert.Equal(t, 3.75, *entry.AverageRating)

	averages, err := p.AnalyticsStore().ListRankedAverages(ctx, f.assignmentID, 1, 10)
	require.NoError(t, err)
	require.Len(t, averages, 2)
	// equal averages fall back to last name
	assert.Equal(t, f.b, averages[0].UserID)
	assert.Equal(t, f.c, averages[1].UserID)
	assert.Equal(t, 3.75, averages[1].AverageRating)

	page2, err := p.AnalyticsStore().ListRankedAverages(ctx, f.assignmentID, 2, 1)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, f.c, page2[0].UserID)
}

func TestPostgresRankedCompletion(t *testing.T) {
	p := setupPostgres(t)
	f := newAnalyticsFixture(t, p)
	ctx := context.Background()

	// a finishes both reviews, b and c finish one of two
	f.submit(t, p, f.a, f.b, 4, 5)
	f.submit(t, p, f.a, f.c, 4, 5)
	f.submit(t, p, f.b, f.c, 3, 3)
	f.submit(t, p, f.c, f.b, 3, 3)

	total, err := p.ReviewStore().TotalCompletion(ctx, f.assignmentID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	rows, err := p.ReviewStore().ListCompletion(ctx, f.assignmentID, 1, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, f.b, rows[0].UserID)
	assert.Equal(t, f.c, rows[1].UserID)
	for _, row := range rows {
		assert.Equal(t, int64(1), row.CompletedReviews)
		assert.Equal(t, int64(2), row.TotalReviews)
	}
}
