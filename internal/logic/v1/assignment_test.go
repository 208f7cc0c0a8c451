package v1_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/breeew/peer-api/internal/logic/v1"
	"github.com/breeew/peer-api/pkg/i18n"
	"github.com/breeew/peer-api/pkg/types"
)

func TestCreateAssignment(t *testing.T) {
	f := newFixture(t)
	id := f.createAssignment(t)

	detail, err := v1.NewAssignmentLogic(as(userA), f.core).GetAssignment(id)
	require.NoError(t, err)
	assert.Equal(t, "Sprint 1", detail.Name)
	assert.False(t, detail.Started)
	require.Len(t, detail.Questions, 2)
	assert.Equal(t, 1, detail.Questions[0].Ordinal)
	assert.Equal(t, "Communication", detail.Questions[0].Question)
	assert.Equal(t, 2, detail.Questions[1].Ordinal)
}

func TestCreateAssignmentValidation(t *testing.T) {
	f := newFixture(t)
	logic := v1.NewAssignmentLogic(as(instructorID), f.core)

	_, err := logic.CreateAssignment(types.CreateAssignmentArgs{
		WorkspaceID: workspaceID, Name: " ", StartDate: startDate, DueDate: dueDate, Questions: []string{"q"},
	})
	assertCode(t, err, http.StatusBadRequest, i18n.ERROR_INVALIDARGUMENT)

	_, err = logic.CreateAssignment(types.CreateAssignmentArgs{
		WorkspaceID: workspaceID, Name: "x", StartDate: dueDate, DueDate: startDate, Questions: []string{"q"},
	})
	assertCode(t, err, http.StatusBadRequest, i18n.ERROR_INVALID_DATE)

	_, err = logic.CreateAssignment(types.CreateAssignmentArgs{
		WorkspaceID: workspaceID, Name: "x", StartDate: startDate, DueDate: dueDate,
	})
	assertCode(t, err, http.StatusBadRequest, i18n.ERROR_INVALIDARGUMENT)
}

func TestCreateAssignmentPermissions(t *testing.T) {
	f := newFixture(t)
	args := types.CreateAssignmentArgs{
		WorkspaceID: workspaceID, Name: "x", StartDate: startDate, DueDate: dueDate, Questions: []string{"q"},
	}

	_, err := v1.NewAssignmentLogic(as(userA), f.core).CreateAssignment(args)
	assertCode(t, err, http.StatusForbidden, i18n.ERROR_PERMISSION_DENIED)

	// instructor of another workspace
	_, err = v1.NewAssignmentLogic(as(outsider), f.core).CreateAssignment(args)
	assertCode(t, err, http.StatusForbidden, i18n.ERROR_PERMISSION_DENIED)
}

func TestEditAssignmentQuestionsBeforeStart(t *testing.T) {
	f := newFixture(t)
	id := f.createAssignment(t)
	logic := v1.NewAssignmentLogic(as(instructorID), f.core)

	err := logic.EditAssignment(id, types.EditAssignmentArgs{
		Name: "Sprint 1b", StartDate: startDate, DueDate: dueDate, Questions: []string{"Only"},
	})
	require.NoError(t, err)

	detail, err := logic.GetAssignment(id)
	require.NoError(t, err)
	assert.Equal(t, "Sprint 1b", detail.Name)
	require.Len(t, detail.Questions, 1)
	assert.Equal(t, "Only", detail.Questions[0].Question)

	_, err = logic.ActivateAssignment(id)
	require.NoError(t, err)

	err = logic.EditAssignment(id, types.EditAssignmentArgs{
		Name: "Sprint 1c", StartDate: startDate, DueDate: dueDate, Questions: []string{"a", "b"},
	})
	assertCode(t, err, http.StatusBadRequest, i18n.ERROR_ALREADY_STARTED)

	// fields without questions stay editable
	err = logic.EditAssignment(id, types.EditAssignmentArgs{
		Name: "Sprint 1c", StartDate: startDate, DueDate: dueDate.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	detail, err = logic.GetAssignment(id)
	require.NoError(t, err)
	assert.True(t, detail.Started)
	assert.Len(t, detail.Questions, 1)
}

func TestEditAssignmentQuestionsFrozenOnceReviewsExist(t *testing.T) {
	f := newFixture(t)
	id := f.createAssignment(t)
	ctx := context.Background()

	_, err := v1.NewReviewLogic(as(instructorID), f.core).GenerateReviews(id)
	require.NoError(t, err)
	ab := f.reviewOf(t, id, userA, userB)
	require.NoError(t, v1.NewReviewLogic(as(userA), f.core).SubmitReview(ab.ID, types.SubmitReviewArgs{
		Ratings: []int{4, 5},
	}))

	logic := v1.NewAssignmentLogic(as(instructorID), f.core)
	err = logic.EditAssignment(id, types.EditAssignmentArgs{
		Name: "Sprint 1b", StartDate: startDate, DueDate: dueDate, Questions: []string{"a", "b", "c"},
	})
	assertCode(t, err, http.StatusBadRequest, i18n.ERROR_ALREADY_STARTED)

	detail, err := logic.GetAssignment(id)
	require.NoError(t, err)
	assert.False(t, detail.Started)
	assert.Equal(t, "Sprint 1", detail.Name)
	assert.Len(t, detail.Questions, 2)

	ratings, err := f.db.RatingStore().ListByReview(ctx, ab.ID)
	require.NoError(t, err)
	assert.Len(t, ratings, 2)

	entry, err := f.db.AnalyticsStore().Get(ctx, userB, id)
	require.NoError(t, err)
	require.NotNil(t, entry.AverageRating)
	assert.Equal(t, 4.5, *entry.AverageRating)
}

func TestDeleteAssignmentCascades(t *testing.T) {
	f := newFixture(t)
	id := f.createAssignment(t)
	logic := v1.NewAssignmentLogic(as(instructorID), f.core)

	_, err := logic.ActivateAssignment(id)
	require.NoError(t, err)
	require.NoError(t, logic.DeleteAssignment(id))

	_, err = logic.GetAssignment(id)
	assertCode(t, err, http.StatusNotFound, i18n.ERROR_NOTFOUND)

	n, err := f.db.ReviewStore().CountByAssignment(context.Background(), id)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestManualActivation(t *testing.T) {
	f := newFixture(t)
	id := f.createAssignment(t)
	logic := v1.NewAssignmentLogic(as(instructorID), f.core)

	res, err := logic.ActivateAssignment(id)
	require.NoError(t, err)
	assert.True(t, res.Activated)
	// group of three -> 3*2, group of one -> 0
	assert.Equal(t, 6, res.Reviews)

	_, err = logic.ActivateAssignment(id)
	assertCode(t, err, http.StatusConflict, i18n.ERROR_ALREADY_STARTED)

	list, err := logic.ListAssignments(workspaceID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Started)
}

func TestActivationKeepsManualReviews(t *testing.T) {
	f := newFixture(t)
	id := f.createAssignment(t)

	created, err := v1.NewReviewLogic(as(instructorID), f.core).GenerateReviews(id)
	require.NoError(t, err)
	assert.Equal(t, 6, created)

	res, err := v1.ActivateAssignment(context.Background(), f.core, id)
	require.NoError(t, err)
	assert.True(t, res.Activated)
	assert.Zero(t, res.Reviews)

	n, err := f.db.ReviewStore().CountByAssignment(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
}
