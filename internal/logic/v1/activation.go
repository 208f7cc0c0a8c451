package v1

import (
	"context"
	"net/http"

	"github.com/samber/lo"

	"github.com/breeew/peer-api/internal/core"
	"github.com/breeew/peer-api/internal/store"
	"github.com/breeew/peer-api/pkg/errors"
	"github.com/breeew/peer-api/pkg/i18n"
	"github.com/breeew/peer-api/pkg/types"
	"github.com/breeew/peer-api/pkg/utils"
)

// generateReviews creates every review obligation of the assignment and the
// empty analytics entries of the reviewed users. It must run inside a
// transaction.
func generateReviews(ctx context.Context, core *core.Core, assignment *types.Assignment) (int, error) {
	exist, err := core.Store().ReviewStore().CountByAssignment(ctx, assignment.ID)
	if err != nil {
		return 0, errors.New("generateReviews.ReviewStore.CountByAssignment", i18n.ERROR_INTERNAL, err)
	}
	if exist > 0 {
		return 0, errors.New("generateReviews.ReviewStore.CountByAssignment", i18n.ERROR_EXIST, nil).Code(http.StatusConflict)
	}

	members, err := core.Store().MembershipStore().ListByWorkspace(ctx, assignment.WorkspaceID)
	if err != nil {
		return 0, errors.New("generateReviews.MembershipStore.ListByWorkspace", i18n.ERROR_INTERNAL, err)
	}

	reviews := types.BuildReviewPairs(assignment.ID, members, utils.GenSpecID)
	if len(reviews) == 0 {
		return 0, nil
	}

	if err = core.Store().ReviewStore().BatchCreate(ctx, reviews); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return 0, errors.New("generateReviews.ReviewStore.BatchCreate", i18n.ERROR_EXIST, err).Code(http.StatusConflict)
		}
		return 0, errors.New("generateReviews.ReviewStore.BatchCreate", i18n.ERROR_INTERNAL, err)
	}

	reviewed := lo.Uniq(lo.Map(reviews, func(item types.Review, _ int) int64 {
		return item.TargetID
	}))
	if err = core.Store().AnalyticsStore().Init(ctx, assignment.ID, reviewed); err != nil {
		return 0, errors.New("generateReviews.AnalyticsStore.Init", i18n.ERROR_INTERNAL, err)
	}
	return len(reviews), nil
}

type ActivationResult struct {
	Activated bool `json:"activated"`
	Reviews   int  `json:"reviews"`
}

// ActivateAssignment flips started and generates the reviews in one
// transaction. Activated is false when someone else started it first. Reviews
// generated by hand before the start are kept as they are.
func ActivateAssignment(ctx context.Context, core *core.Core, assignmentID int64) (ActivationResult, error) {
	var res ActivationResult
	err := core.Store().Transaction(ctx, func(ctx context.Context) error {
		ok, err := core.Store().AssignmentStore().MarkStarted(ctx, assignmentID)
		if err != nil {
			return errors.New("ActivateAssignment.AssignmentStore.MarkStarted", i18n.ERROR_INTERNAL, err)
		}
		if !ok {
			return nil
		}
		res.Activated = true

		assignment, err := core.Store().AssignmentStore().Get(ctx, assignmentID)
		if err != nil {
			return storeError("ActivateAssignment.AssignmentStore.Get", err)
		}

		exist, err := core.Store().ReviewStore().CountByAssignment(ctx, assignmentID)
		if err != nil {
			return errors.New("ActivateAssignment.ReviewStore.CountByAssignment", i18n.ERROR_INTERNAL, err)
		}
		if exist > 0 {
			return nil
		}

		if res.Reviews, err = generateReviews(ctx, core, assignment); err != nil {
			return errors.Trace("ActivateAssignment", err)
		}
		return nil
	})
	if err != nil {
		return ActivationResult{}, err
	}
	return res, nil
}
