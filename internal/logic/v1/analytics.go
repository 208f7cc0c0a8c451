package v1

import (
	"context"

	"github.com/breeew/peer-api/internal/core"
	"github.com/breeew/peer-api/internal/core/srv"
	"github.com/breeew/peer-api/pkg/errors"
	"github.com/breeew/peer-api/pkg/i18n"
	"github.com/breeew/peer-api/pkg/types"
)

type AnalyticsLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewAnalyticsLogic(ctx context.Context, core *core.Core) *AnalyticsLogic {
	return &AnalyticsLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: setupUserInfo(ctx, core),
	}
}

func (l *AnalyticsLogic) checkInstructor(trace string, assignmentID int64) error {
	assignment, err := l.core.Store().AssignmentStore().Get(l.ctx, assignmentID)
	if err != nil {
		return storeError(trace+".AssignmentStore.Get", err)
	}
	return l.Identification(assignment.WorkspaceID, nil, srv.PermissionManage)
}

// RankedAverages lists users with at least one completed incoming review,
// lowest average first.
func (l *AnalyticsLogic) RankedAverages(assignmentID int64, page, perPage int) ([]types.RankedAverage, error) {
	if err := l.checkInstructor("AnalyticsLogic.RankedAverages", assignmentID); err != nil {
		return nil, err
	}

	p, size := normalizePage(page, perPage)
	list, err := l.core.Store().AnalyticsStore().ListRankedAverages(l.ctx, assignmentID, p, size)
	if err != nil {
		return nil, errors.New("AnalyticsLogic.RankedAverages.AnalyticsStore.ListRankedAverages", i18n.ERROR_INTERNAL, err)
	}
	if list == nil {
		list = []types.RankedAverage{}
	}
	return list, nil
}

// RankedCompletion lists reviewers that still have open reviews, least
// complete first.
func (l *AnalyticsLogic) RankedCompletion(assignmentID int64, page, perPage int) (*types.CompletionPage, error) {
	if err := l.checkInstructor("AnalyticsLogic.RankedCompletion", assignmentID); err != nil {
		return nil, err
	}

	p, size := normalizePage(page, perPage)
	total, err := l.core.Store().ReviewStore().TotalCompletion(l.ctx, assignmentID)
	if err != nil {
		return nil, errors.New("AnalyticsLogic.RankedCompletion.ReviewStore.TotalCompletion", i18n.ERROR_INTERNAL, err)
	}

	res := &types.CompletionPage{
		TotalResults: total,
		Results:      []types.CompletionRow{},
	}
	if total == 0 {
		return res, nil
	}

	list, err := l.core.Store().ReviewStore().ListCompletion(l.ctx, assignmentID, p, size)
	if err != nil {
		return nil, errors.New("AnalyticsLogic.RankedCompletion.ReviewStore.ListCompletion", i18n.ERROR_INTERNAL, err)
	}
	if list != nil {
		res.Results = list
	}
	return res, nil
}

// Recompute rebuilds the average of targetID from scratch.
func (l *AnalyticsLogic) Recompute(targetID, assignmentID int64) (*types.Analytics, error) {
	if err := l.checkInstructor("AnalyticsLogic.Recompute", assignmentID); err != nil {
		return nil, err
	}

	var res *types.Analytics
	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		var err error
		if res, err = l.core.Store().AnalyticsStore().Recompute(ctx, targetID, assignmentID); err != nil {
			return errors.New("AnalyticsLogic.Recompute.AnalyticsStore.Recompute", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
