package v1

import (
	"context"
	"net/http"

	"github.com/samber/lo"

	"github.com/breeew/peer-api/internal/core"
	"github.com/breeew/peer-api/internal/core/srv"
	"github.com/breeew/peer-api/pkg/errors"
	"github.com/breeew/peer-api/pkg/i18n"
	"github.com/breeew/peer-api/pkg/types"
	"github.com/breeew/peer-api/pkg/window"
)

type ReviewLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewReviewLogic(ctx context.Context, core *core.Core) *ReviewLogic {
	return &ReviewLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: setupUserInfo(ctx, core),
	}
}

// GenerateReviews creates the review obligations of an assignment by hand.
// An assignment that already has reviews is refused with a conflict.
func (l *ReviewLogic) GenerateReviews(assignmentID int64) (int, error) {
	assignment, err := l.core.Store().AssignmentStore().Get(l.ctx, assignmentID)
	if err != nil {
		return 0, storeError("ReviewLogic.GenerateReviews.AssignmentStore.Get", err)
	}
	if err = l.Identification(assignment.WorkspaceID, nil, srv.PermissionManage); err != nil {
		return 0, err
	}

	var created int
	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		var err error
		if created, err = generateReviews(ctx, l.core, assignment); err != nil {
			return errors.Trace("ReviewLogic.GenerateReviews", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (l *ReviewLogic) countSubmission(result string) {
	l.core.Metrics().ReviewSubmissions.WithLabelValues(result).Inc()
}

// SubmitReview records the caller's ratings for one review. The checks run in
// a fixed order: existence, ownership, submission window, rating count and
// rating range. Resubmitting replaces the previous ratings.
func (l *ReviewLogic) SubmitReview(reviewID int64, args types.SubmitReviewArgs) error {
	review, err := l.core.Store().ReviewStore().Get(l.ctx, reviewID)
	if err != nil {
		return storeError("ReviewLogic.SubmitReview.ReviewStore.Get", err)
	}

	if review.UserID != l.GetUserInfo().User {
		l.countSubmission("forbidden")
		return errors.New("ReviewLogic.SubmitReview.Owner", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
	}

	assignment, err := l.core.Store().AssignmentStore().Get(l.ctx, review.AssignmentID)
	if err != nil {
		return storeError("ReviewLogic.SubmitReview.AssignmentStore.Get", err)
	}
	if !window.IsOpen(l.core.Now(), assignment.StartDate, assignment.DueDate) {
		l.countSubmission("closed")
		return errors.New("ReviewLogic.SubmitReview.Window", i18n.ERROR_WINDOW_NOT_OPEN, nil).Code(http.StatusForbidden)
	}

	questions, err := l.core.Store().QuestionStore().ListByAssignment(l.ctx, assignment.ID)
	if err != nil {
		return errors.New("ReviewLogic.SubmitReview.QuestionStore.ListByAssignment", i18n.ERROR_INTERNAL, err)
	}
	if len(args.Ratings) != len(questions) {
		l.countSubmission("rejected")
		return errors.New("ReviewLogic.SubmitReview.RatingCount", i18n.ERROR_RATING_COUNT_MISMATCH, nil).Code(http.StatusBadRequest)
	}
	if args.QuestionIDs != nil {
		expect := lo.Map(questions, func(item types.Question, _ int) int64 { return item.ID })
		if len(args.QuestionIDs) != len(expect) {
			l.countSubmission("rejected")
			return errors.New("ReviewLogic.SubmitReview.QuestionIDs", i18n.ERROR_RATING_COUNT_MISMATCH, nil).Code(http.StatusBadRequest)
		}
		for i := range expect {
			if args.QuestionIDs[i] != expect[i] {
				l.countSubmission("rejected")
				return errors.New("ReviewLogic.SubmitReview.QuestionIDs", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
			}
		}
	}
	for _, r := range args.Ratings {
		if r < types.RATING_MIN || r > types.RATING_MAX {
			l.countSubmission("rejected")
			return errors.New("ReviewLogic.SubmitReview.RatingRange", i18n.ERROR_RATING_OUT_OF_RANGE, nil).Code(http.StatusBadRequest)
		}
	}

	ratings := lo.Map(questions, func(item types.Question, i int) types.Rating {
		return types.Rating{
			ReviewID:   review.ID,
			QuestionID: item.ID,
			Rating:     args.Ratings[i],
		}
	})

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().RatingStore().DeleteByReview(ctx, review.ID); err != nil {
			return errors.New("ReviewLogic.SubmitReview.RatingStore.DeleteByReview", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().RatingStore().BatchCreate(ctx, ratings); err != nil {
			return errors.New("ReviewLogic.SubmitReview.RatingStore.BatchCreate", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().ReviewStore().Complete(ctx, review.ID, args.Comment); err != nil {
			return errors.New("ReviewLogic.SubmitReview.ReviewStore.Complete", i18n.ERROR_INTERNAL, err)
		}
		if _, err := l.core.Store().AnalyticsStore().Recompute(ctx, review.TargetID, review.AssignmentID); err != nil {
			return errors.New("ReviewLogic.SubmitReview.AnalyticsStore.Recompute", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		l.countSubmission("error")
		return err
	}
	l.countSubmission("ok")
	return nil
}

// GetReviewsForUser lists the reviews the caller has to write.
func (l *ReviewLogic) GetReviewsForUser(assignmentID int64) ([]types.Review, error) {
	assignment, err := l.core.Store().AssignmentStore().Get(l.ctx, assignmentID)
	if err != nil {
		return nil, storeError("ReviewLogic.GetReviewsForUser.AssignmentStore.Get", err)
	}
	if err = l.Identification(assignment.WorkspaceID, nil, srv.PermissionView); err != nil {
		return nil, err
	}

	list, err := l.core.Store().ReviewStore().ListByReviewer(l.ctx, assignmentID, l.GetUserInfo().User)
	if err != nil {
		return nil, errors.New("ReviewLogic.GetReviewsForUser.ReviewStore.ListByReviewer", i18n.ERROR_INTERNAL, err)
	}
	return list, nil
}

func (l *ReviewLogic) withRatings(trace string, reviews []types.Review) ([]types.ReviewDetail, error) {
	res := make([]types.ReviewDetail, 0, len(reviews))
	for _, r := range reviews {
		ratings, err := l.core.Store().RatingStore().ListByReview(l.ctx, r.ID)
		if err != nil {
			return nil, errors.New(trace+".RatingStore.ListByReview", i18n.ERROR_INTERNAL, err)
		}
		res = append(res, types.ReviewDetail{
			Review:  r,
			Ratings: ratings,
		})
	}
	return res, nil
}

// GetReviewsForTarget lists the reviews written about targetID. Instructors
// see every review, the target only sees completed ones.
func (l *ReviewLogic) GetReviewsForTarget(assignmentID, targetID int64) ([]types.ReviewDetail, error) {
	assignment, err := l.core.Store().AssignmentStore().Get(l.ctx, assignmentID)
	if err != nil {
		return nil, storeError("ReviewLogic.GetReviewsForTarget.AssignmentStore.Get", err)
	}
	if err = l.Identification(assignment.WorkspaceID, srv.NewFixedRoler(targetID), srv.PermissionManage); err != nil {
		return nil, err
	}
	instructor, err := l.IsInstructor(assignment.WorkspaceID)
	if err != nil {
		return nil, err
	}

	list, err := l.core.Store().ReviewStore().ListByTarget(l.ctx, assignmentID, targetID, !instructor)
	if err != nil {
		return nil, errors.New("ReviewLogic.GetReviewsForTarget.ReviewStore.ListByTarget", i18n.ERROR_INTERNAL, err)
	}
	return l.withRatings("ReviewLogic.GetReviewsForTarget", list)
}

// GetReview is readable by its reviewer and by instructors.
func (l *ReviewLogic) GetReview(reviewID int64) (*types.ReviewDetail, error) {
	review, err := l.core.Store().ReviewStore().Get(l.ctx, reviewID)
	if err != nil {
		return nil, storeError("ReviewLogic.GetReview.ReviewStore.Get", err)
	}
	assignment, err := l.core.Store().AssignmentStore().Get(l.ctx, review.AssignmentID)
	if err != nil {
		return nil, storeError("ReviewLogic.GetReview.AssignmentStore.Get", err)
	}
	if err = l.Identification(assignment.WorkspaceID, srv.NewFixedRoler(review.UserID), srv.PermissionManage); err != nil {
		return nil, err
	}

	detail, err := l.withRatings("ReviewLogic.GetReview", []types.Review{*review})
	if err != nil {
		return nil, err
	}
	return &detail[0], nil
}
