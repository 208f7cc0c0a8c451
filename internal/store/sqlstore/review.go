package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/breeew/peer-api/internal/store"
	"github.com/breeew/peer-api/pkg/register"
	"github.com/breeew/peer-api/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.ReviewStore = NewReviewStore(provider)
		provider.stores.RatingStore = NewRatingStore(provider)
	})
}

type ReviewStore struct {
	CommonFields
}

func NewReviewStore(provider SqlProviderAchieve) *ReviewStore {
	repo := &ReviewStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_REVIEW)
	repo.SetAllColumns("id", "assignment_id", "group_id", "user_id", "target_id", "completed", "comment")
	return repo
}

// BatchCreate inserts reviews with parameterized multi-row statements. Hitting
// the (assignment_id, user_id, target_id) constraint yields store.ErrDuplicate.
func (s *ReviewStore) BatchCreate(ctx context.Context, data []types.Review) error {
	for _, chunk := range lo.Chunk(data, batchSize) {
		query := sq.Insert(s.GetTable()).Columns("id", "assignment_id", "group_id", "user_id", "target_id", "completed", "comment")
		for _, v := range chunk {
			query = query.Values(v.ID, v.AssignmentID, v.GroupID, v.UserID, v.TargetID, v.Completed, v.Comment)
		}

		queryString, args, err := query.ToSql()
		if err != nil {
			return ErrorSqlBuild(err)
		}

		if _, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...); err != nil {
			if IsUniqueViolation(err) {
				return store.ErrDuplicate
			}
			return err
		}
	}
	return nil
}

func (s *ReviewStore) Get(ctx context.Context, id int64) (*types.Review, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Review
	if err = s.GetReplica(ctx).GetContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *ReviewStore) CountByAssignment(ctx context.Context, assignmentID int64) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable()).Where(sq.Eq{"assignment_id": assignmentID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var res int64
	if err = s.GetReplica(ctx).GetContext(ctx, &res, queryString, args...); err != nil {
		return 0, err
	}
	return res, nil
}

func (s *ReviewStore) ListByReviewer(ctx context.Context, assignmentID, userID int64) ([]types.Review, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"assignment_id": assignmentID, "user_id": userID}).
		OrderBy("target_id")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Review
	if err = s.GetReplica(ctx).SelectContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ReviewStore) ListByTarget(ctx context.Context, assignmentID, targetID int64, onlyCompleted bool) ([]types.Review, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"assignment_id": assignmentID, "target_id": targetID}).
		OrderBy("user_id")
	if onlyCompleted {
		query = query.Where(sq.Eq{"completed": true})
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Review
	if err = s.GetReplica(ctx).SelectContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ReviewStore) Complete(ctx context.Context, id int64, comment *string) error {
	query := sq.Update(s.GetTable()).
		Set("completed", true).
		Set("comment", comment).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}

// DeleteByAssignment removes reviews, ratings follow through ON DELETE CASCADE.
func (s *ReviewStore) DeleteByAssignment(ctx context.Context, assignmentID int64) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"assignment_id": assignmentID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}

const (
	completedExpr = "COUNT(*) FILTER (WHERE r.completed)"
	totalExpr     = "COUNT(*)"
)

// completionQuery groups the reviewer side of an assignment and keeps only
// reviewers below 100%.
func (s *ReviewStore) completionQuery(assignmentID int64) sq.SelectBuilder {
	return sq.Select(
		"r.user_id",
		"u.first_name",
		"u.last_name",
		completedExpr+" AS completed_reviews",
		totalExpr+" AS total_reviews",
	).
		From(s.GetTable() + " r").
		Join(types.TABLE_USER.Name() + " u ON u.id = r.user_id").
		Where(sq.Eq{"r.assignment_id": assignmentID}).
		GroupBy("r.user_id", "u.first_name", "u.last_name").
		Having(completedExpr + " < " + totalExpr)
}

func (s *ReviewStore) ListCompletion(ctx context.Context, assignmentID int64, page, pageSize uint64) ([]types.CompletionRow, error) {
	query := s.completionQuery(assignmentID).
		OrderBy(
			"("+completedExpr+")::float / "+totalExpr+" ASC",
			"u.last_name ASC",
			"u.first_name ASC",
			"r.user_id ASC",
		)
	if pageSize != 0 {
		query = query.Limit(pageSize).Offset(offset(page, pageSize))
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.CompletionRow
	if err = s.GetReplica(ctx).SelectContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ReviewStore) TotalCompletion(ctx context.Context, assignmentID int64) (int64, error) {
	query := sq.Select("COUNT(*)").FromSelect(s.completionQuery(assignmentID), "t")

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var res int64
	if err = s.GetReplica(ctx).GetContext(ctx, &res, queryString, args...); err != nil {
		return 0, err
	}
	return res, nil
}

type RatingStore struct {
	CommonFields
}

func NewRatingStore(provider SqlProviderAchieve) *RatingStore {
	repo := &RatingStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_RATING)
	repo.SetAllColumns("review_id", "question_id", "rating")
	return repo
}

func (s *RatingStore) BatchCreate(ctx context.Context, data []types.Rating) error {
	for _, chunk := range lo.Chunk(data, batchSize) {
		query := sq.Insert(s.GetTable()).Columns("review_id", "question_id", "rating")
		for _, v := range chunk {
			query = query.Values(v.ReviewID, v.QuestionID, v.Rating)
		}

		queryString, args, err := query.ToSql()
		if err != nil {
			return ErrorSqlBuild(err)
		}

		if _, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...); err != nil {
			return err
		}
	}
	return nil
}

// ListByReview returns ratings in question order.
func (s *RatingStore) ListByReview(ctx context.Context, reviewID int64) ([]types.Rating, error) {
	query := sq.Select("ra.review_id", "ra.question_id", "ra.rating").
		From(s.GetTable() + " ra").
		Join(types.TABLE_QUESTION.Name() + " q ON q.id = ra.question_id").
		Where(sq.Eq{"ra.review_id": reviewID}).
		OrderBy("q.ordinal")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Rating
	if err = s.GetReplica(ctx).SelectContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *RatingStore) DeleteByReview(ctx context.Context, reviewID int64) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"review_id": reviewID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}
