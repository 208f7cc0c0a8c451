package sqlstore

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/breeew/peer-api/pkg/register"
	"github.com/breeew/peer-api/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.AnalyticsStore = NewAnalyticsStore(provider)
	})
}

type AnalyticsStore struct {
	CommonFields
}

func NewAnalyticsStore(provider SqlProviderAchieve) *AnalyticsStore {
	repo := &AnalyticsStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_ANALYTICS)
	repo.SetAllColumns("user_id", "assignment_id", "average_rating")
	return repo
}

func (s *AnalyticsStore) Init(ctx context.Context, assignmentID int64, userIDs []int64) error {
	for _, chunk := range lo.Chunk(lo.Uniq(userIDs), batchSize) {
		query := sq.Insert(s.GetTable()).Columns("user_id", "assignment_id", "average_rating")
		for _, id := range chunk {
			query = query.Values(id, assignmentID, nil)
		}
		query = query.Suffix("ON CONFLICT (user_id, assignment_id) DO NOTHING")

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

// Recompute always rescans every rating of the completed reviews targeting
// userID, so running it twice over the same ratings stores the same value.
func (s *AnalyticsStore) Recompute(ctx context.Context, userID, assignmentID int64) (*types.Analytics, error) {
	avgQuery := sq.Select("ROUND(AVG(ra.rating)::numeric, 2)").
		From(types.TABLE_RATING.Name() + " ra").
		Join(types.TABLE_REVIEW.Name() + " r ON r.id = ra.review_id").
		Where(sq.Eq{"r.target_id": userID, "r.assignment_id": assignmentID, "r.completed": true})

	queryString, args, err := avgQuery.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	// reads go through master: the caller usually holds the transaction that
	// just wrote the ratings.
	var avg sql.NullFloat64
	if err = s.GetMaster(ctx).GetContext(ctx, &avg, queryString, args...); err != nil {
		return nil, err
	}

	res := &types.Analytics{
		UserID:       userID,
		AssignmentID: assignmentID,
	}
	if avg.Valid {
		res.AverageRating = &avg.Float64
	}

	upsert := sq.Insert(s.GetTable()).
		Columns("user_id", "assignment_id", "average_rating").
		Values(userID, assignmentID, res.AverageRating).
		Suffix("ON CONFLICT (user_id, assignment_id) DO UPDATE SET average_rating = EXCLUDED.average_rating")

	queryString, args, err = upsert.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AnalyticsStore) Get(ctx context.Context, userID, assignmentID int64) (*types.Analytics, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"user_id": userID, "assignment_id": assignmentID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Analytics
	if err = s.GetReplica(ctx).GetContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *AnalyticsStore) ListRankedAverages(ctx context.Context, assignmentID int64, page, pageSize uint64) ([]types.RankedAverage, error) {
	query := sq.Select("a.user_id", "u.first_name", "u.last_name", "a.average_rating").
		From(s.GetTable() + " a").
		Join(types.TABLE_USER.Name() + " u ON u.id = a.user_id").
		Where(sq.Eq{"a.assignment_id": assignmentID}).
		Where(sq.NotEq{"a.average_rating": nil}).
		OrderBy("a.average_rating ASC", "u.last_name ASC", "u.first_name ASC", "a.user_id ASC")
	if pageSize != 0 {
		query = query.Limit(pageSize).Offset(offset(page, pageSize))
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.RankedAverage
	if err = s.GetReplica(ctx).SelectContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AnalyticsStore) DeleteByAssignment(ctx context.Context, assignmentID int64) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"assignment_id": assignmentID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}
