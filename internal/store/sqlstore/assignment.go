package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/breeew/peer-api/pkg/register"
	"github.com/breeew/peer-api/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.AssignmentStore = NewAssignmentStore(provider)
		provider.stores.QuestionStore = NewQuestionStore(provider)
	})
}

type AssignmentStore struct {
	CommonFields
}

func NewAssignmentStore(provider SqlProviderAchieve) *AssignmentStore {
	repo := &AssignmentStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_ASSIGNMENT)
	repo.SetAllColumns("id", "workspace_id", "name", "description", "start_date", "due_date", "started", "created_at")
	return repo
}

func (s *AssignmentStore) Create(ctx context.Context, data types.Assignment) error {
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "workspace_id", "name", "description", "start_date", "due_date", "started", "created_at").
		Values(data.ID, data.WorkspaceID, data.Name, data.Description, data.StartDate, data.DueDate, data.Started, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}

func (s *AssignmentStore) Get(ctx context.Context, id int64) (*types.Assignment, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Assignment
	if err = s.GetReplica(ctx).GetContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

// Update never touches started, that flag is owned by MarkStarted.
func (s *AssignmentStore) Update(ctx context.Context, id int64, data types.Assignment) error {
	query := sq.Update(s.GetTable()).
		Set("name", data.Name).
		Set("description", data.Description).
		Set("start_date", data.StartDate).
		Set("due_date", data.DueDate).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}

func (s *AssignmentStore) Delete(ctx context.Context, id int64) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}

func (s *AssignmentStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]types.Assignment, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"workspace_id": workspaceID}).OrderBy("start_date", "id")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Assignment
	if err = s.GetReplica(ctx).SelectContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AssignmentStore) ListPendingStart(ctx context.Context, before time.Time) ([]types.Assignment, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"started": false}).
		Where(sq.LtOrEq{"start_date": before}).
		OrderBy("start_date", "id")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Assignment
	if err = s.GetMaster(ctx).SelectContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

// MarkStarted is the exclusivity gate of activation: only one caller can see
// a row change from started = false.
func (s *AssignmentStore) MarkStarted(ctx context.Context, id int64) (bool, error) {
	query := sq.Update(s.GetTable()).
		Set("started", true).
		Where(sq.Eq{"id": id, "started": false})

	queryString, args, err := query.ToSql()
	if err != nil {
		return false, ErrorSqlBuild(err)
	}

	res, err := s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

type QuestionStore struct {
	CommonFields
}

func NewQuestionStore(provider SqlProviderAchieve) *QuestionStore {
	repo := &QuestionStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_QUESTION)
	repo.SetAllColumns("id", "assignment_id", "ordinal", "question")
	return repo
}

func (s *QuestionStore) BatchCreate(ctx context.Context, data []types.Question) error {
	for _, chunk := range lo.Chunk(data, batchSize) {
		query := sq.Insert(s.GetTable()).Columns("id", "assignment_id", "ordinal", "question")
		for _, v := range chunk {
			query = query.Values(v.ID, v.AssignmentID, v.Ordinal, v.Question)
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

func (s *QuestionStore) ListByAssignment(ctx context.Context, assignmentID int64) ([]types.Question, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"assignment_id": assignmentID}).OrderBy("ordinal")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Question
	if err = s.GetReplica(ctx).SelectContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *QuestionStore) DeleteByAssignment(ctx context.Context, assignmentID int64) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"assignment_id": assignmentID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}
