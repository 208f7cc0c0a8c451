package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/breeew/peer-api/internal/store"
	"github.com/breeew/peer-api/pkg/register"
	"github.com/breeew/peer-api/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.JournalAssignmentStore = NewJournalAssignmentStore(provider)
		provider.stores.JournalEntryStore = NewJournalEntryStore(provider)
	})
}

type JournalAssignmentStore struct {
	CommonFields
}

func NewJournalAssignmentStore(provider SqlProviderAchieve) *JournalAssignmentStore {
	repo := &JournalAssignmentStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_JOURNAL_ASSIGNMENT)
	repo.SetAllColumns("id", "workspace_id", "name", "week_number", "start_date", "end_date")
	return repo
}

func (s *JournalAssignmentStore) BatchCreate(ctx context.Context, data []types.JournalAssignment) error {
	for _, chunk := range lo.Chunk(data, batchSize) {
		query := sq.Insert(s.GetTable()).Columns("id", "workspace_id", "name", "week_number", "start_date", "end_date")
		for _, v := range chunk {
			query = query.Values(v.ID, v.WorkspaceID, v.Name, v.WeekNumber, v.StartDate, v.EndDate)
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

func (s *JournalAssignmentStore) Get(ctx context.Context, id int64) (*types.JournalAssignment, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.JournalAssignment
	if err = s.GetReplica(ctx).GetContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *JournalAssignmentStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]types.JournalAssignment, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"workspace_id": workspaceID}).OrderBy("week_number")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.JournalAssignment
	if err = s.GetReplica(ctx).SelectContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

// DeleteByWorkspace removes the journal assignments, entries go through ON DELETE CASCADE.
func (s *JournalAssignmentStore) DeleteByWorkspace(ctx context.Context, workspaceID int64) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"workspace_id": workspaceID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}

type JournalEntryStore struct {
	CommonFields
}

func NewJournalEntryStore(provider SqlProviderAchieve) *JournalEntryStore {
	repo := &JournalEntryStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_JOURNAL_ENTRY)
	repo.SetAllColumns("journal_assignment_id", "user_id", "content", "submitted_at")
	return repo
}

// Upsert keeps a single entry per (journal assignment, user), a resubmission
// overwrites content and submitted_at.
func (s *JournalEntryStore) Upsert(ctx context.Context, data types.JournalEntry) error {
	if data.SubmittedAt.IsZero() {
		data.SubmittedAt = time.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("journal_assignment_id", "user_id", "content", "submitted_at").
		Values(data.JournalAssignmentID, data.UserID, data.Content, data.SubmittedAt).
		Suffix("ON CONFLICT (journal_assignment_id, user_id) DO UPDATE SET content = EXCLUDED.content, submitted_at = EXCLUDED.submitted_at")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}

func (s *JournalEntryStore) Get(ctx context.Context, journalAssignmentID, userID int64) (*types.JournalEntry, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"journal_assignment_id": journalAssignmentID, "user_id": userID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.JournalEntry
	if err = s.GetReplica(ctx).GetContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}
