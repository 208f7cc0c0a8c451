package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/breeew/peer-api/pkg/register"
	"github.com/breeew/peer-api/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.WorkspaceStore = NewWorkspaceStore(provider)
		provider.stores.GroupStore = NewGroupStore(provider)
		provider.stores.MembershipStore = NewMembershipStore(provider)
	})
}

type WorkspaceStore struct {
	CommonFields
}

func NewWorkspaceStore(provider SqlProviderAchieve) *WorkspaceStore {
	repo := &WorkspaceStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_WORKSPACE)
	repo.SetAllColumns("id", "name", "created_at")
	return repo
}

func (s *WorkspaceStore) Create(ctx context.Context, data types.Workspace) error {
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "name", "created_at").
		Values(data.ID, data.Name, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}

func (s *WorkspaceStore) Get(ctx context.Context, id int64) (*types.Workspace, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Workspace
	if err = s.GetReplica(ctx).GetContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

// Delete removes the workspace, journal assignments and entries go with it
// through ON DELETE CASCADE.
func (s *WorkspaceStore) Delete(ctx context.Context, id int64) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}

type GroupStore struct {
	CommonFields
}

func NewGroupStore(provider SqlProviderAchieve) *GroupStore {
	repo := &GroupStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_GROUP)
	repo.SetAllColumns("id", "workspace_id", "name")
	return repo
}

func (s *GroupStore) Create(ctx context.Context, data types.Group) error {
	query := sq.Insert(s.GetTable()).
		Columns("id", "workspace_id", "name").
		Values(data.ID, data.WorkspaceID, data.Name)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}

func (s *GroupStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]types.Group, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"workspace_id": workspaceID}).OrderBy("id")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Group
	if err = s.GetReplica(ctx).SelectContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

type MembershipStore struct {
	CommonFields
}

func NewMembershipStore(provider SqlProviderAchieve) *MembershipStore {
	repo := &MembershipStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_MEMBERSHIP)
	repo.SetAllColumns("user_id", "group_id", "workspace_id", "role")
	return repo
}

func (s *MembershipStore) Create(ctx context.Context, data types.Membership) error {
	query := sq.Insert(s.GetTable()).
		Columns("user_id", "group_id", "workspace_id", "role").
		Values(data.UserID, data.GroupID, data.WorkspaceID, data.Role)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}

func (s *MembershipStore) GetRole(ctx context.Context, userID, workspaceID int64) (*types.Membership, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"user_id": userID, "workspace_id": workspaceID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Membership
	if err = s.GetReplica(ctx).GetContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *MembershipStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]types.Membership, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"workspace_id": workspaceID}).OrderBy("group_id", "user_id")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Membership
	if err = s.GetReplica(ctx).SelectContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
