package memstore

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/breeew/peer-api/internal/store"
	"github.com/breeew/peer-api/pkg/types"
)

type UserStore struct{ db *DB }

func (s *UserStore) Create(ctx context.Context, data types.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.t.users {
		if u.ID == data.ID || u.Email == data.Email {
			return store.ErrDuplicate
		}
	}
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	s.db.t.users[data.ID] = data
	return nil
}

func (s *UserStore) Get(ctx context.Context, id int64) (*types.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.t.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (s *UserStore) ListByIDs(ctx context.Context, ids []int64) ([]types.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var res []types.User
	for _, id := range ids {
		if u, ok := s.db.t.users[id]; ok && !slices.ContainsFunc(res, func(v types.User) bool { return v.ID == id }) {
			res = append(res, u)
		}
	}
	slices.SortFunc(res, func(a, b types.User) int {
		return cmp.Or(cmp.Compare(a.LastName, b.LastName), cmp.Compare(a.FirstName, b.FirstName), cmp.Compare(a.ID, b.ID))
	})
	return res, nil
}

type WorkspaceStore struct{ db *DB }

func (s *WorkspaceStore) Create(ctx context.Context, data types.Workspace) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.t.workspaces[data.ID]; ok {
		return store.ErrDuplicate
	}
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	s.db.t.workspaces[data.ID] = data
	return nil
}

func (s *WorkspaceStore) Get(ctx context.Context, id int64) (*types.Workspace, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	w, ok := s.db.t.workspaces[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &w, nil
}

// Delete cascades like the foreign keys of the postgres schema.
func (s *WorkspaceStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.t.workspaces, id)
	for gid, g := range s.db.t.groups {
		if g.WorkspaceID == id {
			delete(s.db.t.groups, gid)
		}
	}
	for k, m := range s.db.t.memberships {
		if m.WorkspaceID == id {
			delete(s.db.t.memberships, k)
		}
	}
	for aid, a := range s.db.t.assignments {
		if a.WorkspaceID == id {
			s.db.deleteAssignmentLocked(aid)
		}
	}
	for jid, j := range s.db.t.journalAssignments {
		if j.WorkspaceID == id {
			s.db.deleteJournalAssignmentLocked(jid)
		}
	}
	return nil
}

type GroupStore struct{ db *DB }

func (s *GroupStore) Create(ctx context.Context, data types.Group) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.t.groups[data.ID]; ok {
		return store.ErrDuplicate
	}
	s.db.t.groups[data.ID] = data
	return nil
}

func (s *GroupStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]types.Group, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var res []types.Group
	for _, g := range s.db.t.groups {
		if g.WorkspaceID == workspaceID {
			res = append(res, g)
		}
	}
	slices.SortFunc(res, func(a, b types.Group) int { return cmp.Compare(a.ID, b.ID) })
	return res, nil
}

type MembershipStore struct{ db *DB }

func (s *MembershipStore) Create(ctx context.Context, data types.Membership) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	key := pair{data.UserID, data.WorkspaceID}
	if _, ok := s.db.t.memberships[key]; ok {
		return store.ErrDuplicate
	}
	s.db.t.memberships[key] = data
	return nil
}

func (s *MembershipStore) GetRole(ctx context.Context, userID, workspaceID int64) (*types.Membership, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m, ok := s.db.t.memberships[pair{userID, workspaceID}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &m, nil
}

// ListByWorkspace orders by group then user, members without a group last.
func (s *MembershipStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]types.Membership, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var res []types.Membership
	for _, m := range s.db.t.memberships {
		if m.WorkspaceID == workspaceID {
			res = append(res, m)
		}
	}
	slices.SortFunc(res, func(a, b types.Membership) int {
		switch {
		case a.GroupID == nil && b.GroupID != nil:
			return 1
		case a.GroupID != nil && b.GroupID == nil:
			return -1
		case a.GroupID != nil && b.GroupID != nil && *a.GroupID != *b.GroupID:
			return cmp.Compare(*a.GroupID, *b.GroupID)
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return res, nil
}
