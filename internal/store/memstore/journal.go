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

func (db *DB) deleteJournalAssignmentLocked(id int64) {
	delete(db.t.journalAssignments, id)
	for k := range db.t.journalEntries {
		if k[0] == id {
			delete(db.t.journalEntries, k)
		}
	}
}

type JournalAssignmentStore struct{ db *DB }

func (s *JournalAssignmentStore) BatchCreate(ctx context.Context, data []types.JournalAssignment) error {
	if err := s.db.injected("JournalAssignmentStore.BatchCreate", firstWorkspace(data)); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	type week struct {
		workspace int64
		number    int
	}
	seen := make(map[week]struct{})
	for _, j := range s.db.t.journalAssignments {
		seen[week{j.WorkspaceID, j.WeekNumber}] = struct{}{}
	}
	for _, j := range data {
		key := week{j.WorkspaceID, j.WeekNumber}
		if _, ok := seen[key]; ok {
			return store.ErrDuplicate
		}
		seen[key] = struct{}{}
	}
	for _, j := range data {
		s.db.t.journalAssignments[j.ID] = j
	}
	return nil
}

func (s *JournalAssignmentStore) Get(ctx context.Context, id int64) (*types.JournalAssignment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	j, ok := s.db.t.journalAssignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &j, nil
}

func (s *JournalAssignmentStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]types.JournalAssignment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var res []types.JournalAssignment
	for _, j := range s.db.t.journalAssignments {
		if j.WorkspaceID == workspaceID {
			res = append(res, j)
		}
	}
	slices.SortFunc(res, func(a, b types.JournalAssignment) int { return cmp.Compare(a.WeekNumber, b.WeekNumber) })
	return res, nil
}

func (s *JournalAssignmentStore) DeleteByWorkspace(ctx context.Context, workspaceID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for id, j := range s.db.t.journalAssignments {
		if j.WorkspaceID == workspaceID {
			s.db.deleteJournalAssignmentLocked(id)
		}
	}
	return nil
}

type JournalEntryStore struct{ db *DB }

func (s *JournalEntryStore) Upsert(ctx context.Context, data types.JournalEntry) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if data.SubmittedAt.IsZero() {
		data.SubmittedAt = time.Now()
	}
	data.Content = slices.Clone(data.Content)
	s.db.t.journalEntries[pair{data.JournalAssignmentID, data.UserID}] = data
	return nil
}

func (s *JournalEntryStore) Get(ctx context.Context, journalAssignmentID, userID int64) (*types.JournalEntry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	e, ok := s.db.t.journalEntries[pair{journalAssignmentID, userID}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &e, nil
}

func firstWorkspace(data []types.JournalAssignment) int64 {
	if len(data) == 0 {
		return 0
	}
	return data[0].WorkspaceID
}
