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

func compareAssignment(a, b types.Assignment) int {
	return cmp.Or(a.StartDate.Compare(b.StartDate), cmp.Compare(a.ID, b.ID))
}

func (db *DB) deleteAssignmentLocked(id int64) {
	delete(db.t.assignments, id)
	for qid, q := range db.t.questions {
		if q.AssignmentID == id {
			db.deleteQuestionLocked(qid)
		}
	}
	for rid, r := range db.t.reviews {
		if r.AssignmentID == id {
			db.deleteReviewLocked(rid)
		}
	}
	for k, a := range db.t.analytics {
		if a.AssignmentID == id {
			delete(db.t.analytics, k)
		}
	}
}

func (db *DB) deleteQuestionLocked(id int64) {
	delete(db.t.questions, id)
	for k := range db.t.ratings {
		if k[1] == id {
			delete(db.t.ratings, k)
		}
	}
}

type AssignmentStore struct{ db *DB }

func (s *AssignmentStore) Create(ctx context.Context, data types.Assignment) error {
	if err := s.db.injected("AssignmentStore.Create", data.ID); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.t.assignments[data.ID]; ok {
		return store.ErrDuplicate
	}
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	s.db.t.assignments[data.ID] = data
	return nil
}

func (s *AssignmentStore) Get(ctx context.Context, id int64) (*types.Assignment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.t.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (s *AssignmentStore) Update(ctx context.Context, id int64, data types.Assignment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.t.assignments[id]
	if !ok {
		return nil
	}
	a.Name = data.Name
	a.Description = data.Description
	a.StartDate = data.StartDate
	a.DueDate = data.DueDate
	s.db.t.assignments[id] = a
	return nil
}

func (s *AssignmentStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.deleteAssignmentLocked(id)
	return nil
}

func (s *AssignmentStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]types.Assignment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var res []types.Assignment
	for _, a := range s.db.t.assignments {
		if a.WorkspaceID == workspaceID {
			res = append(res, a)
		}
	}
	slices.SortFunc(res, compareAssignment)
	return res, nil
}

func (s *AssignmentStore) ListPendingStart(ctx context.Context, before time.Time) ([]types.Assignment, error) {
	if err := s.db.injected("AssignmentStore.ListPendingStart", 0); err != nil {
		return nil, err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var res []types.Assignment
	for _, a := range s.db.t.assignments {
		if !a.Started && !a.StartDate.After(before) {
			res = append(res, a)
		}
	}
	slices.SortFunc(res, compareAssignment)
	return res, nil
}

func (s *AssignmentStore) MarkStarted(ctx context.Context, id int64) (bool, error) {
	if err := s.db.injected("AssignmentStore.MarkStarted", id); err != nil {
		return false, err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.t.assignments[id]
	if !ok || a.Started {
		return false, nil
	}
	a.Started = true
	s.db.t.assignments[id] = a
	return true, nil
}

type QuestionStore struct{ db *DB }

func (s *QuestionStore) BatchCreate(ctx context.Context, data []types.Question) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i, q := range data {
		if _, ok := s.db.t.questions[q.ID]; ok {
			return store.ErrDuplicate
		}
		for _, exist := range s.db.t.questions {
			if exist.AssignmentID == q.AssignmentID && exist.Ordinal == q.Ordinal {
				return store.ErrDuplicate
			}
		}
		for _, prev := range data[:i] {
			if prev.AssignmentID == q.AssignmentID && prev.Ordinal == q.Ordinal {
				return store.ErrDuplicate
			}
		}
	}
	for _, q := range data {
		s.db.t.questions[q.ID] = q
	}
	return nil
}

func (s *QuestionStore) ListByAssignment(ctx context.Context, assignmentID int64) ([]types.Question, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var res []types.Question
	for _, q := range s.db.t.questions {
		if q.AssignmentID == assignmentID {
			res = append(res, q)
		}
	}
	slices.SortFunc(res, func(a, b types.Question) int { return cmp.Compare(a.Ordinal, b.Ordinal) })
	return res, nil
}

func (s *QuestionStore) DeleteByAssignment(ctx context.Context, assignmentID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for id, q := range s.db.t.questions {
		if q.AssignmentID == assignmentID {
			s.db.deleteQuestionLocked(id)
		}
	}
	return nil
}
