package memstore

import (
	"cmp"
	"context"
	"database/sql"
	"slices"

	"github.com/breeew/peer-api/internal/store"
	"github.com/breeew/peer-api/pkg/types"
)

func (db *DB) deleteReviewLocked(id int64) {
	delete(db.t.reviews, id)
	for k := range db.t.ratings {
		if k[0] == id {
			delete(db.t.ratings, k)
		}
	}
}

// page slices rows the way LIMIT/OFFSET does, pageSize 0 keeps everything.
func page[T any](rows []T, page, pageSize uint64) []T {
	if pageSize == 0 {
		return rows
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= uint64(len(rows)) {
		return nil
	}
	end := min(start+pageSize, uint64(len(rows)))
	return rows[start:end]
}

type ReviewStore struct{ db *DB }

func (s *ReviewStore) BatchCreate(ctx context.Context, data []types.Review) error {
	if err := s.db.injected("ReviewStore.BatchCreate", firstAssignment(data)); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	type triple struct{ assignment, user, target int64 }
	seen := make(map[triple]struct{}, len(s.db.t.reviews)+len(data))
	for _, r := range s.db.t.reviews {
		seen[triple{r.AssignmentID, r.UserID, r.TargetID}] = struct{}{}
	}
	for _, r := range data {
		key := triple{r.AssignmentID, r.UserID, r.TargetID}
		if _, ok := seen[key]; ok {
			return store.ErrDuplicate
		}
		if _, ok := s.db.t.reviews[r.ID]; ok {
			return store.ErrDuplicate
		}
		seen[key] = struct{}{}
	}
	for _, r := range data {
		s.db.t.reviews[r.ID] = r
	}
	return nil
}

func (s *ReviewStore) Get(ctx context.Context, id int64) (*types.Review, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.t.reviews[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (s *ReviewStore) CountByAssignment(ctx context.Context, assignmentID int64) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for _, r := range s.db.t.reviews {
		if r.AssignmentID == assignmentID {
			n++
		}
	}
	return n, nil
}

func (s *ReviewStore) filter(f func(r types.Review) bool, order func(r types.Review) int64) []types.Review {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var res []types.Review
	for _, r := range s.db.t.reviews {
		if f(r) {
			res = append(res, r)
		}
	}
	slices.SortFunc(res, func(a, b types.Review) int { return cmp.Compare(order(a), order(b)) })
	return res
}

func (s *ReviewStore) ListByReviewer(ctx context.Context, assignmentID, userID int64) ([]types.Review, error) {
	return s.filter(func(r types.Review) bool {
		return r.AssignmentID == assignmentID && r.UserID == userID
	}, func(r types.Review) int64 { return r.TargetID }), nil
}

func (s *ReviewStore) ListByTarget(ctx context.Context, assignmentID, targetID int64, onlyCompleted bool) ([]types.Review, error) {
	return s.filter(func(r types.Review) bool {
		return r.AssignmentID == assignmentID && r.TargetID == targetID && (!onlyCompleted || r.Completed)
	}, func(r types.Review) int64 { return r.UserID }), nil
}

func (s *ReviewStore) Complete(ctx context.Context, id int64, comment *string) error {
	if err := s.db.injected("ReviewStore.Complete", id); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.t.reviews[id]
	if !ok {
		return nil
	}
	r.Completed = true
	r.Comment = comment
	s.db.t.reviews[id] = r
	return nil
}

func (s *ReviewStore) DeleteByAssignment(ctx context.Context, assignmentID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for id, r := range s.db.t.reviews {
		if r.AssignmentID == assignmentID {
			s.db.deleteReviewLocked(id)
		}
	}
	return nil
}

func (s *ReviewStore) completion(assignmentID int64) []types.CompletionRow {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	rows := make(map[int64]*types.CompletionRow)
	for _, r := range s.db.t.reviews {
		if r.AssignmentID != assignmentID {
			continue
		}
		row, ok := rows[r.UserID]
		if !ok {
			u, exist := s.db.t.users[r.UserID]
			if !exist {
				// inner join drops reviewers without a user row
				continue
			}
			row = &types.CompletionRow{UserID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
			rows[r.UserID] = row
		}
		row.TotalReviews++
		if r.Completed {
			row.CompletedReviews++
		}
	}

	var res []types.CompletionRow
	for _, row := range rows {
		if row.CompletedReviews < row.TotalReviews {
			res = append(res, *row)
		}
	}
	slices.SortFunc(res, func(a, b types.CompletionRow) int {
		ra := float64(a.CompletedReviews) / float64(a.TotalReviews)
		rb := float64(b.CompletedReviews) / float64(b.TotalReviews)
		return cmp.Or(cmp.Compare(ra, rb), cmp.Compare(a.LastName, b.LastName), cmp.Compare(a.FirstName, b.FirstName), cmp.Compare(a.UserID, b.UserID))
	})
	return res
}

func (s *ReviewStore) ListCompletion(ctx context.Context, assignmentID int64, p, pageSize uint64) ([]types.CompletionRow, error) {
	return page(s.completion(assignmentID), p, pageSize), nil
}

func (s *ReviewStore) TotalCompletion(ctx context.Context, assignmentID int64) (int64, error) {
	return int64(len(s.completion(assignmentID))), nil
}

type RatingStore struct{ db *DB }

func (s *RatingStore) BatchCreate(ctx context.Context, data []types.Rating) error {
	if err := s.db.injected("RatingStore.BatchCreate", 0); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i, r := range data {
		if _, ok := s.db.t.ratings[pair{r.ReviewID, r.QuestionID}]; ok {
			return store.ErrDuplicate
		}
		for _, prev := range data[:i] {
			if prev.ReviewID == r.ReviewID && prev.QuestionID == r.QuestionID {
				return store.ErrDuplicate
			}
		}
	}
	for _, r := range data {
		s.db.t.ratings[pair{r.ReviewID, r.QuestionID}] = r
	}
	return nil
}

func (s *RatingStore) ListByReview(ctx context.Context, reviewID int64) ([]types.Rating, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var res []types.Rating
	for k, r := range s.db.t.ratings {
		if k[0] == reviewID {
			if _, ok := s.db.t.questions[r.QuestionID]; ok {
				res = append(res, r)
			}
		}
	}
	slices.SortFunc(res, func(a, b types.Rating) int {
		return cmp.Compare(s.db.t.questions[a.QuestionID].Ordinal, s.db.t.questions[b.QuestionID].Ordinal)
	})
	return res, nil
}

func (s *RatingStore) DeleteByReview(ctx context.Context, reviewID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for k := range s.db.t.ratings {
		if k[0] == reviewID {
			delete(s.db.t.ratings, k)
		}
	}
	return nil
}

func firstAssignment(data []types.Review) int64 {
	if len(data) == 0 {
		return 0
	}
	return data[0].AssignmentID
}
