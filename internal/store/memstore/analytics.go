package memstore

import (
	"cmp"
	"context"
	"database/sql"
	"slices"

	"github.com/breeew/peer-api/pkg/types"
)

type AnalyticsStore struct{ db *DB }

func (s *AnalyticsStore) Init(ctx context.Context, assignmentID int64, userIDs []int64) error {
	if err := s.db.injected("AnalyticsStore.Init", assignmentID); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, id := range userIDs {
		key := pair{id, assignmentID}
		if _, ok := s.db.t.analytics[key]; ok {
			continue
		}
		s.db.t.analytics[key] = types.Analytics{UserID: id, AssignmentID: assignmentID}
	}
	return nil
}

func (s *AnalyticsStore) Recompute(ctx context.Context, userID, assignmentID int64) (*types.Analytics, error) {
	if err := s.db.injected("AnalyticsStore.Recompute", assignmentID); err != nil {
		return nil, err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var sum, count int64
	for k, ra := range s.db.t.ratings {
		r, ok := s.db.t.reviews[k[0]]
		if !ok || !r.Completed || r.TargetID != userID || r.AssignmentID != assignmentID {
			continue
		}
		sum += int64(ra.Rating)
		count++
	}

	res := types.Analytics{
		UserID:        userID,
		AssignmentID:  assignmentID,
		AverageRating: types.RoundAverage(sum, count),
	}
	s.db.t.analytics[pair{userID, assignmentID}] = res
	return &res, nil
}

func (s *AnalyticsStore) Get(ctx context.Context, userID, assignmentID int64) (*types.Analytics, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.t.analytics[pair{userID, assignmentID}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (s *AnalyticsStore) ListRankedAverages(ctx context.Context, assignmentID int64, p, pageSize uint64) ([]types.RankedAverage, error) {
	s.db.mu.Lock()
	var res []types.RankedAverage
	for _, a := range s.db.t.analytics {
		if a.AssignmentID != assignmentID || a.AverageRating == nil {
			continue
		}
		u, ok := s.db.t.users[a.UserID]
		if !ok {
			continue
		}
		res = append(res, types.RankedAverage{
			UserID:        a.UserID,
			FirstName:     u.FirstName,
			LastName:      u.LastName,
			AverageRating: *a.AverageRating,
		})
	}
	s.db.mu.Unlock()

	slices.SortFunc(res, func(a, b types.RankedAverage) int {
		return cmp.Or(cmp.Compare(a.AverageRating, b.AverageRating), cmp.Compare(a.LastName, b.LastName), cmp.Compare(a.FirstName, b.FirstName), cmp.Compare(a.UserID, b.UserID))
	})
	return page(res, p, pageSize), nil
}

func (s *AnalyticsStore) DeleteByAssignment(ctx context.Context, assignmentID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for k, a := range s.db.t.analytics {
		if a.AssignmentID == assignmentID {
			delete(s.db.t.analytics, k)
		}
	}
	return nil
}
