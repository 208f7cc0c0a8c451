package types

import (
	"sort"

	"github.com/samber/lo"
)

const (
	RATING_MIN = 1
	RATING_MAX = 5
)

// Review is one directed obligation: UserID must rate TargetID.
type Review struct {
	ID           int64   `json:"id" db:"id"`
	AssignmentID int64   `json:"assignment_id" db:"assignment_id"`
	GroupID      int64   `json:"group_id" db:"group_id"`
	UserID       int64   `json:"user_id" db:"user_id"`
	TargetID     int64   `json:"target_id" db:"target_id"`
	Completed    bool    `json:"completed" db:"completed"`
	Comment      *string `json:"comment" db:"comment"`
}

type Rating struct {
	ReviewID   int64 `json:"review_id" db:"review_id"`
	QuestionID int64 `json:"question_id" db:"question_id"`
	Rating     int   `json:"rating" db:"rating"`
}

type ReviewDetail struct {
	Review
	Ratings []Rating `json:"ratings"`
}

type SubmitReviewArgs struct {
	Ratings []int
	// QuestionIDs, when set, must list the assignment's questions in ordinal
	// order, pairing each rating with its question explicitly.
	QuestionIDs []int64
	Comment     *string
}

// BuildReviewPairs expands group memberships into one review per ordered pair
// of distinct members of the same group. Members without a group and groups
// of fewer than two members produce nothing.
func BuildReviewPairs(assignmentID int64, members []Membership, genID func() int64) []Review {
	grouped := lo.GroupBy(lo.Filter(members, func(item Membership, _ int) bool {
		return item.GroupID != nil
	}), func(item Membership) int64 {
		return *item.GroupID
	})

	groupIDs := lo.Keys(grouped)
	sort.Slice(groupIDs, func(i, j int) bool { return groupIDs[i] < groupIDs[j] })

	var reviews []Review
	for _, gid := range groupIDs {
		users := lo.Uniq(lo.Map(grouped[gid], func(item Membership, _ int) int64 {
			return item.UserID
		}))
		sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

		for _, reviewer := range users {
			for _, target := range lo.Without(users, reviewer) {
				reviews = append(reviews, Review{
					ID:           genID(),
					AssignmentID: assignmentID,
					GroupID:      gid,
					UserID:       reviewer,
					TargetID:     target,
				})
			}
		}
	}
	return reviews
}
