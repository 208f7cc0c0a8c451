package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/breeew/peer-api/pkg/types"
)

func counter() func() int64 {
	var n int64
	return func() int64 {
		n++
		return n
	}
}

func members(groupID int64, users ...int64) []types.Membership {
	var res []types.Membership
	for _, u := range users {
		gid := groupID
		res = append(res, types.Membership{UserID: u, GroupID: &gid, WorkspaceID: 1, Role: types.ROLE_STUDENT})
	}
	return res
}

func TestBuildReviewPairsAllOrderedPairs(t *testing.T) {
	for n := 2; n <= 7; n++ {
		var users []int64
		for i := 1; i <= n; i++ {
			users = append(users, int64(100+i))
		}
		reviews := types.BuildReviewPairs(9, members(1, users...), counter())

		assert.Len(t, reviews, n*(n-1))
		seen := make(map[[2]int64]bool)
		for _, r := range reviews {
			assert.NotEqual(t, r.UserID, r.TargetID)
			assert.Equal(t, int64(9), r.AssignmentID)
			assert.False(t, r.Completed)
			key := [2]int64{r.UserID, r.TargetID}
			assert.False(t, seen[key], "duplicate pair %v", key)
			seen[key] = true
		}
	}
}

func TestBuildReviewPairsGroupsAreIndependent(t *testing.T) {
	var all []types.Membership
	all = append(all, members(1, 1, 2, 3)...)
	all = append(all, members(2, 4, 5)...)
	all = append(all, members(3, 6)...)
	all = append(all, types.Membership{UserID: 7, WorkspaceID: 1, Role: types.ROLE_INSTRUCTOR})

	reviews := types.BuildReviewPairs(1, all, counter())
	assert.Len(t, reviews, 6+2)

	for _, r := range reviews {
		if r.GroupID == 2 {
			assert.Contains(t, []int64{4, 5}, r.UserID)
			assert.Contains(t, []int64{4, 5}, r.TargetID)
		}
		assert.NotEqual(t, int64(6), r.UserID)
		assert.NotEqual(t, int64(7), r.TargetID)
	}
}

func TestBuildReviewPairsScenario(t *testing.T) {
	const a, b, c = 1, 2, 3
	reviews := types.BuildReviewPairs(1, members(10, a, b, c), counter())

	var pairs [][2]int64
	for _, r := range reviews {
		pairs = append(pairs, [2]int64{r.UserID, r.TargetID})
	}
	assert.Equal(t, [][2]int64{{a, b}, {a, c}, {b, a}, {b, c}, {c, a}, {c, b}}, pairs)
}

func TestBuildReviewPairsDuplicateMembership(t *testing.T) {
	reviews := types.BuildReviewPairs(1, members(1, 1, 2, 2), counter())
	assert.Len(t, reviews, 2)
}

func TestBuildReviewPairsDeterministicOrder(t *testing.T) {
	var all []types.Membership
	all = append(all, members(2, 9, 8)...)
	all = append(all, members(1, 3, 1)...)

	reviews := types.BuildReviewPairs(1, all, counter())

	var pairs [][3]int64
	for _, r := range reviews {
		pairs = append(pairs, [3]int64{r.GroupID, r.UserID, r.TargetID})
	}
	assert.Equal(t, [][3]int64{{1, 1, 3}, {1, 3, 1}, {2, 8, 9}, {2, 9, 8}}, pairs)
	assert.Equal(t, int64(1), reviews[0].ID)
}

func TestRoundAverage(t *testing.T) {
	assert.Nil(t, types.RoundAverage(0, 0))
	assert.Equal(t, 4.5, *types.RoundAverage(9, 2))
	assert.Equal(t, 3.75, *types.RoundAverage(15, 4))
	assert.Equal(t, 3.67, *types.RoundAverage(11, 3))
}
