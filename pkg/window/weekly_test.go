package window_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeew/peer-api/pkg/window"
)

func TestGenerateWeeklySkipConsumesNumber(t *testing.T) {
	// 2026-03-02 is a Monday, 2026-03-23 is the Monday of week 4.
	weeks, err := window.GenerateWeekly("2026-03-02", "2026-03-23", time.Monday, []int{2}, time.UTC)
	require.NoError(t, err)
	require.Len(t, weeks, 3)

	assert.Equal(t, []int{1, 3, 4}, []int{weeks[0].Number, weeks[1].Number, weeks[2].Number})
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), weeks[0].Start)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), weeks[0].End)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), weeks[1].Start)
	assert.Equal(t, time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC), weeks[2].Start)
	for _, w := range weeks {
		assert.Equal(t, time.Monday, w.Start.Weekday())
		assert.Equal(t, w.Start.AddDate(0, 0, 6), w.End)
	}
}

func TestGenerateWeeklyAnchorAfterStart(t *testing.T) {
	// starts on a Monday, anchored on Wednesday: first window opens 2026-03-04.
	weeks, err := window.GenerateWeekly("2026-03-02", "2026-03-20", time.Wednesday, nil, time.UTC)
	require.NoError(t, err)
	require.Len(t, weeks, 3)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), weeks[0].Start)
	assert.Equal(t, 3, weeks[2].Number)
}

func TestGenerateWeeklyNoMatch(t *testing.T) {
	weeks, err := window.GenerateWeekly("2026-03-03", "2026-03-05", time.Monday, nil, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, weeks)
}

func TestGenerateWeeklyInvalidInput(t *testing.T) {
	_, err := window.GenerateWeekly("2026-02-30", "2026-03-05", time.Monday, nil, time.UTC)
	assert.ErrorIs(t, err, window.ErrInvalidDate)

	_, err = window.GenerateWeekly("2026-03-02", "next week", time.Monday, nil, time.UTC)
	assert.ErrorIs(t, err, window.ErrInvalidDate)

	_, err = window.GenerateWeekly("2026-03-09", "2026-03-02", time.Monday, nil, time.UTC)
	assert.ErrorIs(t, err, window.ErrInvalidRange)
}

func TestGenerateWeeklyLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	weeks, err := window.GenerateWeekly("2026-03-02", "2026-03-02", time.Monday, nil, loc)
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, time.Date(2026, 3, 1, 16, 0, 0, 0, time.UTC), weeks[0].Start.UTC())
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]time.Weekday{
		"monday": time.Monday,
		"Mon":    time.Monday,
		"thu":    time.Thursday,
		"0":      time.Sunday,
		"6":      time.Saturday,
	} {
		got, err := window.ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := window.ParseWeekday("someday")
	assert.ErrorIs(t, err, window.ErrInvalidWeekday)
	_, err = window.ParseWeekday("m")
	assert.ErrorIs(t, err, window.ErrInvalidWeekday)
}

func TestClassify(t *testing.T) {
	weeks, err := window.GenerateWeekly("2026-03-02", "2026-03-23", time.Monday, nil, time.UTC)
	require.NoError(t, err)

	now := time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC)
	past, current, future := window.Classify(now, weeks)
	assert.Equal(t, []int{1}, past)
	assert.Equal(t, []int{2}, current)
	assert.Equal(t, []int{3, 4}, future)
}
