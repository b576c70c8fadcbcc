package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cppla/earlybird/models"
)

func history(now time.Time, dayOffsets ...int) []models.CheckIn {
	out := make([]models.CheckIn, 0, len(dayOffsets))
	for _, d := range dayOffsets {
		out = append(out, models.CheckIn{CheckedInAt: now.AddDate(0, 0, d)})
	}
	return out
}

func TestRunLength(t *testing.T) {
	now := at(0, 6, 30)
	assert.Equal(t, 0, RunLength(nil, phoenix))
	assert.Equal(t, 1, RunLength(history(now, 0), phoenix))
	assert.Equal(t, 3, RunLength(history(now, 0, -1, -2), phoenix))
	assert.Equal(t, 2, RunLength(history(now, 0, -1, -3, -4), phoenix))
	assert.Equal(t, 1, RunLength(history(now, 0, -2, -3), phoenix))
}

func TestRunLengthUsesCivilDays(t *testing.T) {
	// 23:30 and 00:10 local the next morning are consecutive days
	checkIns := []models.CheckIn{
		{CheckedInAt: at(1, 0, 10)},
		{CheckedInAt: at(0, 23, 30)},
	}
	assert.Equal(t, 2, RunLength(checkIns, phoenix))
	// the same instants in UTC fall on the same day
	assert.Equal(t, 1, RunLength(checkIns, time.UTC))
}

func TestStreaks(t *testing.T) {
	now := at(0, 12, 0)
	cases := []struct {
		name             string
		days             []int
		current, longest int
	}{
		{"empty", nil, 0, 0},
		{"three days", []int{0, -1, -2}, 3, 3},
		{"gap splits", []int{0, -2, -3}, 1, 2},
		{"ends yesterday", []int{-1, -2}, 2, 2},
		{"longer old run", []int{0, -1, -3, -4, -5, -6}, 2, 4},
		{"stale history counts its first run short", []int{-3, -4, -5}, 0, 2},
		{"stale then later run", []int{-3, -5, -6, -7}, 0, 3},
		{"unsorted input", []int{-2, 0, -1}, 3, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			current, longest := Streaks(history(at(0, 6, 30), tc.days...), now, phoenix)
			assert.Equal(t, tc.current, current, "current")
			assert.Equal(t, tc.longest, longest, "longest")
		})
	}
}
