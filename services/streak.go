package services

import (
	"sort"
	"time"

	"github.com/cppla/earlybird/models"
)

// RunLength counts the consecutive-day run that starts at the newest check-in.
// checkIns must be newest first and index 0 is the check-in just recorded.
// The walk stops at the first gap that is not exactly one day.
func RunLength(checkIns []models.CheckIn, loc *time.Location) int {
	if len(checkIns) == 0 {
		return 0
	}
	streak := 1
	prev := civilDay(checkIns[0].CheckedInAt, loc)
	for _, c := range checkIns[1:] {
		day := civilDay(c.CheckedInAt, loc)
		if daysBetween(prev, day) != 1 {
			break
		}
		streak++
		prev = day
	}
	return streak
}

// Streaks recomputes current and longest streak from a full history.
//
// current only counts when the newest check-in is today or yesterday and stops
// growing at the first gap, so it is the unbroken run touching today. longest
// keeps tracking later runs. A history whose newest entry is older than
// yesterday seeds the running count at zero, so its first run counts one day short.
func Streaks(checkIns []models.CheckIn, now time.Time, loc *time.Location) (current, longest int) {
	if len(checkIns) == 0 {
		return 0, 0
	}
	sorted := append([]models.CheckIn(nil), checkIns...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CheckedInAt.After(sorted[j].CheckedInAt)
	})

	today := civilDay(now, loc)
	newest := civilDay(sorted[0].CheckedInAt, loc)
	temp := 0
	if gap := daysBetween(today, newest); gap == 0 || gap == 1 {
		current, temp = 1, 1
	}

	counting := current > 0
	prev := newest
	for _, c := range sorted[1:] {
		day := civilDay(c.CheckedInAt, loc)
		if daysBetween(prev, day) == 1 {
			temp++
			if counting {
				current++
			}
		} else {
			longest = max(longest, temp)
			temp = 1
			counting = false
		}
		prev = day
	}
	longest = max(longest, temp)
	return current, longest
}
