package services

import "github.com/cppla/earlybird/models"

// BadgeProgress holds the counters badge criteria are evaluated against.
type BadgeProgress struct {
	CheckIns      int
	EarlyCheckIns int
	Streak        int
}

func (p BadgeProgress) value(c models.BadgeCriteria) (int, bool) {
	switch c {
	case models.CriteriaCheckInCount:
		return p.CheckIns, true
	case models.CriteriaEarlyCount:
		return p.EarlyCheckIns, true
	case models.CriteriaStreak:
		return p.Streak, true
	}
	return 0, false
}

// EligibleBadges returns the catalog badges whose threshold is met and that are not in earned.
func EligibleBadges(catalog []models.Badge, earned map[uint]bool, p BadgeProgress) []models.Badge {
	var out []models.Badge
	for _, b := range catalog {
		if earned[b.ID] || b.Threshold <= 0 {
			continue
		}
		if v, ok := p.value(b.Criteria); ok && v >= b.Threshold {
			out = append(out, b)
		}
	}
	return out
}
