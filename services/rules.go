package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cppla/earlybird/config"
	"github.com/cppla/earlybird/models"
)

// Milestone awards Points when a streak lands exactly on Days.
type Milestone struct {
	Days   int
	Points int
}

// Rules are the attendance rules shared by check-in processing and QR code generation.
type Rules struct {
	// Check-ins are accepted while WindowStartHour <= local hour < WindowEndHour.
	WindowStartHour int
	WindowEndHour   int
	// Minutes since local midnight; a check-in at or before the cutoff gets that class.
	EarlyCutoff  int
	OnTimeCutoff int

	EarlyPoints  int
	OnTimePoints int
	LatePoints   int

	Milestones []Milestone
	// StreakLookbackDays and StreakLookbackLimit bound the history read after a check-in.
	StreakLookbackDays  int
	StreakLookbackLimit int

	DefaultLocation *time.Location
}

// DefaultRules is the reference deployment: 06:00-09:00 window, early until
// 07:45, on time until 08:00, fixed UTC-7.
func DefaultRules() Rules {
	return Rules{
		WindowStartHour:     6,
		WindowEndHour:       9,
		EarlyCutoff:         7*60 + 45,
		OnTimeCutoff:        8 * 60,
		EarlyPoints:         2,
		OnTimePoints:        1,
		LatePoints:          0,
		Milestones:          []Milestone{{Days: 7, Points: 5}, {Days: 10, Points: 10}, {Days: 30, Points: 25}},
		StreakLookbackDays:  30,
		StreakLookbackLimit: 30,
		DefaultLocation:     time.FixedZone("UTC-07:00", -7*3600),
	}
}

// RulesFromConfig builds Rules from the checkin config section.
func RulesFromConfig(c config.CheckInSection) (Rules, error) {
	r := DefaultRules()
	r.WindowStartHour = c.WindowStartHour
	r.WindowEndHour = c.WindowEndHour
	r.EarlyCutoff = c.EarlyCutoffMinutes
	r.OnTimeCutoff = c.OnTimeCutoffMinutes
	r.EarlyPoints = c.EarlyPoints
	r.OnTimePoints = c.OnTimePoints
	r.LatePoints = c.LatePoints

	if r.WindowStartHour < 0 || r.WindowEndHour > 24 || r.WindowStartHour >= r.WindowEndHour {
		return Rules{}, fmt.Errorf("invalid check-in window %d-%d", r.WindowStartHour, r.WindowEndHour)
	}
	if r.EarlyCutoff > r.OnTimeCutoff {
		return Rules{}, fmt.Errorf("early cutoff %d is after on-time cutoff %d", r.EarlyCutoff, r.OnTimeCutoff)
	}

	milestones, err := ParseMilestones(c.Milestones)
	if err != nil {
		return Rules{}, err
	}
	r.Milestones = milestones

	loc, err := ParseLocation(c.DefaultTimezone)
	if err != nil {
		return Rules{}, err
	}
	r.DefaultLocation = loc
	return r, nil
}

// ParseMilestones parses "days:points" pairs separated by commas.
func ParseMilestones(raw string) ([]Milestone, error) {
	var out []Milestone
	seen := map[int]bool{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		days, points, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid milestone %q", part)
		}
		d, err := strconv.Atoi(strings.TrimSpace(days))
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid milestone days %q", part)
		}
		p, err := strconv.Atoi(strings.TrimSpace(points))
		if err != nil || p < 0 {
			return nil, fmt.Errorf("invalid milestone points %q", part)
		}
		if seen[d] {
			return nil, fmt.Errorf("duplicate milestone for %d days", d)
		}
		seen[d] = true
		out = append(out, Milestone{Days: d, Points: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Days < out[j].Days })
	return out, nil
}

// Location resolves a company timezone, falling back to the default when it is empty or invalid.
func (r Rules) Location(tz string) *time.Location {
	if strings.TrimSpace(tz) != "" {
		if loc, err := ParseLocation(tz); err == nil {
			return loc
		}
	}
	if r.DefaultLocation == nil {
		return time.UTC
	}
	return r.DefaultLocation
}

// InWindow reports whether local falls in the half-open hour range of the window.
func (r Rules) InWindow(local time.Time) bool {
	h := local.Hour()
	return h >= r.WindowStartHour && h < r.WindowEndHour
}

// Window returns the window bounds on the civil day containing t.
func (r Rules) Window(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start, _ := dayBounds(t, loc)
	from := start.Add(time.Duration(r.WindowStartHour) * time.Hour)
	until := start.Add(time.Duration(r.WindowEndHour) * time.Hour).Add(-time.Second)
	return from, until
}

// Score classifies local by minute of day and returns the base points.
func (r Rules) Score(local time.Time) (models.CheckInType, int) {
	m := local.Hour()*60 + local.Minute()
	switch {
	case m <= r.EarlyCutoff:
		return models.CheckInEarly, r.EarlyPoints
	case m <= r.OnTimeCutoff:
		return models.CheckInOnTime, r.OnTimePoints
	default:
		return models.CheckInLate, r.LatePoints
	}
}

// MilestoneBonus returns the bonus for a streak that equals a milestone exactly.
func (r Rules) MilestoneBonus(streak int) (Milestone, bool) {
	for _, m := range r.Milestones {
		if m.Days == streak {
			return m, true
		}
	}
	return Milestone{}, false
}
