package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/earlybird/config"
	"github.com/cppla/earlybird/models"
)

func TestScoreBoundaries(t *testing.T) {
	r := DefaultRules()
	cases := []struct {
		minute int
		typ    models.CheckInType
		points int
	}{
		{360, models.CheckInEarly, 2},
		{465, models.CheckInEarly, 2},
		{466, models.CheckInOnTime, 1},
		{480, models.CheckInOnTime, 1},
		{481, models.CheckInLate, 0},
		{539, models.CheckInLate, 0},
	}
	for _, tc := range cases {
		local := time.Date(2024, 1, 2, tc.minute/60, tc.minute%60, 30, 0, phoenix)
		typ, points := r.Score(local)
		assert.Equal(t, tc.typ, typ, "minute %d", tc.minute)
		assert.Equal(t, tc.points, points, "minute %d", tc.minute)
	}
}

func TestInWindow(t *testing.T) {
	r := DefaultRules()
	for h := 0; h < 24; h++ {
		local := time.Date(2024, 1, 2, h, 0, 0, 0, phoenix)
		assert.Equal(t, h >= 6 && h < 9, r.InWindow(local), "hour %d", h)
	}
	assert.True(t, r.InWindow(time.Date(2024, 1, 2, 8, 59, 59, 0, phoenix)))
}

func TestWindowBounds(t *testing.T) {
	from, until := DefaultRules().Window(at(0, 12, 0), phoenix)
	assert.True(t, at(0, 6, 0).Equal(from), from.String())
	assert.True(t, at(0, 8, 59).Add(59*time.Second).Equal(until), until.String())
}

func TestMilestoneBonusIsExact(t *testing.T) {
	r := DefaultRules()
	want := map[int]int{7: 5, 10: 10, 30: 25}
	for streak := 0; streak <= 40; streak++ {
		m, ok := r.MilestoneBonus(streak)
		points, exact := want[streak]
		assert.Equal(t, exact, ok, "streak %d", streak)
		assert.Equal(t, points, m.Points, "streak %d", streak)
	}
}

func TestParseMilestones(t *testing.T) {
	got, err := ParseMilestones(" 30:25, 7:5 ,10:10,")
	require.NoError(t, err)
	assert.Equal(t, []Milestone{{7, 5}, {10, 10}, {30, 25}}, got)

	for _, bad := range []string{"7", "x:5", "7:y", "0:5", "7:-1", "7:5,7:6"} {
		_, err := ParseMilestones(bad)
		assert.Error(t, err, bad)
	}

	got, err = ParseMilestones("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRulesFromConfig(t *testing.T) {
	c := config.Defaults().CheckIn
	r, err := RulesFromConfig(c)
	require.NoError(t, err)

	def := DefaultRules()
	assert.Equal(t, def.WindowStartHour, r.WindowStartHour)
	assert.Equal(t, def.WindowEndHour, r.WindowEndHour)
	assert.Equal(t, def.EarlyCutoff, r.EarlyCutoff)
	assert.Equal(t, def.OnTimeCutoff, r.OnTimeCutoff)
	assert.Equal(t, def.Milestones, r.Milestones)
	_, offset := time.Date(2024, 7, 1, 0, 0, 0, 0, r.DefaultLocation).Zone()
	assert.Equal(t, -7*3600, offset)

	bad := c
	bad.WindowStartHour, bad.WindowEndHour = 9, 6
	_, err = RulesFromConfig(bad)
	assert.Error(t, err)

	bad = c
	bad.EarlyCutoffMinutes = 500
	_, err = RulesFromConfig(bad)
	assert.Error(t, err)

	bad = c
	bad.DefaultTimezone = "Mars/Olympus"
	_, err = RulesFromConfig(bad)
	assert.Error(t, err)
}

func TestLocationFallback(t *testing.T) {
	r := DefaultRules()
	assert.Equal(t, r.DefaultLocation, r.Location(""))
	assert.Equal(t, r.DefaultLocation, r.Location("not a zone"))
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, r.Location("+05:30")).Zone()
	assert.Equal(t, 5*3600+30*60, offset)
}
