package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/store"
)

const (
	statsHistoryLimit = 100
	statsRecentLimit  = 10
)

// Requester identifies the caller asking for stats.
type Requester struct {
	UserID uint
	Role   models.Role
}

// Totals are the point sums over the fetched history.
type Totals struct {
	TotalPoints     int `json:"total_points"`
	WeeklyPoints    int `json:"weekly_points"`
	MonthlyPoints   int `json:"monthly_points"`
	QuarterlyPoints int `json:"quarterly_points"`
}

// Stats is the aggregated view of a user's attendance.
type Stats struct {
	UserID uint `json:"user_id"`
	Totals
	CurrentStreak     int                       `json:"current_streak"`
	LongestStreak     int                       `json:"longest_streak"`
	TotalCheckIns     int                       `json:"total_check_ins"`
	RecentCheckIns    []models.CheckIn          `json:"recent_check_ins"`
	RecentBonusPoints []models.BonusPoint       `json:"recent_bonus_points"`
	Badges            []models.UserBadge        `json:"badges"`
	Redemptions       []models.RewardRedemption `json:"redemptions"`
}

// StatsService aggregates points and streaks.
type StatsService struct {
	store  store.Store
	rules  Rules
	clock  Clock
	logger *zap.Logger
}

// NewStatsService creates a stats aggregator.
func NewStatsService(s store.Store, rules Rules, opts ...Option) *StatsService {
	o := buildOptions(opts)
	return &StatsService{store: s, rules: rules, clock: o.clock, logger: o.logger}
}

// UserStats returns the stats of userID. Only the user or a role allowed to
// view any stats may ask; any read failure yields no partial result.
func (s *StatsService) UserStats(ctx context.Context, userID uint, req Requester) (*Stats, error) {
	if !CanViewStats(userID, req) {
		return nil, ErrForbidden
	}

	user, err := s.store.User(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.fail(userID, "load user", err)
	}

	checkIns, err := s.store.ListCheckIns(ctx, userID, statsHistoryLimit)
	if err != nil {
		return nil, s.fail(userID, "load check-ins", err)
	}
	bonuses, err := s.store.ListBonusPoints(ctx, userID, statsHistoryLimit)
	if err != nil {
		return nil, s.fail(userID, "load bonus points", err)
	}
	redemptions, err := s.store.ListRedemptions(ctx, userID, statsHistoryLimit)
	if err != nil {
		return nil, s.fail(userID, "load redemptions", err)
	}
	badges, err := s.store.ListUserBadges(ctx, userID)
	if err != nil {
		return nil, s.fail(userID, "load badges", err)
	}

	now := s.clock.Now()
	current, longest := Streaks(checkIns, now, s.rules.Location(user.Company.Timezone))

	return &Stats{
		UserID:            userID,
		Totals:            ComputeTotals(checkIns, bonuses, redemptions, now),
		CurrentStreak:     current,
		LongestStreak:     longest,
		TotalCheckIns:     len(checkIns),
		RecentCheckIns:    head(checkIns, statsRecentLimit),
		RecentBonusPoints: head(bonuses, statsRecentLimit),
		Badges:            nonNil(badges),
		Redemptions:       nonNil(redemptions),
	}, nil
}

// CanViewStats reports whether req may read the stats of userID.
func CanViewStats(userID uint, req Requester) bool {
	return req.UserID == userID || req.Role.Can(models.CapViewAnyStats)
}

// ComputeTotals sums check-in and bonus points overall and over the trailing
// 7, 30 and 90 days. Non-rejected redemptions reduce only the overall total.
func ComputeTotals(checkIns []models.CheckIn, bonuses []models.BonusPoint, redemptions []models.RewardRedemption, now time.Time) Totals {
	week := now.AddDate(0, 0, -7)
	month := now.AddDate(0, 0, -30)
	quarter := now.AddDate(0, 0, -90)

	var t Totals
	add := func(points int, at time.Time) {
		t.TotalPoints += points
		if !at.Before(week) {
			t.WeeklyPoints += points
		}
		if !at.Before(month) {
			t.MonthlyPoints += points
		}
		if !at.Before(quarter) {
			t.QuarterlyPoints += points
		}
	}
	for _, c := range checkIns {
		add(c.PointsEarned, c.CheckedInAt)
	}
	for _, b := range bonuses {
		add(b.Points, b.CreatedAt)
	}
	for _, r := range redemptions {
		if r.Status.CountsAsSpent() {
			t.TotalPoints -= r.PointsCost
		}
	}
	return t
}

func (s *StatsService) fail(userID uint, op string, err error) *AppError {
	s.logger.Error("stats failed", zap.Uint("user_id", userID), zap.String("op", op), zap.Error(err))
	return processingFailed(fmt.Errorf("%s: %w", op, err))
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}
	return nonNil(items)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
