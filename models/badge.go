package models

import "time"

// BadgeCriteria names the progress counter a badge threshold applies to.
type BadgeCriteria string

const (
	CriteriaCheckInCount BadgeCriteria = "checkin_count"
	CriteriaEarlyCount   BadgeCriteria = "early_count"
	CriteriaStreak       BadgeCriteria = "streak"
)

// Badge is an achievement awarded once a counter reaches Threshold.
type Badge struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Code        string        `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name        string        `gorm:"size:128;not null" json:"name"`
	Description string        `gorm:"size:255" json:"description"`
	Criteria    BadgeCriteria `gorm:"size:32;not null" json:"criteria"`
	Threshold   int           `gorm:"not null" json:"threshold"`
	CreatedAt   time.Time     `json:"created_at"`
}

// UserBadge records that a user earned a badge.
type UserBadge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"uniqueIndex:idx_user_badge;not null" json:"user_id"`
	BadgeID  uint      `gorm:"uniqueIndex:idx_user_badge;not null" json:"badge_id"`
	Badge    Badge     `json:"badge"`
	EarnedAt time.Time `json:"earned_at"`
}

// DefaultBadges is the catalog seeded on first boot.
func DefaultBadges() []Badge {
	return []Badge{
		{Code: "first_checkin", Name: "First Step", Description: "Checked in for the first time", Criteria: CriteriaCheckInCount, Threshold: 1},
		{Code: "checkins_50", Name: "Regular", Description: "Checked in 50 times", Criteria: CriteriaCheckInCount, Threshold: 50},
		{Code: "early_bird_10", Name: "Early Bird", Description: "Checked in early 10 times", Criteria: CriteriaEarlyCount, Threshold: 10},
		{Code: "streak_7", Name: "One Week Strong", Description: "Reached a 7 day streak", Criteria: CriteriaStreak, Threshold: 7},
		{Code: "streak_30", Name: "Unstoppable", Description: "Reached a 30 day streak", Criteria: CriteriaStreak, Threshold: 30},
	}
}

// AllModels lists every persisted model, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Company{}, &Department{}, &User{}, &QRCode{}, &CheckIn{},
		&BonusPoint{}, &Reward{}, &RewardRedemption{}, &Badge{}, &UserBadge{},
	}
}
