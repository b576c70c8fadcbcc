package models

import "time"

// CheckInType classifies a check-in by punctuality.
type CheckInType string

const (
	CheckInEarly  CheckInType = "early"
	CheckInOnTime CheckInType = "ontime"
	CheckInLate   CheckInType = "late"
)

// CheckIn is one attendance record. CheckInDate is the civil date in the
// company timezone; the unique index keeps one record per user per day.
type CheckIn struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UserID       uint        `gorm:"uniqueIndex:idx_checkin_user_date;not null" json:"user_id"`
	CheckInDate  string      `gorm:"size:10;uniqueIndex:idx_checkin_user_date;not null" json:"check_in_date"`
	CheckedInAt  time.Time   `gorm:"index;not null" json:"checked_in_at"`
	Type         CheckInType `gorm:"size:10;not null" json:"type"`
	PointsEarned int         `gorm:"not null;default:0" json:"points_earned"`
	QRCode       string      `gorm:"size:128;not null" json:"qr_code"`
	Location     string      `gorm:"size:255" json:"location,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}
