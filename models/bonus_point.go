package models

import "time"

// BonusPoint is an immutable point grant, either a streak milestone awarded by
// the system (GrantedBy == UserID) or a discretionary admin award.
type BonusPoint struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Points    int       `gorm:"not null" json:"points"`
	Reason    string    `gorm:"size:255" json:"reason"`
	GrantedBy uint      `gorm:"not null" json:"granted_by"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
