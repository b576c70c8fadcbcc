package models

import "time"

// QRCode is a check-in token redeemable within [ValidFrom, ValidUntil] by users of CompanyID.
type QRCode struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       string    `gorm:"size:128;uniqueIndex;not null" json:"code"`
	CompanyID  uint      `gorm:"index;not null" json:"company_id"`
	ValidFrom  time.Time `gorm:"not null" json:"valid_from"`
	ValidUntil time.Time `gorm:"index;not null" json:"valid_until"`
	CreatedBy  uint      `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidAt reports whether t falls inside the validity window, bounds included.
func (q QRCode) ValidAt(t time.Time) bool {
	return !t.Before(q.ValidFrom) && !t.After(q.ValidUntil)
}
