package models

import "time"

// Reward is a catalog item that can be bought with points. Stock < 0 means unlimited.
type Reward struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"size:512" json:"description"`
	PointsCost  int       `gorm:"not null" json:"points_cost"`
	Stock       int       `gorm:"not null" json:"stock"`
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Unlimited reports whether the reward has no stock cap.
func (r Reward) Unlimited() bool { return r.Stock < 0 }

// RedemptionStatus is the review state of a redemption.
type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "pending"
	RedemptionApproved  RedemptionStatus = "approved"
	RedemptionRejected  RedemptionStatus = "rejected"
	RedemptionFulfilled RedemptionStatus = "fulfilled"
)

var redemptionTransitions = map[RedemptionStatus][]RedemptionStatus{
	RedemptionPending:  {RedemptionApproved, RedemptionRejected},
	RedemptionApproved: {RedemptionFulfilled, RedemptionRejected},
}

// CanTransition reports whether a redemption may move from s to next.
func (s RedemptionStatus) CanTransition(next RedemptionStatus) bool {
	for _, allowed := range redemptionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CountsAsSpent reports whether the redemption's cost is deducted from the balance.
func (s RedemptionStatus) CountsAsSpent() bool {
	return s != RedemptionRejected
}

// RewardRedemption is a point-spend request for a reward.
type RewardRedemption struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	UserID     uint             `gorm:"index;not null" json:"user_id"`
	RewardID   uint             `gorm:"index;not null" json:"reward_id"`
	Reward     *Reward          `json:"reward,omitempty"`
	PointsCost int              `gorm:"not null" json:"points_cost"`
	Status     RedemptionStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	ReviewedBy *uint            `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time       `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
