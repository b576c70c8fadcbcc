// Package store is the persistence boundary. Services depend on the Store
// interface; Gorm is the production implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/cppla/earlybird/models"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// Store is the record store used by the services. List methods return records
// newest first unless stated otherwise.
type Store interface {
	// Transaction runs fn against a Store bound to a single transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CreateCompany(ctx context.Context, c *models.Company) error
	Company(ctx context.Context, id uint) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
	CreateDepartment(ctx context.Context, d *models.Department) error
	ListDepartments(ctx context.Context, companyID uint) ([]models.Department, error)

	CreateUser(ctx context.Context, u *models.User) error
	// User loads a user with its company preloaded.
	User(ctx context.Context, id uint) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context, companyID uint, status models.UserStatus, limit, offset int) ([]models.User, error)
	UpdateUserStatus(ctx context.Context, id uint, status models.UserStatus) error
	// LockUser takes a row lock on the user for the rest of the transaction.
	LockUser(ctx context.Context, id uint) error

	CreateQRCode(ctx context.Context, q *models.QRCode) error
	// ValidQRCode finds a code owned by companyID whose window contains at.
	ValidQRCode(ctx context.Context, code string, companyID uint, at time.Time) (*models.QRCode, error)
	ListQRCodes(ctx context.Context, companyID uint, limit, offset int) ([]models.QRCode, error)
	DeleteQRCodesExpiredBefore(ctx context.Context, before time.Time) (int64, error)

	CreateCheckIn(ctx context.Context, c *models.CheckIn) error
	// FirstCheckInBetween finds the user's check-in with from <= CheckedInAt <= to.
	FirstCheckInBetween(ctx context.Context, userID uint, from, to time.Time) (*models.CheckIn, error)
	// CheckInsSince lists up to limit check-ins with CheckedInAt >= since.
	CheckInsSince(ctx context.Context, userID uint, since time.Time, limit int) ([]models.CheckIn, error)
	ListCheckIns(ctx context.Context, userID uint, limit int) ([]models.CheckIn, error)
	CountCheckIns(ctx context.Context, userID uint, types ...models.CheckInType) (int64, error)

	CreateBonusPoint(ctx context.Context, b *models.BonusPoint) error
	ListBonusPoints(ctx context.Context, userID uint, limit int) ([]models.BonusPoint, error)

	// PointBalance is the lifetime balance: check-in and bonus points minus non-rejected redemptions.
	PointBalance(ctx context.Context, userID uint) (int, error)

	CreateReward(ctx context.Context, r *models.Reward) error
	ListRewards(ctx context.Context, activeOnly bool) ([]models.Reward, error)
	// Reward loads a reward, locking it when forUpdate is set.
	Reward(ctx context.Context, id uint, forUpdate bool) (*models.Reward, error)
	AdjustRewardStock(ctx context.Context, id uint, delta int) error

	CreateRedemption(ctx context.Context, r *models.RewardRedemption) error
	Redemption(ctx context.Context, id uint, forUpdate bool) (*models.RewardRedemption, error)
	SaveRedemption(ctx context.Context, r *models.RewardRedemption) error
	ListRedemptions(ctx context.Context, userID uint, limit int) ([]models.RewardRedemption, error)
	ListRedemptionsByStatus(ctx context.Context, status models.RedemptionStatus, limit, offset int) ([]models.RewardRedemption, error)

	EnsureBadges(ctx context.Context, badges []models.Badge) error
	ListBadges(ctx context.Context) ([]models.Badge, error)
	ListUserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error)
	CreateUserBadge(ctx context.Context, ub *models.UserBadge) error
}
