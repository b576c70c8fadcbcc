package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/earlybird/models"
)

// Gorm implements Store on top of a *gorm.DB.
type Gorm struct {
	db *gorm.DB
}

// NewGorm wraps an initialized database handle.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

func (g *Gorm) conn(ctx context.Context) *gorm.DB {
	return g.db.WithContext(ctx)
}

func (g *Gorm) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return g.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

func (g *Gorm) CreateCompany(ctx context.Context, c *models.Company) error {
	return translate(g.conn(ctx).Create(c).Error)
}

func (g *Gorm) Company(ctx context.Context, id uint) (*models.Company, error) {
	var c models.Company
	if err := g.conn(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (g *Gorm) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var items []models.Company
	err := g.conn(ctx).Order("name ASC").Find(&items).Error
	return items, translate(err)
}

func (g *Gorm) CreateDepartment(ctx context.Context, d *models.Department) error {
	return translate(g.conn(ctx).Create(d).Error)
}

func (g *Gorm) ListDepartments(ctx context.Context, companyID uint) ([]models.Department, error) {
	var items []models.Department
	err := g.conn(ctx).Where("company_id = ?", companyID).Order("name ASC").Find(&items).Error
	return items, translate(err)
}

func (g *Gorm) CreateUser(ctx context.Context, u *models.User) error {
	return translate(g.conn(ctx).Create(u).Error)
}

func (g *Gorm) User(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := g.conn(ctx).Preload("Company").First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *Gorm) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := g.conn(ctx).Preload("Company").Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *Gorm) ListUsers(ctx context.Context, companyID uint, status models.UserStatus, limit, offset int) ([]models.User, error) {
	q := g.conn(ctx).Model(&models.User{})
	if companyID != 0 {
		q = q.Where("company_id = ?", companyID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var items []models.User
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	return items, translate(err)
}

func (g *Gorm) UpdateUserStatus(ctx context.Context, id uint, status models.UserStatus) error {
	res := g.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) LockUser(ctx context.Context, id uint) error {
	var u models.User
	err := g.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&u, id).Error
	return translate(err)
}

func (g *Gorm) CreateQRCode(ctx context.Context, q *models.QRCode) error {
	return translate(g.conn(ctx).Create(q).Error)
}

func (g *Gorm) ValidQRCode(ctx context.Context, code string, companyID uint, at time.Time) (*models.QRCode, error) {
	at = at.UTC()
	var q models.QRCode
	err := g.conn(ctx).
		Where("code = ? AND company_id = ? AND valid_from <= ? AND valid_until >= ?", code, companyID, at, at).
		First(&q).Error
	if err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (g *Gorm) ListQRCodes(ctx context.Context, companyID uint, limit, offset int) ([]models.QRCode, error) {
	var items []models.QRCode
	err := g.conn(ctx).Where("company_id = ?", companyID).
		Order("valid_from DESC").Offset(offset).Limit(limit).Find(&items).Error
	return items, translate(err)
}

func (g *Gorm) DeleteQRCodesExpiredBefore(ctx context.Context, before time.Time) (int64, error) {
	res := g.conn(ctx).Where("valid_until < ?", before.UTC()).Delete(&models.QRCode{})
	return res.RowsAffected, translate(res.Error)
}

func (g *Gorm) CreateCheckIn(ctx context.Context, c *models.CheckIn) error {
	c.CheckedInAt = c.CheckedInAt.UTC()
	return translate(g.conn(ctx).Create(c).Error)
}

func (g *Gorm) FirstCheckInBetween(ctx context.Context, userID uint, from, to time.Time) (*models.CheckIn, error) {
	var c models.CheckIn
	err := g.conn(ctx).
		Where("user_id = ? AND checked_in_at >= ? AND checked_in_at <= ?", userID, from.UTC(), to.UTC()).
		Order("checked_in_at ASC").
		First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (g *Gorm) CheckInsSince(ctx context.Context, userID uint, since time.Time, limit int) ([]models.CheckIn, error) {
	var items []models.CheckIn
	err := g.conn(ctx).
		Where("user_id = ? AND checked_in_at >= ?", userID, since.UTC()).
		Order("checked_in_at DESC").Limit(limit).Find(&items).Error
	return items, translate(err)
}

func (g *Gorm) ListCheckIns(ctx context.Context, userID uint, limit int) ([]models.CheckIn, error) {
	var items []models.CheckIn
	err := g.conn(ctx).Where("user_id = ?", userID).
		Order("checked_in_at DESC").Limit(limit).Find(&items).Error
	return items, translate(err)
}

func (g *Gorm) CountCheckIns(ctx context.Context, userID uint, types ...models.CheckInType) (int64, error) {
	q := g.conn(ctx).Model(&models.CheckIn{}).Where("user_id = ?", userID)
	if len(types) > 0 {
		q = q.Where("type IN ?", types)
	}
	var n int64
	err := q.Count(&n).Error
	return n, translate(err)
}

func (g *Gorm) CreateBonusPoint(ctx context.Context, b *models.BonusPoint) error {
	b.CreatedAt = b.CreatedAt.UTC()
	return translate(g.conn(ctx).Create(b).Error)
}

func (g *Gorm) ListBonusPoints(ctx context.Context, userID uint, limit int) ([]models.BonusPoint, error) {
	var items []models.BonusPoint
	err := g.conn(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&items).Error
	return items, translate(err)
}

func (g *Gorm) PointBalance(ctx context.Context, userID uint) (int, error) {
	var earned, bonus, spent int64
	db := g.conn(ctx)
	if err := db.Model(&models.CheckIn{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(points_earned),0)").Scan(&earned).Error; err != nil {
		return 0, translate(err)
	}
	if err := db.Model(&models.BonusPoint{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(points),0)").Scan(&bonus).Error; err != nil {
		return 0, translate(err)
	}
	if err := db.Model(&models.RewardRedemption{}).
		Where("user_id = ? AND status <> ?", userID, models.RedemptionRejected).
		Select("COALESCE(SUM(points_cost),0)").Scan(&spent).Error; err != nil {
		return 0, translate(err)
	}
	return int(earned + bonus - spent), nil
}

func (g *Gorm) CreateReward(ctx context.Context, r *models.Reward) error {
	return translate(g.conn(ctx).Create(r).Error)
}

func (g *Gorm) ListRewards(ctx context.Context, activeOnly bool) ([]models.Reward, error) {
	q := g.conn(ctx).Model(&models.Reward{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var items []models.Reward
	err := q.Order("points_cost ASC").Find(&items).Error
	return items, translate(err)
}

func (g *Gorm) Reward(ctx context.Context, id uint, forUpdate bool) (*models.Reward, error) {
	q := g.conn(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var r models.Reward
	if err := q.First(&r, id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (g *Gorm) AdjustRewardStock(ctx context.Context, id uint, delta int) error {
	res := g.conn(ctx).Model(&models.Reward{}).
		Where("id = ? AND stock >= 0 AND stock + ? >= 0", id, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) CreateRedemption(ctx context.Context, r *models.RewardRedemption) error {
	return translate(g.conn(ctx).Omit("Reward").Create(r).Error)
}

func (g *Gorm) Redemption(ctx context.Context, id uint, forUpdate bool) (*models.RewardRedemption, error) {
	q := g.conn(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var r models.RewardRedemption
	if err := q.First(&r, id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (g *Gorm) SaveRedemption(ctx context.Context, r *models.RewardRedemption) error {
	return translate(g.conn(ctx).Omit("Reward").Save(r).Error)
}

func (g *Gorm) ListRedemptions(ctx context.Context, userID uint, limit int) ([]models.RewardRedemption, error) {
	var items []models.RewardRedemption
	err := g.conn(ctx).Preload("Reward").Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&items).Error
	return items, translate(err)
}

func (g *Gorm) ListRedemptionsByStatus(ctx context.Context, status models.RedemptionStatus, limit, offset int) ([]models.RewardRedemption, error) {
	q := g.conn(ctx).Preload("Reward")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var items []models.RewardRedemption
	err := q.Order("created_at ASC").Offset(offset).Limit(limit).Find(&items).Error
	return items, translate(err)
}

func (g *Gorm) EnsureBadges(ctx context.Context, badges []models.Badge) error {
	for i := range badges {
		err := g.conn(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&badges[i]).Error
		if err != nil {
			return translate(err)
		}
	}
	return nil
}

func (g *Gorm) ListBadges(ctx context.Context) ([]models.Badge, error) {
	var items []models.Badge
	err := g.conn(ctx).Order("id ASC").Find(&items).Error
	return items, translate(err)
}

func (g *Gorm) ListUserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	var items []models.UserBadge
	err := g.conn(ctx).Preload("Badge").Where("user_id = ?", userID).
		Order("earned_at DESC").Find(&items).Error
	return items, translate(err)
}

func (g *Gorm) CreateUserBadge(ctx context.Context, ub *models.UserBadge) error {
	return translate(g.conn(ctx).Omit("Badge").Create(ub).Error)
}
