package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/store"
)

// RewardService manages the reward catalog and point redemption.
type RewardService struct {
	store  store.Store
	clock  Clock
	logger *zap.Logger
}

// NewRewardService creates a reward service.
func NewRewardService(s store.Store, opts ...Option) *RewardService {
	o := buildOptions(opts)
	return &RewardService{store: s, clock: o.clock, logger: o.logger}
}

// Create adds a catalog item.
func (s *RewardService) Create(ctx context.Context, r *models.Reward) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" || r.PointsCost <= 0 {
		return ErrInvalidReward
	}
	if err := s.store.CreateReward(ctx, r); err != nil {
		return s.fail("create reward", err)
	}
	return nil
}

// Catalog lists rewards, only active ones unless all is set.
func (s *RewardService) Catalog(ctx context.Context, all bool) ([]models.Reward, error) {
	items, err := s.store.ListRewards(ctx, !all)
	if err != nil {
		return nil, s.fail("list rewards", err)
	}
	return nonNil(items), nil
}

// Redeem spends the reward's cost from the user's balance and creates a pending
// redemption. The user row is locked so concurrent redemptions see each other.
func (s *RewardService) Redeem(ctx context.Context, userID, rewardID uint) (*models.RewardRedemption, error) {
	var out *models.RewardRedemption
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.LockUser(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("lock user: %w", err)
		}

		reward, err := tx.Reward(ctx, rewardID, true)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrRewardNotFound
			}
			return fmt.Errorf("load reward: %w", err)
		}
		if !reward.Active || reward.Stock == 0 {
			return ErrRewardUnavailable
		}

		balance, err := tx.PointBalance(ctx, userID)
		if err != nil {
			return fmt.Errorf("point balance: %w", err)
		}
		if balance < reward.PointsCost {
			return ErrInsufficientPoints
		}

		if !reward.Unlimited() {
			if err := tx.AdjustRewardStock(ctx, reward.ID, -1); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrRewardUnavailable
				}
				return fmt.Errorf("decrement stock: %w", err)
			}
		}

		redemption := &models.RewardRedemption{
			UserID:     userID,
			RewardID:   reward.ID,
			PointsCost: reward.PointsCost,
			Status:     models.RedemptionPending,
			CreatedAt:  s.clock.Now().UTC(),
		}
		if err := tx.CreateRedemption(ctx, redemption); err != nil {
			return fmt.Errorf("create redemption: %w", err)
		}
		redemption.Reward = reward
		out = redemption
		return nil
	})
	if err != nil {
		return nil, s.wrap("redeem", err)
	}
	s.logger.Info("reward redeemed",
		zap.Uint("user_id", userID),
		zap.Uint("reward_id", rewardID),
		zap.Int("points", out.PointsCost),
	)
	return out, nil
}

// Review moves a redemption to next. Rejecting gives the stock back.
func (s *RewardService) Review(ctx context.Context, redemptionID, reviewer uint, next models.RedemptionStatus) (*models.RewardRedemption, error) {
	var out *models.RewardRedemption
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		r, err := tx.Redemption(ctx, redemptionID, true)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrRedemptionNotFound
			}
			return fmt.Errorf("load redemption: %w", err)
		}
		if !r.Status.CanTransition(next) {
			return ErrInvalidTransition
		}

		now := s.clock.Now().UTC()
		r.Status = next
		r.ReviewedBy = &reviewer
		r.ReviewedAt = &now
		r.UpdatedAt = now
		if err := tx.SaveRedemption(ctx, r); err != nil {
			return fmt.Errorf("save redemption: %w", err)
		}

		if next == models.RedemptionRejected {
			reward, err := tx.Reward(ctx, r.RewardID, true)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("load reward: %w", err)
			}
			if reward != nil && !reward.Unlimited() {
				if err := tx.AdjustRewardStock(ctx, reward.ID, 1); err != nil {
					return fmt.Errorf("restore stock: %w", err)
				}
			}
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, s.wrap("review redemption", err)
	}
	s.logger.Info("redemption reviewed",
		zap.Uint("redemption_id", redemptionID),
		zap.Uint("reviewer", reviewer),
		zap.String("status", string(next)),
	)
	return out, nil
}

// Pending lists redemptions in the given status, oldest first.
func (s *RewardService) Pending(ctx context.Context, status models.RedemptionStatus, limit, offset int) ([]models.RewardRedemption, error) {
	items, err := s.store.ListRedemptionsByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, s.fail("list redemptions", err)
	}
	return nonNil(items), nil
}

func (s *RewardService) wrap(op string, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return s.fail(op, err)
}

func (s *RewardService) fail(op string, err error) *AppError {
	s.logger.Error("reward operation failed", zap.String("op", op), zap.Error(err))
	return processingFailed(err)
}
