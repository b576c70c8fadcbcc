package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/store"
)

// BonusService grants discretionary points.
type BonusService struct {
	store  store.Store
	clock  Clock
	logger *zap.Logger
}

// NewBonusService creates a bonus service.
func NewBonusService(s store.Store, opts ...Option) *BonusService {
	o := buildOptions(opts)
	return &BonusService{store: s, clock: o.clock, logger: o.logger}
}

// Grant records points for userID. Negative points are a deduction.
func (s *BonusService) Grant(ctx context.Context, userID, grantor uint, points int, reason string) (*models.BonusPoint, error) {
	reason = strings.TrimSpace(reason)
	if points == 0 || reason == "" {
		return nil, ErrInvalidBonus
	}
	if _, err := s.store.User(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.fail(userID, err)
	}

	b := &models.BonusPoint{
		UserID:    userID,
		Points:    points,
		Reason:    reason,
		GrantedBy: grantor,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.CreateBonusPoint(ctx, b); err != nil {
		return nil, s.fail(userID, err)
	}
	s.logger.Info("bonus granted", zap.Uint("user_id", userID), zap.Uint("granted_by", grantor), zap.Int("points", points))
	return b, nil
}

func (s *BonusService) fail(userID uint, err error) *AppError {
	s.logger.Error("bonus grant failed", zap.Uint("user_id", userID), zap.Error(err))
	return processingFailed(err)
}
