package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/earlybird/models"
)

func (f *fixture) rewards() *RewardService {
	return NewRewardService(f.store, WithClock(FixedClock(at(0, 12, 0))))
}

func (f *fixture) reward(t *testing.T, cost, stock int, active bool) *models.Reward {
	t.Helper()
	r := &models.Reward{Name: "Coffee", PointsCost: cost, Stock: stock, Active: active}
	require.NoError(t, f.store.CreateReward(context.Background(), r))
	return r
}

func TestRedeemDeductsBalanceAndStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedRun(t, f.user.ID, at(0, 6, 30), 5) // 10 points
	r := f.reward(t, 6, 2, true)

	red, err := f.rewards().Redeem(ctx, f.user.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionPending, red.Status)
	assert.Equal(t, 6, red.PointsCost)

	balance, err := f.store.PointBalance(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, balance)

	got, err := f.store.Reward(ctx, r.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)

	_, err = f.rewards().Redeem(ctx, f.user.ID, r.ID)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
}

func TestRedeemRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedRun(t, f.user.ID, at(0, 6, 30), 10)
	svc := f.rewards()

	_, err := svc.Redeem(ctx, f.user.ID, 12345)
	assert.ErrorIs(t, err, ErrRewardNotFound)

	soldOut := f.reward(t, 1, 0, true)
	_, err = svc.Redeem(ctx, f.user.ID, soldOut.ID)
	assert.ErrorIs(t, err, ErrRewardUnavailable)

	inactive := f.reward(t, 1, -1, false)
	_, err = svc.Redeem(ctx, f.user.ID, inactive.ID)
	assert.ErrorIs(t, err, ErrRewardUnavailable)

	unlimited := f.reward(t, 5, -1, true)
	for i := 0; i < 4; i++ {
		_, err = svc.Redeem(ctx, f.user.ID, unlimited.ID)
		require.NoError(t, err)
	}
	_, err = svc.Redeem(ctx, f.user.ID, unlimited.ID)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	_, err = svc.Redeem(ctx, 999, unlimited.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestReviewTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedRun(t, f.user.ID, at(0, 6, 30), 10)
	r := f.reward(t, 5, 3, true)
	svc := f.rewards()

	red, err := svc.Redeem(ctx, f.user.ID, r.ID)
	require.NoError(t, err)

	_, err = svc.Review(ctx, red.ID, f.admin.ID, models.RedemptionFulfilled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	approved, err := svc.Review(ctx, red.ID, f.admin.ID, models.RedemptionApproved)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, f.admin.ID, *approved.ReviewedBy)
	assert.NotNil(t, approved.ReviewedAt)

	rejected, err := svc.Review(ctx, red.ID, f.admin.ID, models.RedemptionRejected)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionRejected, rejected.Status)

	_, err = svc.Review(ctx, red.ID, f.admin.ID, models.RedemptionApproved)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := f.store.Reward(ctx, r.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock, "rejection restores stock")

	balance, err := f.store.PointBalance(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, balance, "rejected redemptions are refunded")

	_, err = svc.Review(ctx, 4242, f.admin.ID, models.RedemptionApproved)
	assert.ErrorIs(t, err, ErrRedemptionNotFound)
}

func TestRewardCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.rewards()

	assert.ErrorIs(t, svc.Create(ctx, &models.Reward{Name: " ", PointsCost: 3}), ErrInvalidReward)
	assert.ErrorIs(t, svc.Create(ctx, &models.Reward{Name: "Pen", PointsCost: 0}), ErrInvalidReward)
	require.NoError(t, svc.Create(ctx, &models.Reward{Name: "Pen", PointsCost: 3, Stock: -1, Active: true}))
	f.reward(t, 1, -1, false)

	active, err := svc.Catalog(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Pen", active[0].Name)

	all, err := svc.Catalog(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	red, err := svc.Pending(ctx, models.RedemptionPending, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, red)
}
