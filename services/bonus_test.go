package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantBonus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := at(0, 10, 0)
	svc := NewBonusService(f.store, WithClock(FixedClock(now)))

	b, err := svc.Grant(ctx, f.user.ID, f.admin.ID, 15, "  helped onboard a new hire ")
	require.NoError(t, err)
	assert.Equal(t, "helped onboard a new hire", b.Reason)
	assert.Equal(t, f.admin.ID, b.GrantedBy)

	_, err = svc.Grant(ctx, f.user.ID, f.admin.ID, -5, "late report")
	require.NoError(t, err)

	st, err := f.stats(now).UserStats(ctx, f.user.ID, Requester{UserID: f.user.ID})
	require.NoError(t, err)
	assert.Equal(t, 10, st.TotalPoints)
	assert.Equal(t, 10, st.WeeklyPoints)
	assert.Len(t, st.RecentBonusPoints, 2)
}

func TestGrantBonusValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewBonusService(f.store)

	_, err := svc.Grant(ctx, f.user.ID, f.admin.ID, 0, "nothing")
	assert.ErrorIs(t, err, ErrInvalidBonus)
	_, err = svc.Grant(ctx, f.user.ID, f.admin.ID, 3, "  ")
	assert.ErrorIs(t, err, ErrInvalidBonus)
	_, err = svc.Grant(ctx, 999, f.admin.ID, 3, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	bonuses, err := f.store.ListBonusPoints(ctx, f.user.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, bonuses)
}
