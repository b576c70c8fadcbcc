package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/store"
	"github.com/cppla/earlybird/store/storetest"
)

var base = time.Date(2024, time.May, 6, 14, 0, 0, 0, time.UTC)

func TestNotFoundAndDuplicate(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()

	_, err := s.User(ctx, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)

	c := storetest.Company(t, s, "Acme", "-07:00")
	err = s.CreateCompany(ctx, &models.Company{Name: "Acme"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	storetest.User(t, s, "alice", c.ID, models.RoleEmployee, models.UserPending)
	err = s.CreateUser(ctx, &models.User{Username: "alice", CompanyID: c.ID})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestUserPreloadsCompanyAndDefaults(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	c := storetest.Company(t, s, "Acme", "+09:00")

	u := &models.User{Username: "bob", CompanyID: c.ID}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.Equal(t, models.RoleEmployee, u.Role)
	assert.Equal(t, models.UserPending, u.Status)

	got, err := s.UserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "+09:00", got.Company.Timezone)

	require.NoError(t, s.UpdateUserStatus(ctx, u.ID, models.UserApproved))
	got, err = s.User(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserApproved, got.Status)
	assert.ErrorIs(t, s.UpdateUserStatus(ctx, 999, models.UserApproved), store.ErrNotFound)

	pending, err := s.ListUsers(ctx, c.ID, models.UserPending, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
	all, err := s.ListUsers(ctx, 0, "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCheckInUniquePerDay(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	c := storetest.Company(t, s, "Acme", "")
	u := storetest.User(t, s, "alice", c.ID, models.RoleEmployee, models.UserApproved)

	first := &models.CheckIn{UserID: u.ID, CheckInDate: "2024-05-06", CheckedInAt: base, Type: models.CheckInEarly, PointsEarned: 2, QRCode: "x"}
	require.NoError(t, s.CreateCheckIn(ctx, first))
	again := &models.CheckIn{UserID: u.ID, CheckInDate: "2024-05-06", CheckedInAt: base.Add(time.Hour), Type: models.CheckInLate, QRCode: "x"}
	assert.ErrorIs(t, s.CreateCheckIn(ctx, again), store.ErrDuplicate)

	got, err := s.FirstCheckInBetween(ctx, u.ID, base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	_, err = s.FirstCheckInBetween(ctx, u.ID, base.Add(time.Minute), base.Add(time.Hour))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCheckInQueries(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	c := storetest.Company(t, s, "Acme", "")
	u := storetest.User(t, s, "alice", c.ID, models.RoleEmployee, models.UserApproved)

	types := []models.CheckInType{models.CheckInEarly, models.CheckInLate, models.CheckInEarly, models.CheckInOnTime}
	for i, typ := range types {
		when := base.AddDate(0, 0, -i)
		require.NoError(t, s.CreateCheckIn(ctx, &models.CheckIn{
			UserID: u.ID, CheckInDate: when.Format(time.DateOnly), CheckedInAt: when, Type: typ, PointsEarned: i, QRCode: "x",
		}))
	}

	recent, err := s.CheckInsSince(ctx, u.ID, base.AddDate(0, 0, -2), 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.True(t, recent[0].CheckedInAt.Equal(base))
	assert.True(t, recent[0].CheckedInAt.After(recent[1].CheckedInAt))

	limited, err := s.ListCheckIns(ctx, u.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	n, err := s.CountCheckIns(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	n, err = s.CountCheckIns(ctx, u.ID, models.CheckInEarly)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestValidQRCode(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	c := storetest.Company(t, s, "Acme", "")
	q := &models.QRCode{Code: "abc", CompanyID: c.ID, ValidFrom: base, ValidUntil: base.Add(time.Hour)}
	require.NoError(t, s.CreateQRCode(ctx, q))

	for _, at := range []time.Time{base, base.Add(30 * time.Minute), base.Add(time.Hour)} {
		_, err := s.ValidQRCode(ctx, "abc", c.ID, at)
		assert.NoError(t, err, at.String())
	}
	_, err := s.ValidQRCode(ctx, "abc", c.ID, base.Add(-time.Second))
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.ValidQRCode(ctx, "abc", c.ID, base.Add(time.Hour+time.Second))
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.ValidQRCode(ctx, "abc", c.ID+1, base)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// non-UTC instants compare by absolute time
	_, err = s.ValidQRCode(ctx, "abc", c.ID, base.In(time.FixedZone("UTC-07:00", -7*3600)))
	assert.NoError(t, err)

	n, err := s.DeleteQRCodesExpiredBefore(ctx, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPointBalanceAndStock(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	c := storetest.Company(t, s, "Acme", "")
	u := storetest.User(t, s, "alice", c.ID, models.RoleEmployee, models.UserApproved)

	balance, err := s.PointBalance(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, balance)

	require.NoError(t, s.CreateCheckIn(ctx, &models.CheckIn{UserID: u.ID, CheckInDate: "2024-05-06", CheckedInAt: base, Type: models.CheckInEarly, PointsEarned: 2, QRCode: "x"}))
	require.NoError(t, s.CreateBonusPoint(ctx, &models.BonusPoint{UserID: u.ID, Points: 20, Reason: "r", GrantedBy: u.ID}))

	r := &models.Reward{Name: "Mug", PointsCost: 5, Stock: 1, Active: true}
	require.NoError(t, s.CreateReward(ctx, r))
	require.NoError(t, s.CreateRedemption(ctx, &models.RewardRedemption{UserID: u.ID, RewardID: r.ID, PointsCost: 5}))
	require.NoError(t, s.CreateRedemption(ctx, &models.RewardRedemption{UserID: u.ID, RewardID: r.ID, PointsCost: 7, Status: models.RedemptionRejected}))

	balance, err = s.PointBalance(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 17, balance)

	require.NoError(t, s.AdjustRewardStock(ctx, r.ID, -1))
	assert.ErrorIs(t, s.AdjustRewardStock(ctx, r.ID, -1), store.ErrNotFound)
	require.NoError(t, s.AdjustRewardStock(ctx, r.ID, 1))

	unlimited := &models.Reward{Name: "Sticker", PointsCost: 1, Stock: -1, Active: true}
	require.NoError(t, s.CreateReward(ctx, unlimited))
	assert.ErrorIs(t, s.AdjustRewardStock(ctx, unlimited.ID, -1), store.ErrNotFound)

	reds, err := s.ListRedemptions(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, reds, 2)
	require.NotNil(t, reds[0].Reward)
	assert.Equal(t, "Mug", reds[0].Reward.Name)

	pending, err := s.ListRedemptionsByStatus(ctx, models.RedemptionPending, 10, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestTransactionRollsBack(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx store.Store) error {
		require.NoError(t, tx.CreateCompany(ctx, &models.Company{Name: "Temp"}))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	items, err := s.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBadges(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	c := storetest.Company(t, s, "Acme", "")
	u := storetest.User(t, s, "alice", c.ID, models.RoleEmployee, models.UserApproved)

	require.NoError(t, s.EnsureBadges(ctx, models.DefaultBadges()))
	require.NoError(t, s.EnsureBadges(ctx, models.DefaultBadges()))
	catalog, err := s.ListBadges(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, len(models.DefaultBadges()))

	require.NoError(t, s.CreateUserBadge(ctx, &models.UserBadge{UserID: u.ID, BadgeID: catalog[0].ID, EarnedAt: base}))
	assert.ErrorIs(t, s.CreateUserBadge(ctx, &models.UserBadge{UserID: u.ID, BadgeID: catalog[0].ID, EarnedAt: base}), store.ErrDuplicate)

	owned, err := s.ListUserBadges(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, catalog[0].Code, owned[0].Badge.Code)
}

func TestDepartments(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	c := storetest.Company(t, s, "Acme", "")

	require.NoError(t, s.CreateDepartment(ctx, &models.Department{CompanyID: c.ID, Name: "Ops"}))
	assert.ErrorIs(t, s.CreateDepartment(ctx, &models.Department{CompanyID: c.ID, Name: "Ops"}), store.ErrDuplicate)
	items, err := s.ListDepartments(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	got, err := s.Company(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
}
