package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/store"
	"github.com/cppla/earlybird/store/storetest"
)

var phoenix = time.FixedZone("UTC-07:00", -7*3600)

// at returns a wall-clock instant on 2024-03-11 in UTC-7 shifted by dayOffset days.
func at(dayOffset, hour, minute int) time.Time {
	return time.Date(2024, time.March, 11+dayOffset, hour, minute, 0, 0, phoenix)
}

type fixture struct {
	store   *store.Gorm
	company *models.Company
	user    *models.User
	admin   *models.User
	code    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := storetest.Open(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureBadges(ctx, models.DefaultBadges()))

	company := storetest.Company(t, s, "Acme", "-07:00")
	f := &fixture{
		store:   s,
		company: company,
		user:    storetest.User(t, s, "alice", company.ID, models.RoleEmployee, models.UserApproved),
		admin:   storetest.User(t, s, "root", company.ID, models.RoleAdmin, models.UserApproved),
	}
	f.code = f.qrCode(t, company.ID, at(-60, 0, 0), at(60, 23, 59))
	return f
}

func (f *fixture) qrCode(t *testing.T, companyID uint, from, until time.Time) string {
	t.Helper()
	q := &models.QRCode{Code: "qr-" + from.Format(time.RFC3339Nano) + "-" + until.Format(time.RFC3339Nano), CompanyID: companyID, ValidFrom: from.UTC(), ValidUntil: until.UTC()}
	require.NoError(t, f.store.CreateQRCode(context.Background(), q))
	return q.Code
}

func (f *fixture) checkIns(now time.Time) *CheckInService {
	return NewCheckInService(f.store, DefaultRules(), WithClock(FixedClock(now)), WithRandom(func(int) int { return 0 }))
}

// seedCheckIn stores a check-in directly, bypassing the window and QR checks.
func (f *fixture) seedCheckIn(t *testing.T, userID uint, when time.Time, points int) {
	t.Helper()
	c := &models.CheckIn{
		UserID:       userID,
		CheckInDate:  when.In(phoenix).Format(time.DateOnly),
		CheckedInAt:  when,
		Type:         models.CheckInEarly,
		PointsEarned: points,
		QRCode:       f.code,
	}
	require.NoError(t, f.store.CreateCheckIn(context.Background(), c))
}

// seedRun stores one check-in per day for the days days before now.
func (f *fixture) seedRun(t *testing.T, userID uint, now time.Time, days int) {
	t.Helper()
	for i := 1; i <= days; i++ {
		f.seedCheckIn(t, userID, now.AddDate(0, 0, -i), 2)
	}
}
