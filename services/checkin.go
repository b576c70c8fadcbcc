package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/store"
)

// CheckInService validates and records daily check-ins.
type CheckInService struct {
	store  store.Store
	rules  Rules
	clock  Clock
	intn   func(int) int
	logger *zap.Logger
}

// Option customizes a service at construction.
type Option func(*options)

type options struct {
	clock  Clock
	intn   func(int) int
	logger *zap.Logger
}

// WithClock injects the time source.
func WithClock(c Clock) Option { return func(o *options) { o.clock = c } }

// WithRandom injects the random source used to pick quotes.
func WithRandom(intn func(int) int) Option { return func(o *options) { o.intn = intn } }

// WithLogger injects the logger.
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.logger = l } }

func buildOptions(opts []Option) options {
	o := options{clock: SystemClock, intn: rand.Intn, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewCheckInService creates a check-in processor.
func NewCheckInService(s store.Store, rules Rules, opts ...Option) *CheckInService {
	o := buildOptions(opts)
	return &CheckInService{store: s, rules: rules, clock: o.clock, intn: o.intn, logger: o.logger}
}

// CheckInRequest is a scan submitted by an authenticated, approved user.
type CheckInRequest struct {
	UserID   uint
	QRCode   string
	Location string
}

// CheckInResult is returned on a successful check-in.
type CheckInResult struct {
	CheckIn       models.CheckIn     `json:"check_in"`
	Type          models.CheckInType `json:"type"`
	BasePoints    int                `json:"base_points"`
	BonusPoints   int                `json:"bonus_points"`
	PointsEarned  int                `json:"points_earned"`
	CurrentStreak int                `json:"current_streak"`
	Quote         string             `json:"quote,omitempty"`
	NewBadges     []models.Badge     `json:"new_badges,omitempty"`
}

// Process checks req against the window, the one-per-day rule and the QR code
// validity, in that order, then records the check-in and any streak bonus and
// badges in a single transaction. Every failure is an *AppError.
func (s *CheckInService) Process(ctx context.Context, req CheckInRequest) (*CheckInResult, error) {
	code := strings.TrimSpace(req.QRCode)
	if code == "" {
		return nil, ErrInvalidRequest
	}

	user, err := s.store.User(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.fail(req.UserID, "load user", err)
	}

	now := s.clock.Now()
	loc := s.rules.Location(user.Company.Timezone)
	local := now.In(loc)
	if !s.rules.InWindow(local) {
		return nil, ErrOutsideWindow
	}

	var result *CheckInResult
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		dayStart, dayEnd := dayBounds(now, loc)
		if _, err := tx.FirstCheckInBetween(ctx, user.ID, dayStart, dayEnd); err == nil {
			return ErrDuplicateCheckIn
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("find today's check-in: %w", err)
		}

		if _, err := tx.ValidQRCode(ctx, code, user.CompanyID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidToken
			}
			return fmt.Errorf("find qr code: %w", err)
		}

		typ, base := s.rules.Score(local)
		record := models.CheckIn{
			UserID:       user.ID,
			CheckInDate:  local.Format(time.DateOnly),
			CheckedInAt:  now,
			Type:         typ,
			PointsEarned: base,
			QRCode:       code,
			Location:     strings.TrimSpace(req.Location),
		}
		if err := tx.CreateCheckIn(ctx, &record); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrDuplicateCheckIn
			}
			return fmt.Errorf("create check-in: %w", err)
		}

		streak, bonus, err := s.awardStreakBonus(ctx, tx, user.ID, now, loc)
		if err != nil {
			return err
		}

		badges, err := s.awardBadges(ctx, tx, user.ID, streak, now)
		if err != nil {
			return err
		}

		result = &CheckInResult{
			CheckIn:       record,
			Type:          typ,
			BasePoints:    base,
			BonusPoints:   bonus,
			PointsEarned:  base + bonus,
			CurrentStreak: streak,
			NewBadges:     badges,
		}
		return nil
	})
	if err != nil {
		var appErr *AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, s.fail(user.ID, "record check-in", err)
	}

	result.Quote = PickQuote(result.Type, s.intn)
	s.logger.Info("check-in recorded",
		zap.Uint("user_id", user.ID),
		zap.String("type", string(result.Type)),
		zap.Int("points", result.PointsEarned),
		zap.Int("streak", result.CurrentStreak),
	)
	return result, nil
}

// awardStreakBonus walks the recent history seeded by the check-in just created
// and grants the milestone bonus when the run lands exactly on one.
func (s *CheckInService) awardStreakBonus(ctx context.Context, tx store.Store, userID uint, now time.Time, loc *time.Location) (int, int, error) {
	since := now.AddDate(0, 0, -s.rules.StreakLookbackDays)
	recent, err := tx.CheckInsSince(ctx, userID, since, s.rules.StreakLookbackLimit)
	if err != nil {
		return 0, 0, fmt.Errorf("load recent check-ins: %w", err)
	}

	streak := RunLength(recent, loc)
	milestone, ok := s.rules.MilestoneBonus(streak)
	if !ok {
		return streak, 0, nil
	}

	grant := models.BonusPoint{
		UserID:    userID,
		Points:    milestone.Points,
		Reason:    fmt.Sprintf("%d-day streak bonus", milestone.Days),
		GrantedBy: userID,
		CreatedAt: now,
	}
	if err := tx.CreateBonusPoint(ctx, &grant); err != nil {
		return 0, 0, fmt.Errorf("create streak bonus: %w", err)
	}
	return streak, milestone.Points, nil
}

func (s *CheckInService) awardBadges(ctx context.Context, tx store.Store, userID uint, streak int, now time.Time) ([]models.Badge, error) {
	catalog, err := tx.ListBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf("load badges: %w", err)
	}
	if len(catalog) == 0 {
		return nil, nil
	}

	owned, err := tx.ListUserBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user badges: %w", err)
	}
	earned := make(map[uint]bool, len(owned))
	for _, ub := range owned {
		earned[ub.BadgeID] = true
	}

	total, err := tx.CountCheckIns(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count check-ins: %w", err)
	}
	early, err := tx.CountCheckIns(ctx, userID, models.CheckInEarly)
	if err != nil {
		return nil, fmt.Errorf("count early check-ins: %w", err)
	}

	eligible := EligibleBadges(catalog, earned, BadgeProgress{
		CheckIns:      int(total),
		EarlyCheckIns: int(early),
		Streak:        streak,
	})
	for _, b := range eligible {
		if err := tx.CreateUserBadge(ctx, &models.UserBadge{UserID: userID, BadgeID: b.ID, EarnedAt: now}); err != nil {
			return nil, fmt.Errorf("award badge %s: %w", b.Code, err)
		}
	}
	return eligible, nil
}

func (s *CheckInService) fail(userID uint, op string, err error) *AppError {
	s.logger.Error("check-in failed", zap.Uint("user_id", userID), zap.String("op", op), zap.Error(err))
	return processingFailed(err)
}

// Today returns the user's check-in for the current civil day, or nil.
func (s *CheckInService) Today(ctx context.Context, userID uint) (*models.CheckIn, error) {
	user, err := s.store.User(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.fail(userID, "load user", err)
	}
	start, end := dayBounds(s.clock.Now(), s.rules.Location(user.Company.Timezone))
	c, err := s.store.FirstCheckInBetween(ctx, userID, start, end)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, s.fail(userID, "load today's check-in", err)
	}
	return c, nil
}
