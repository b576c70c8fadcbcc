package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/store"
)

// QRCodeService issues and purges check-in QR codes.
type QRCodeService struct {
	store  store.Store
	rules  Rules
	clock  Clock
	logger *zap.Logger
}

// NewQRCodeService creates a QR code service.
func NewQRCodeService(s store.Store, rules Rules, opts ...Option) *QRCodeService {
	o := buildOptions(opts)
	return &QRCodeService{store: s, rules: rules, clock: o.clock, logger: o.logger}
}

// Generate issues a random code for companyID. A zero from or until defaults to
// the bound of today's check-in window in the company timezone.
func (s *QRCodeService) Generate(ctx context.Context, companyID, creator uint, from, until time.Time) (*models.QRCode, error) {
	company, err := s.store.Company(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, s.fail("load company", err)
	}

	winFrom, winUntil := s.rules.Window(s.clock.Now(), s.rules.Location(company.Timezone))
	if from.IsZero() {
		from = winFrom
	}
	if until.IsZero() {
		until = winUntil
	}
	if !until.After(from) {
		return nil, ErrInvalidQRWindow
	}

	q := &models.QRCode{
		Code:       uuid.NewString(),
		CompanyID:  company.ID,
		ValidFrom:  from.UTC(),
		ValidUntil: until.UTC(),
		CreatedBy:  creator,
	}
	if err := s.store.CreateQRCode(ctx, q); err != nil {
		return nil, s.fail("create qr code", err)
	}
	s.logger.Info("qr code generated",
		zap.Uint("company_id", company.ID),
		zap.Uint("created_by", creator),
		zap.Time("valid_from", q.ValidFrom),
		zap.Time("valid_until", q.ValidUntil),
	)
	return q, nil
}

// List returns a company's codes, latest window first.
func (s *QRCodeService) List(ctx context.Context, companyID uint, limit, offset int) ([]models.QRCode, error) {
	items, err := s.store.ListQRCodes(ctx, companyID, limit, offset)
	if err != nil {
		return nil, s.fail("list qr codes", err)
	}
	return nonNil(items), nil
}

// Cleanup deletes codes whose window ended before the cutoff.
func (s *QRCodeService) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	n, err := s.store.DeleteQRCodesExpiredBefore(ctx, before)
	if err != nil {
		return 0, s.fail("delete expired qr codes", err)
	}
	return n, nil
}

func (s *QRCodeService) fail(op string, err error) *AppError {
	s.logger.Error("qr code operation failed", zap.String("op", op), zap.Error(err))
	return processingFailed(err)
}
