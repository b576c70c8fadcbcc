package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// QRCodeCleaner deletes codes that expired before the given instant.
type QRCodeCleaner interface {
	Cleanup(ctx context.Context, before time.Time) (int64, error)
}

// QRCodePurge periodically removes QR codes that expired more than Retention ago.
type QRCodePurge struct {
	Cleaner   QRCodeCleaner
	Retention time.Duration
	Interval  time.Duration
	Timeout   time.Duration
	Logger    *zap.Logger
	Now       func() time.Time
}

// Start runs the purge in a goroutine until ctx is done. A non-positive
// Retention disables it.
func (p QRCodePurge) Start(ctx context.Context) {
	if p.Retention <= 0 || p.Cleaner == nil {
		return
	}
	interval := p.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce performs a single purge and returns the number of deleted codes.
func (p QRCodePurge) RunOnce(ctx context.Context) int64 {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cutoff := now().Add(-p.Retention)
	tickCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	n, err := p.Cleaner.Cleanup(tickCtx, cutoff)
	if err != nil {
		logger.Warn("qr code purge failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		logger.Info("qr code purge", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
	}
	return n
}
