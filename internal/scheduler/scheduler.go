package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"CryptoPulse/internal/format"
	"CryptoPulse/internal/market"
)

// Scheduler keeps the market cache warm so dashboard requests hit fresh
// entries instead of paying for live fetches inline.
type Scheduler struct {
	cron   *cron.Cron
	svc    *market.Service
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler bound to the given market service.
func NewScheduler(svc *market.Service, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		svc:    svc,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds the refresh job under a six-field cron expression.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.cron.AddFunc(refreshCron, s.refresh); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and cancels any refresh in flight.
func (s *Scheduler) Stop() {
	s.cancel()
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

// RunNow executes a refresh immediately (for manual trigger / warm start).
func (s *Scheduler) RunNow() {
	s.refresh()
}

func (s *Scheduler) refresh() {
	start := time.Now()
	s.log.Info("refreshing market snapshot")

	snap := s.svc.Snapshot(s.ctx)
	stats := s.svc.CacheInfo()

	s.log.Info("refresh complete",
		zap.Duration("took", time.Since(start)),
		zap.String("prices", string(snap.Prices.Provenance)),
		zap.String("quotes", string(snap.Quotes.Provenance)),
		zap.String("funding", string(snap.Funding.Provenance)),
		zap.String("dxy", string(snap.DXY.Provenance)),
		zap.Int("cache_fresh", stats.Fresh),
		zap.Int("cache_stale", stats.Stale))

	s.log.Debug("snapshot summary", zap.String("text", format.SnapshotText(snap)))
}
