// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"product-catalog-service/internal/app/service"
	"product-catalog-service/pkg/locker"
)

// ReindexScheduler periodically rebuilds the search index from the
// product store, with distributed locking so only one instance runs a
// rebuild at a time.
type ReindexScheduler struct {
	products *service.ProductService
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	locker   locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ReindexConfig holds reindex scheduler configuration.
type ReindexConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// NewReindexScheduler creates a ReindexScheduler with distributed
// locking support.
func NewReindexScheduler(
	products *service.ProductService,
	cfg ReindexConfig,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *ReindexScheduler {
	return &ReindexScheduler{
		products: products,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   logger,
		locker:   locker,
	}
}

// Start begins the background reindex job.
func (s *ReindexScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting reindex scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop gracefully stops the scheduler.
func (s *ReindexScheduler) Stop() {
	s.logger.Info("stopping reindex scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("reindex scheduler stopped")
}

func (s *ReindexScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	if runOnStartup {
		s.executeReindex()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeReindex()
		}
	}
}

// executeReindex rebuilds the index under a distributed lock.
//
// Locking behavior:
//   - Lock TTL = interval duration (cooldown model, not timeout)
//   - Success: lock held for the full interval to prevent duplicate runs
//   - Failure: lock released immediately so another instance can retry
func (s *ReindexScheduler) executeReindex() {
	const lockKey = "reindex:scheduler:lock"

	acquired, err := s.locker.Acquire(s.ctx, lockKey, s.interval)
	if err != nil {
		s.logger.Error("failed to acquire distributed lock", zap.Error(err))

		return
	}
	if !acquired {
		s.logger.Debug("another instance is reindexing, skipping execution")

		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	count, err := s.products.ReindexAll(ctx)
	if err != nil {
		if relErr := s.locker.Release(s.ctx, lockKey); relErr != nil {
			s.logger.Error("failed to release lock after reindex error", zap.Error(relErr))
		}
		s.logger.Warn("reindex failed, lock released for retry", zap.Error(err))

		return
	}

	// Lock expires naturally after the interval (cooldown period)
	s.logger.Info("reindex completed, lock held for cooldown",
		zap.Int("indexed", count),
		zap.Duration("cooldown", s.interval),
	)
}
