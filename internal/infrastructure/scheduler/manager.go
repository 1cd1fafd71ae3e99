// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/bajabeat/descargas/internal/shared/biztime"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager manages all scheduled jobs using gocron v2.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterOrderJobs registers the pending-order sweep:
// - Expire pending orders whose cash voucher lapsed unpaid
func (m *SchedulerManager) RegisterOrderJobs(expireOrdersJob BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			m.processExpiredOrders(ctx, expireOrdersJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("order", "expire"),
		gocron.WithName("order-expire"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered order jobs", "interval", "10m")
	return nil
}

func (m *SchedulerManager) processExpiredOrders(ctx context.Context, expireOrdersJob BatchJob) {
	startTime := biztime.NowUTC()

	expiredCount, err := expireOrdersJob.Execute(ctx)
	if err != nil {
		m.logger.Errorw("failed to process expired orders",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if expiredCount > 0 {
		m.logger.Infow("expired orders processed",
			"count", expiredCount,
			"duration", time.Since(startTime),
		)
	}
}

// RegisterSubscriptionJobs registers subscription maintenance jobs:
// - Cut off quota for subscriptions whose paid period lapsed without renewal
func (m *SchedulerManager) RegisterSubscriptionJobs(expireSubscriptionsJob BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.processExpiredSubscriptions(ctx, expireSubscriptionsJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("subscription", "expire"),
		gocron.WithName("subscription-expire"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered subscription jobs", "interval", "1h")
	return nil
}

func (m *SchedulerManager) processExpiredSubscriptions(ctx context.Context, expireSubscriptionsJob BatchJob) {
	startTime := biztime.NowUTC()

	cutCount, err := expireSubscriptionsJob.Execute(ctx)
	if err != nil {
		m.logger.Errorw("failed to process lapsed subscriptions",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if cutCount > 0 {
		m.logger.Infow("lapsed subscriptions processed",
			"count", cutCount,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("no lapsed subscriptions to process",
			"duration", time.Since(startTime),
		)
	}
}

// Start begins executing registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}
