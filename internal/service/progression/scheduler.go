// internal/service/progression/scheduler.go
package progression

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const runLockKey = "progression:run_lock"

// Locker serializes runs across process instances. Nil means single
// instance and only the in-process guard applies.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Scheduler owns the single ticker that fires the progression runner.
// An atomic in-progress guard drops a firing that would overlap the
// previous one instead of double-advancing weeks.
type Scheduler struct {
	runner     *Runner
	locker     Locker
	interval   time.Duration
	runOnStart bool
	logger     *zap.Logger

	mu       sync.Mutex
	running  bool
	inFlight atomic.Bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewScheduler(runner *Runner, locker Locker, interval time.Duration, runOnStart bool, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		runner:     runner,
		locker:     locker,
		interval:   interval,
		runOnStart: runOnStart,
		logger:     logger,
	}
}

// Start launches the ticker loop. Safe to call once per Stop cycle.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.stopCh = make(chan struct{})
	s.running = true

	s.wg.Add(1)
	go s.loop()

	s.logger.Info("progression scheduler started",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_start", s.runOnStart),
	)
}

// Stop halts the ticker and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("progression scheduler stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if s.runOnStart {
		s.fire()
	}

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.fire()
		}
	}
}

// fire executes one guarded run. A firing that arrives while the prior
// run is still in flight is skipped, and when a Locker is configured a
// firing also yields to whichever instance holds the distributed lock.
func (s *Scheduler) fire() {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Warn("progression run still in flight, skipping firing")
		return
	}
	defer s.inFlight.Store(false)

	ctx := context.Background()

	if s.locker != nil {
		ttl := s.interval - time.Minute
		if ttl <= 0 {
			ttl = s.interval
		}
		ok, err := s.locker.Acquire(ctx, runLockKey, ttl)
		if err != nil {
			s.logger.Error("failed to acquire progression run lock", zap.Error(err))
			return
		}
		if !ok {
			s.logger.Info("progression run lock held elsewhere, skipping firing")
			return
		}
		defer func() {
			if err := s.locker.Release(ctx, runLockKey); err != nil {
				s.logger.Warn("failed to release progression run lock", zap.Error(err))
			}
		}()
	}

	s.runner.Run(ctx)
}
