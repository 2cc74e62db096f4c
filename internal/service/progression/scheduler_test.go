package progression

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"padel-academy-service/internal/domain/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// slowScanner stalls the first pass so runs stay in flight long enough
// for the ticker to fire again underneath them.
type slowScanner struct {
	delay      time.Duration
	inFlight   atomic.Int32
	maxSeen    atomic.Int32
	totalScans atomic.Int32
}

func (s *slowScanner) enter() {
	cur := s.inFlight.Add(1)
	for {
		seen := s.maxSeen.Load()
		if cur <= seen || s.maxSeen.CompareAndSwap(seen, cur) {
			break
		}
	}
	time.Sleep(s.delay)
	s.inFlight.Add(-1)
	s.totalScans.Add(1)
}

func (s *slowScanner) FindApprovedWithAllowance(ctx context.Context) ([]order.Order, error) {
	s.enter()
	return []order.Order{}, nil
}

func (s *slowScanner) FindApprovedWithProgress(ctx context.Context) ([]order.Order, error) {
	return []order.Order{}, nil
}

func (s *slowScanner) FindCompleted(ctx context.Context) ([]order.Order, error) {
	return []order.Order{}, nil
}

type noopLifecycle struct{}

func (noopLifecycle) CompleteIfExpiredAllowance(ctx context.Context, o *order.Order, now time.Time) error {
	return nil
}

func (noopLifecycle) AdvanceWeekIfDue(ctx context.Context, o *order.Order, now time.Time) error {
	return nil
}

func (noopLifecycle) ExpireIfPastRetention(ctx context.Context, o *order.Order, now time.Time) error {
	return nil
}

type fakeLocker struct {
	denied   bool
	acquires atomic.Int32
	releases atomic.Int32
}

func (f *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.acquires.Add(1)
	return !f.denied, nil
}

func (f *fakeLocker) Release(ctx context.Context, key string) error {
	f.releases.Add(1)
	return nil
}

func TestSchedulerNeverOverlapsRuns(t *testing.T) {
	scanner := &slowScanner{delay: 30 * time.Millisecond}
	runner := NewRunner(scanner, noopLifecycle{}, 0, zap.NewNop())

	s := NewScheduler(runner, nil, 5*time.Millisecond, true, zap.NewNop())
	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.Stop()

	require.Positive(t, scanner.totalScans.Load())
	assert.Equal(t, int32(1), scanner.maxSeen.Load())
}

func TestSchedulerRunOnStart(t *testing.T) {
	scanner := &slowScanner{}
	runner := NewRunner(scanner, noopLifecycle{}, 0, zap.NewNop())

	s := NewScheduler(runner, nil, time.Hour, true, zap.NewNop())
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), scanner.totalScans.Load())
}

func TestSchedulerWaitsForInterval(t *testing.T) {
	scanner := &slowScanner{}
	runner := NewRunner(scanner, noopLifecycle{}, 0, zap.NewNop())

	s := NewScheduler(runner, nil, time.Hour, false, zap.NewNop())
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	assert.Zero(t, scanner.totalScans.Load())
}

func TestSchedulerYieldsWhenLockHeldElsewhere(t *testing.T) {
	scanner := &slowScanner{}
	runner := NewRunner(scanner, noopLifecycle{}, 0, zap.NewNop())
	locker := &fakeLocker{denied: true}

	s := NewScheduler(runner, locker, time.Hour, true, zap.NewNop())
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	assert.Positive(t, locker.acquires.Load())
	assert.Zero(t, scanner.totalScans.Load())
	assert.Zero(t, locker.releases.Load())
}

func TestSchedulerReleasesLockAfterRun(t *testing.T) {
	scanner := &slowScanner{}
	runner := NewRunner(scanner, noopLifecycle{}, 0, zap.NewNop())
	locker := &fakeLocker{}

	s := NewScheduler(runner, locker, time.Hour, true, zap.NewNop())
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), scanner.totalScans.Load())
	assert.Equal(t, locker.acquires.Load(), locker.releases.Load())
}

func TestSchedulerStartStopIdempotent(t *testing.T) {
	scanner := &slowScanner{}
	runner := NewRunner(scanner, noopLifecycle{}, 0, zap.NewNop())

	s := NewScheduler(runner, nil, time.Hour, false, zap.NewNop())
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()

	// A fresh Start after Stop spins the loop back up.
	s.Start()
	s.Stop()
}
