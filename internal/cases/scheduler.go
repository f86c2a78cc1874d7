package cases

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultInterval = 5 * time.Second

// Scheduler deletes expired cases. It has two states, idle and running;
// running means one pending scan. After every scan the scheduler goes idle
// again and waits for the next timed case creation or edit to restart it,
// so it never holds a timer with nothing to expire.
type Scheduler struct {
	engine   *Engine
	repo     Repository
	logger   *zap.Logger
	interval time.Duration
	clock    Clock

	// tickMu serializes scan bodies so ticks never overlap.
	tickMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	running bool
	gen     uint64
}

func NewScheduler(engine *Engine, repo Repository, logger *zap.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		engine:   engine,
		repo:     repo,
		logger:   logger,
		interval: interval,
		clock:    realClock{},
	}
}

func (s *Scheduler) WithClock(clock Clock) {
	s.clock = clock
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start arms the scan timer if the scheduler is idle.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.armLocked()
}

// armLocked arms a fresh timer under a new generation. A scan only winds
// the scheduler down if no newer generation was armed while it ran.
func (s *Scheduler) armLocked() {
	s.gen++
	gen := s.gen
	s.running = true
	s.timer = time.AfterFunc(s.interval, func() {
		s.scan(context.Background(), gen)
	})
}

// Stop cancels a pending scan. A scan already in flight finishes.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.running = false
}

// Restart is stop-then-start. It is idempotent and safe to call whether or
// not the scheduler is running; callers fire it after every timed create
// or edit, including from inside a running scan.
func (s *Scheduler) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.armLocked()
}

// Tick runs one expiry scan: every case whose expiry has passed is deleted
// through the lifecycle engine, with per-case failures logged and skipped.
// The scheduler goes idle at the end of the scan unless a Restart armed a
// newer timer while the scan was in flight; that timer survives.
func (s *Scheduler) Tick(ctx context.Context) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	s.scan(ctx, gen)
}

func (s *Scheduler) scan(ctx context.Context, gen uint64) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	defer s.stopGeneration(gen)

	now := s.clock.Now()
	expired, err := s.repo.FindExpired(ctx, now)
	if err != nil {
		s.logger.Error("expiry scan failed", zap.Error(err))
		return
	}

	for _, c := range expired {
		if err := s.engine.Delete(ctx, c); err != nil {
			s.logger.Warn("expired case removal failed",
				zap.Int64("case_id", c.ID),
				zap.String("guild_id", c.GuildID),
				zap.String("kind", c.Kind.String()),
				zap.Error(err))
		}
	}
}

// stopGeneration winds the scheduler down only if the finished scan's
// generation is still current. A mid-scan Restart bumps the generation, and
// the timer it armed is not the finished scan's to cancel.
func (s *Scheduler) stopGeneration(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.stopLocked()
}
