package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/service"
	"github.com/AdguardTeam/golibs/timeutil"
)

// DefaultSweepInterval is the default period between two sweeps.
const DefaultSweepInterval = 1 * time.Hour

// Sweepable is the entity from which expired sessions can be removed.
// [*Registry] implements it.
type Sweepable interface {
	// Sweep removes all sessions expired before now and returns the number
	// of removed ones.
	Sweep(ctx context.Context, now time.Time) (removed int)
}

// type check
var _ Sweepable = (*Registry)(nil)

// SweeperConfig is the configuration structure for [NewSweeper].
type SweeperConfig struct {
	// Logger is used for logging the operation of the sweeper.  It must not be
	// nil.
	Logger *slog.Logger

	// Clock is used to get the moment sessions are compared against.  It must
	// not be nil.
	Clock timeutil.Clock

	// Sessions are swept periodically.  It must not be nil.
	Sessions Sweepable

	// Interval is the period between sweeps.  It must be positive.
	Interval time.Duration
}

// Sweeper is the service that periodically removes expired sessions.
type Sweeper struct {
	logger   *slog.Logger
	clock    timeutil.Clock
	sessions Sweepable

	// mu protects done and stopped.
	mu *sync.Mutex

	// done is closed to stop the sweeping goroutine.  It is nil if the
	// sweeper isn't running.
	done chan struct{}

	// stopped is closed by the sweeping goroutine when it exits.
	stopped chan struct{}

	interval time.Duration
}

// NewSweeper returns a new properly initialized *Sweeper.  c must not be nil.
func NewSweeper(c *SweeperConfig) (s *Sweeper, err error) {
	if c.Interval <= 0 {
		return nil, fmt.Errorf("sweep interval: %w", errors.ErrNotPositive)
	}

	return &Sweeper{
		logger:   c.Logger,
		clock:    c.Clock,
		sessions: c.Sessions,
		mu:       &sync.Mutex{},
		interval: c.Interval,
	}, nil
}

// type check
var _ service.Interface = (*Sweeper)(nil)

// Start implements the [service.Interface] interface for *Sweeper.  It returns
// an error if s is already running.
func (s *Sweeper) Start(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return errors.Error("sweeper is already running")
	}

	s.done = make(chan struct{})
	s.stopped = make(chan struct{})

	// The sweeping goroutine must outlive the start context, which is
	// usually a short timeout one.
	go s.sweepLoop(context.WithoutCancel(ctx), s.done, s.stopped)

	s.logger.InfoContext(ctx, "started", "interval", s.interval)

	return nil
}

// Shutdown implements the [service.Interface] interface for *Sweeper.  It
// waits for the sweeping goroutine to exit or for ctx to be canceled.
// Shutting down a stopped sweeper does nothing.
func (s *Sweeper) Shutdown(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done == nil {
		return nil
	}

	close(s.done)
	s.done = nil

	select {
	case <-s.stopped:
		s.logger.InfoContext(ctx, "stopped")

		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for sweeper to stop: %w", ctx.Err())
	}
}

// type check
var _ service.Refresher = (*Sweeper)(nil)

// Refresh implements the [service.Refresher] interface for *Sweeper.  It
// performs a sweep immediately.
func (s *Sweeper) Refresh(ctx context.Context) (err error) {
	s.sweep(ctx)

	return nil
}

// sweepLoop sweeps sessions every interval until done is closed.  It is
// intended to be used as a goroutine.
func (s *Sweeper) sweepLoop(ctx context.Context, done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	defer slogutil.RecoverAndLog(ctx, s.logger)

	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			s.sweep(ctx)
		case <-done:
			return
		}
	}
}

// sweep removes the expired sessions and logs the result.
func (s *Sweeper) sweep(ctx context.Context) {
	removed := s.sessions.Sweep(ctx, s.clock.Now())
	s.logger.DebugContext(ctx, "swept sessions", "removed", removed)
}
