package session_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/testutil"
	"github.com/AdguardTeam/golibs/testutil/servicetest"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/ShopCraft/CatalogAdmin/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testInterval is the sweep interval used in tests.
const testInterval = 10 * time.Millisecond

// countingSweepable is a [session.Sweepable] that counts the sweeps.
type countingSweepable struct {
	sweeps atomic.Int64
}

// type check
var _ session.Sweepable = (*countingSweepable)(nil)

// Sweep implements the [session.Sweepable] interface for *countingSweepable.
func (s *countingSweepable) Sweep(_ context.Context, _ time.Time) (removed int) {
	s.sweeps.Add(1)

	return 0
}

func TestNewSweeper(t *testing.T) {
	for _, ivl := range []time.Duration{0, -time.Second} {
		_, err := session.NewSweeper(&session.SweeperConfig{
			Logger:   slogutil.NewDiscardLogger(),
			Clock:    timeutil.SystemClock{},
			Sessions: &countingSweepable{},
			Interval: ivl,
		})
		assert.ErrorIs(t, err, errors.ErrNotPositive)
	}
}

func TestSweeper(t *testing.T) {
	c, clock := newTestClock(msec(0))
	r := newTestRegistry(t, clock)
	ctx := testutil.ContextWithTimeout(t, testTimeout)

	r.Create(ctx, "expired", 1, "user", time.Minute)
	r.Create(ctx, "live", 2, "user", time.Hour)

	s, err := session.NewSweeper(&session.SweeperConfig{
		Logger:   slogutil.NewDiscardLogger(),
		Clock:    clock,
		Sessions: r,
		Interval: testInterval,
	})
	require.NoError(t, err)

	servicetest.RequireRun(t, s, testTimeout)

	c.set(msec(0).Add(2 * time.Minute))

	require.Eventually(t, func() (ok bool) {
		return r.Len() == 1
	}, testTimeout, testInterval)

	_, ok := r.Get(ctx, "live")
	assert.True(t, ok)
}

func TestSweeper_lifecycle(t *testing.T) {
	sw := &countingSweepable{}
	s, err := session.NewSweeper(&session.SweeperConfig{
		Logger:   slogutil.NewDiscardLogger(),
		Clock:    timeutil.SystemClock{},
		Sessions: sw,
		Interval: testInterval,
	})
	require.NoError(t, err)

	ctx := testutil.ContextWithTimeout(t, testTimeout)

	t.Run("shutdown_not_started", func(t *testing.T) {
		assert.NoError(t, s.Shutdown(ctx))
	})

	t.Run("start_twice", func(t *testing.T) {
		require.NoError(t, s.Start(ctx))
		assert.Error(t, s.Start(ctx))

		require.Eventually(t, func() (ok bool) {
			return sw.sweeps.Load() > 0
		}, testTimeout, testInterval)

		require.NoError(t, s.Shutdown(ctx))
	})

	t.Run("stopped", func(t *testing.T) {
		before := sw.sweeps.Load()
		time.Sleep(5 * testInterval)

		assert.Equal(t, before, sw.sweeps.Load())
	})

	t.Run("refresh", func(t *testing.T) {
		before := sw.sweeps.Load()
		require.NoError(t, s.Refresh(ctx))

		assert.Equal(t, before+1, sw.sweeps.Load())
	})

	t.Run("restart", func(t *testing.T) {
		before := sw.sweeps.Load()
		servicetest.RequireRun(t, s, testTimeout)

		require.Eventually(t, func() (ok bool) {
			return sw.sweeps.Load() > before
		}, testTimeout, testInterval)
	})
}
