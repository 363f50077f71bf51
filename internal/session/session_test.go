package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/testutil/faketime"
	"github.com/ShopCraft/CatalogAdmin/internal/session"
)

// testTimeout is the common timeout for tests.
const testTimeout = 1 * time.Second

// testClock is a settable clock for tests.  It is safe for concurrent use.
type testClock struct {
	mu  *sync.Mutex
	now time.Time
}

// newTestClock returns a new *testClock set to start and a fake clock backed
// by it.
func newTestClock(start time.Time) (c *testClock, clock *faketime.Clock) {
	c = &testClock{
		mu:  &sync.Mutex{},
		now: start,
	}

	clock = &faketime.Clock{
		OnNow: func() (now time.Time) {
			c.mu.Lock()
			defer c.mu.Unlock()

			return c.now
		},
	}

	return c, clock
}

// set sets the current time of c.
func (c *testClock) set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = now
}

// newTestRegistry returns a new registry using clock and discarding the
// metrics and logs.
func newTestRegistry(tb testing.TB, clock *faketime.Clock) (r *session.Registry) {
	tb.Helper()

	return session.NewRegistry(&session.RegistryConfig{
		Logger:  slogutil.NewDiscardLogger(),
		Clock:   clock,
		Metrics: session.EmptyMetrics{},
	})
}

// msec returns the moment msec milliseconds after the Unix epoch.
func msec(msec int64) (t time.Time) {
	return time.UnixMilli(msec)
}
