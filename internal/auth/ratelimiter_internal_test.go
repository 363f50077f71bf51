package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/AdguardTeam/golibs/testutil/faketime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRateLimiter returns a new *DefaultRateLimiter with the clock always
// returning now.
func newTestRateLimiter(now time.Time, maxAtt uint) (rl *DefaultRateLimiter) {
	return NewDefaultRateLimiter(&DefaultRateLimiterConfig{
		Clock: &faketime.Clock{
			OnNow: func() (n time.Time) { return now },
		},
		BlockDuration: 15 * time.Minute,
		MaxAttempts:   maxAtt,
	})
}

func TestDefaultRateLimiter_cleanupLocked(t *testing.T) {
	const key = "some-key"
	now := time.Now()

	testCases := []struct {
		name    string
		att     failedAuth
		wantExp bool
	}{{
		name: "expired",
		att: failedAuth{
			until: now.Add(-100 * time.Hour),
		},
		wantExp: true,
	}, {
		name: "not_yet",
		att: failedAuth{
			until: now.Add(failedAuthTTL / 2),
		},
		wantExp: false,
	}, {
		name: "blocked",
		att: failedAuth{
			until: now.Add(100 * time.Hour),
		},
		wantExp: false,
	}}

	for _, tc := range testCases {
		rl := &DefaultRateLimiter{
			mu: &sync.Mutex{},
			failedAuths: map[string]failedAuth{
				key: tc.att,
			},
		}

		t.Run(tc.name, func(t *testing.T) {
			rl.cleanupLocked(now)
			if tc.wantExp {
				assert.Empty(t, rl.failedAuths)

				return
			}

			require.Len(t, rl.failedAuths, 1)

			_, ok := rl.failedAuths[key]
			require.True(t, ok)
		})
	}
}

func TestDefaultRateLimiter_Check(t *testing.T) {
	const key = "192.0.2.1"
	const maxAtt = 1
	now := time.Now()

	testCases := []struct {
		until   time.Time
		name    string
		num     uint
		wantExp bool
	}{{
		until:   now.Add(-100 * time.Hour),
		name:    "expired",
		num:     0,
		wantExp: true,
	}, {
		until:   now.Add(failedAuthTTL),
		name:    "not_blocked_but_tracked",
		num:     0,
		wantExp: true,
	}, {
		until:   now,
		name:    "expired_but_stayed",
		num:     2,
		wantExp: true,
	}, {
		until:   now.Add(100 * time.Hour),
		name:    "blocked",
		num:     2,
		wantExp: false,
	}}

	for _, tc := range testCases {
		rl := newTestRateLimiter(now, maxAtt)
		rl.failedAuths[key] = failedAuth{
			num:   tc.num,
			until: tc.until,
		}

		t.Run(tc.name, func(t *testing.T) {
			if tc.wantExp {
				assert.LessOrEqual(t, rl.Check(key), time.Duration(0))
			} else {
				assert.Positive(t, rl.Check(key))
			}
		})
	}
}

func TestDefaultRateLimiter_Inc(t *testing.T) {
	const key = "192.0.2.1"
	const maxAtt = 2
	now := time.Now()

	rl := newTestRateLimiter(now, maxAtt)

	rl.Inc(key)
	require.Contains(t, rl.failedAuths, key)

	assert.Equal(t, failedAuth{
		until: now.Add(failedAuthTTL),
		num:   1,
	}, rl.failedAuths[key])
	assert.Zero(t, rl.Check(key))

	rl.Inc(key)

	assert.Equal(t, failedAuth{
		until: now.Add(rl.blockDur),
		num:   2,
	}, rl.failedAuths[key])
	assert.Equal(t, rl.blockDur, rl.Check(key))

	rl.Remove(key)

	assert.Empty(t, rl.failedAuths)
	assert.Zero(t, rl.Check(key))
}
