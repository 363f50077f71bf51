package auth

import (
	"sync"
	"time"

	"github.com/AdguardTeam/golibs/timeutil"
)

// RateLimiter tracks failed login attempts.  All methods must be safe for
// concurrent use.
type RateLimiter interface {
	// Check returns the time left until the attempter with id is unblocked.
	// The nonpositive result means that it isn't blocked.
	Check(id string) (left time.Duration)

	// Inc registers a failed attempt of the attempter with id.
	Inc(id string)

	// Remove stops any tracking and blocking of the attempter with id.
	Remove(id string)
}

// EmptyRateLimiter is the [RateLimiter] that never blocks anyone.
type EmptyRateLimiter struct{}

// type check
var _ RateLimiter = EmptyRateLimiter{}

// Check implements the [RateLimiter] interface for EmptyRateLimiter.
func (EmptyRateLimiter) Check(_ string) (left time.Duration) { return 0 }

// Inc implements the [RateLimiter] interface for EmptyRateLimiter.
func (EmptyRateLimiter) Inc(_ string) {}

// Remove implements the [RateLimiter] interface for EmptyRateLimiter.
func (EmptyRateLimiter) Remove(_ string) {}

// failedAuthTTL is the period of time for which the failed attempt stays in
// the cache.
const failedAuthTTL = 1 * time.Minute

// failedAuth is an entry of the [DefaultRateLimiter] cache.
type failedAuth struct {
	until time.Time
	num   uint
}

// DefaultRateLimiterConfig is the configuration structure for
// [NewDefaultRateLimiter].
type DefaultRateLimiterConfig struct {
	// Clock is used to get the current time.  It must not be nil.
	Clock timeutil.Clock

	// BlockDuration is the duration for which an attempter is blocked after
	// MaxAttempts failures.
	BlockDuration time.Duration

	// MaxAttempts is the number of failed attempts after which an attempter
	// is blocked.  It must be positive.
	MaxAttempts uint
}

// DefaultRateLimiter is the in-memory [RateLimiter].
type DefaultRateLimiter struct {
	clock timeutil.Clock

	// mu protects failedAuths.
	mu *sync.Mutex

	failedAuths map[string]failedAuth
	blockDur    time.Duration
	maxAttempts uint
}

// NewDefaultRateLimiter returns a properly initialized *DefaultRateLimiter.
// c must not be nil.
func NewDefaultRateLimiter(c *DefaultRateLimiterConfig) (rl *DefaultRateLimiter) {
	return &DefaultRateLimiter{
		clock:       c.Clock,
		mu:          &sync.Mutex{},
		failedAuths: map[string]failedAuth{},
		blockDur:    c.BlockDuration,
		maxAttempts: c.MaxAttempts,
	}
}

// type check
var _ RateLimiter = (*DefaultRateLimiter)(nil)

// cleanupLocked removes the entries with expired TTL.  rl.mu is expected to be
// locked.
func (rl *DefaultRateLimiter) cleanupLocked(now time.Time) {
	for k, v := range rl.failedAuths {
		if now.After(v.until) {
			delete(rl.failedAuths, k)
		}
	}
}

// Check implements the [RateLimiter] interface for *DefaultRateLimiter.
func (rl *DefaultRateLimiter) Check(id string) (left time.Duration) {
	now := rl.clock.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanupLocked(now)

	a, ok := rl.failedAuths[id]
	if !ok || a.num < rl.maxAttempts {
		return 0
	}

	return a.until.Sub(now)
}

// Inc implements the [RateLimiter] interface for *DefaultRateLimiter.
func (rl *DefaultRateLimiter) Inc(id string) {
	now := rl.clock.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	until := now.Add(failedAuthTTL)
	var attNum uint = 1

	a, ok := rl.failedAuths[id]
	if ok {
		until = a.until
		attNum = a.num + 1
	}

	if attNum >= rl.maxAttempts {
		until = now.Add(rl.blockDur)
	}

	rl.failedAuths[id] = failedAuth{
		num:   attNum,
		until: until,
	}
}

// Remove implements the [RateLimiter] interface for *DefaultRateLimiter.
func (rl *DefaultRateLimiter) Remove(id string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.failedAuths, id)
}
