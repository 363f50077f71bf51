package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/ShopCraft/CatalogAdmin/internal/adminuser"
)

// RegistryConfig is the configuration structure for [NewRegistry].
type RegistryConfig struct {
	// Logger is used for logging the operation of the registry.  It must not
	// be nil.
	Logger *slog.Logger

	// Clock is used to get the current time.  It must not be nil.
	Clock timeutil.Clock

	// Metrics is used to collect the statistics of the registry.  It must not
	// be nil.
	Metrics Metrics
}

// Registry is the in-memory storage of web user sessions.  Sessions past
// their expiration time are never returned, but are only removed from memory
// by [Registry.Sweep] or [Registry.Delete].  All methods are safe for
// concurrent use.
type Registry struct {
	logger  *slog.Logger
	clock   timeutil.Clock
	metrics Metrics

	// mu protects sessions.
	mu *sync.RWMutex

	// sessions maps a session token to a web user session.  The values must
	// not be nil and must not be modified after being stored.
	sessions map[Token]*Session
}

// NewRegistry returns a new properly initialized *Registry.  c must not be
// nil.
func NewRegistry(c *RegistryConfig) (r *Registry) {
	return &Registry{
		logger:   c.Logger,
		clock:    c.Clock,
		metrics:  c.Metrics,
		mu:       &sync.RWMutex{},
		sessions: map[Token]*Session{},
	}
}

// Create stores a new session for the web user with the given ID and login
// under t.  The session expires after ttl.  An existing session with the same
// token is replaced.
func (r *Registry) Create(
	ctx context.Context,
	t Token,
	id adminuser.UserID,
	login adminuser.Login,
	ttl time.Duration,
) {
	s := &Session{
		Expires:  r.clock.Now().Add(ttl),
		Username: login,
		UserID:   id,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[t] = s

	r.metrics.OnCreate(ctx)
	r.metrics.SetStored(ctx, len(r.sessions))

	r.logger.DebugContext(ctx, "created session", "user", login, "expires", s.Expires)
}

// Get returns a copy of the session stored under t.  ok is false if there is
// no such session or if it has expired, that is, if the current time is not
// before its expiration time.
func (r *Registry) Get(_ context.Context, t Token) (s *Session, ok bool) {
	now := r.clock.Now()

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.sessions[t]
	if !ok || stored.isExpired(now) {
		return nil, false
	}

	cp := *stored

	return &cp, true
}

// Delete removes the session stored under t, if any.
func (r *Registry) Delete(ctx context.Context, t Token) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[t]; !ok {
		return
	}

	delete(r.sessions, t)

	r.metrics.OnDelete(ctx)
	r.metrics.SetStored(ctx, len(r.sessions))

	r.logger.DebugContext(ctx, "deleted session")
}

// Sweep removes all sessions that expired strictly before now and returns the
// number of removed sessions.
func (r *Registry) Sweep(ctx context.Context, now time.Time) (removed int) {
	start := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	for t, s := range r.sessions {
		if s.Expires.Before(now) {
			delete(r.sessions, t)
			removed++
		}
	}

	r.metrics.OnSweep(ctx, removed, time.Since(start))
	r.metrics.SetStored(ctx, len(r.sessions))

	return removed
}

// Len returns the number of stored sessions, including the expired ones that
// haven't been swept yet.
func (r *Registry) Len() (n int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
