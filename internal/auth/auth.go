// Package auth contains the authentication of the web users of the catalog
// admin interface: login, logout, and the HTTP middleware that resolves
// session cookies.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/ShopCraft/CatalogAdmin/internal/adminuser"
	"github.com/ShopCraft/CatalogAdmin/internal/session"
)

// ErrInvalidLogin is returned by [Auth.Login] when there is no such user or
// the password doesn't match.
const ErrInvalidLogin errors.Error = "invalid username or password"

// BlockedError is returned by [Auth.Login] when the attempter is blocked by
// the rate limiter.
type BlockedError struct {
	// Left is the time left until the attempter is unblocked.  It is
	// positive.
	Left time.Duration
}

// type check
var _ error = (*BlockedError)(nil)

// Error implements the [error] interface for *BlockedError.
func (err *BlockedError) Error() (msg string) {
	return fmt.Sprintf("blocked for %s", err.Left)
}

// SessionStorage is the storage of web user sessions used by [Auth].
// [*session.Registry] is the production implementation.
type SessionStorage interface {
	// Create stores a new session under t that expires after ttl.
	Create(
		ctx context.Context,
		t session.Token,
		id adminuser.UserID,
		login adminuser.Login,
		ttl time.Duration,
	)

	// Get returns a copy of an unexpired session stored under t.
	Get(ctx context.Context, t session.Token) (s *session.Session, ok bool)

	// Delete removes the session stored under t, if any.
	Delete(ctx context.Context, t session.Token)
}

// type check
var _ SessionStorage = (*session.Registry)(nil)

// Config is the configuration structure for [New].
type Config struct {
	// Logger is used for logging the operation of the authentication.  It
	// must not be nil.
	Logger *slog.Logger

	// Sessions stores the web user sessions.  It must not be nil.
	Sessions SessionStorage

	// Users contains the web users.  It must not be nil.
	Users adminuser.DB

	// RateLimiter tracks failed login attempts.  It must not be nil.
	RateLimiter RateLimiter

	// Metrics is used to collect the login statistics.  It must not be nil.
	Metrics Metrics

	// SessionTTL is the time-to-live of new sessions.  It must be positive.
	SessionTTL time.Duration
}

// Auth authenticates web users.
type Auth struct {
	logger      *slog.Logger
	sessions    SessionStorage
	users       adminuser.DB
	rateLimiter RateLimiter
	metrics     Metrics
	sessionTTL  time.Duration
}

// New returns a new properly initialized *Auth.  c must not be nil.
func New(c *Config) (a *Auth) {
	return &Auth{
		logger:      c.Logger,
		sessions:    c.Sessions,
		users:       c.Users,
		rateLimiter: c.RateLimiter,
		metrics:     c.Metrics,
		sessionTTL:  c.SessionTTL,
	}
}

// Enabled returns true if there are any web users, so that authentication is
// required.
func (a *Auth) Enabled(ctx context.Context) (ok bool) {
	users, err := a.users.All(ctx)
	if err != nil {
		// Should not happen.
		panic(err)
	}

	return len(users) > 0
}

// Login checks the credentials of a web user connecting from remoteIP and
// creates a new session for them.  err is either [ErrInvalidLogin], a
// *[BlockedError], or an error from the token generation.
func (a *Auth) Login(
	ctx context.Context,
	login adminuser.Login,
	passwd string,
	remoteIP string,
) (t session.Token, s *session.Session, err error) {
	if left := a.rateLimiter.Check(remoteIP); left > 0 {
		a.metrics.OnLogin(ctx, LoginResultBlocked)

		return "", nil, &BlockedError{Left: left}
	}

	u, err := a.users.ByLogin(ctx, login)
	if err != nil {
		// Should not happen.
		panic(err)
	}

	if u == nil || !u.Password.Authenticate(ctx, passwd) {
		a.rateLimiter.Inc(remoteIP)
		a.metrics.OnLogin(ctx, LoginResultInvalid)

		return "", nil, ErrInvalidLogin
	}

	a.rateLimiter.Remove(remoteIP)

	t, err = NewToken()
	if err != nil {
		return "", nil, fmt.Errorf("creating session: %w", err)
	}

	a.sessions.Create(ctx, t, u.ID, u.Login, a.sessionTTL)

	s, ok := a.sessions.Get(ctx, t)
	if !ok {
		return "", nil, fmt.Errorf("session for %q expired immediately", login)
	}

	a.metrics.OnLogin(ctx, LoginResultSuccess)

	return t, s, nil
}

// Logout removes the session stored under t.  It does nothing if there is no
// such session.
func (a *Auth) Logout(ctx context.Context, t session.Token) {
	a.sessions.Delete(ctx, t)
}

// UserFromToken returns the web user and the session stored under t.  u and s
// are nil if there is no unexpired session or if the user of the session no
// longer exists, in which case the session is removed.
func (a *Auth) UserFromToken(
	ctx context.Context,
	t session.Token,
) (u *adminuser.User, s *session.Session) {
	s, ok := a.sessions.Get(ctx, t)
	if !ok {
		return nil, nil
	}

	u, err := a.users.ByID(ctx, s.UserID)
	if err != nil {
		// Should not happen.
		panic(err)
	}

	if u == nil || u.Login != s.Username {
		a.logger.DebugContext(
			ctx,
			"removing session of unknown user",
			"user", s.Username,
			"id", s.UserID,
		)

		a.sessions.Delete(ctx, t)

		return nil, nil
	}

	return u, s
}
