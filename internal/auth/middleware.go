package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/AdguardTeam/golibs/container"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/netutil/httputil"
	"github.com/ShopCraft/CatalogAdmin/internal/adminuser"
	"github.com/ShopCraft/CatalogAdmin/internal/session"
)

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "catalog_session"

// NewCookie returns a session cookie carrying t that expires at the same time
// as the session.
func NewCookie(t session.Token, expires time.Time, secure bool) (c *http.Cookie) {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    string(t),
		Path:     "/",
		Expires:  expires,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewExpiredCookie returns a session cookie that makes the browser forget the
// session token.
func NewExpiredCookie(secure bool) (c *http.Cookie) {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// TokenFromRequest returns the session token from the cookie of r.  ok is
// false if there is no session cookie or its value isn't a valid token.
func TokenFromRequest(r *http.Request) (t session.Token, ok bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		// The only error that is returned from r.Cookie is [http.ErrNoCookie].
		return "", false
	}

	t, err = ParseToken(c.Value)

	return t, err == nil
}

// MiddlewareConfig is the configuration structure for [NewMiddleware].
type MiddlewareConfig struct {
	// Logger is used for logging the operation of the middleware.  It must not
	// be nil.
	Logger *slog.Logger

	// Auth is used to resolve session tokens.  It must not be nil.
	Auth *Auth

	// PublicPaths are the URL paths that are served without authentication.
	PublicPaths []string
}

// Middleware is the authentication middleware.  It searches for a web user
// using the session cookie and passes it with the context.
type Middleware struct {
	logger      *slog.Logger
	auth        *Auth
	publicPaths *container.MapSet[string]
}

// NewMiddleware returns a new properly initialized *Middleware.  c must not be
// nil.
func NewMiddleware(c *MiddlewareConfig) (mw *Middleware) {
	paths := container.NewMapSet[string]()
	for _, p := range c.PublicPaths {
		paths.Add(p)
	}

	return &Middleware{
		logger:      c.Logger,
		auth:        c.Auth,
		publicPaths: paths,
	}
}

// type check
var _ httputil.Middleware = (*Middleware)(nil)

// Wrap implements the [httputil.Middleware] interface for *Middleware.
func (mw *Middleware) Wrap(h http.Handler) (wrapped http.Handler) {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if !mw.auth.Enabled(ctx) {
			h.ServeHTTP(w, r)

			return
		}

		u, s := mw.userFromRequest(ctx, r)
		if u != nil {
			h.ServeHTTP(w, r.WithContext(WithUser(ctx, u, s)))

			return
		}

		if mw.publicPaths.Has(r.URL.Path) {
			h.ServeHTTP(w, r)

			return
		}

		w.WriteHeader(http.StatusUnauthorized)
	})
}

// userFromRequest returns the web user and the session of the request, if
// any.
func (mw *Middleware) userFromRequest(
	ctx context.Context,
	r *http.Request,
) (u *adminuser.User, s *session.Session) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, nil
	}

	t, err := ParseToken(c.Value)
	if err != nil {
		mw.logger.DebugContext(ctx, "bad session cookie", slogutil.KeyError, err)

		return nil, nil
	}

	return mw.auth.UserFromToken(ctx, t)
}
