// Package websvc contains the CatalogAdmin HTTP API service.
//
// NOTE: Packages other than cmd must not import this package.
package websvc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/service"
	"github.com/ShopCraft/CatalogAdmin/internal/auth"
	"github.com/c2h5oh/datasize"
	"github.com/prometheus/client_golang/prometheus"
)

// SessionCounter returns the number of stored web user sessions.
// [*session.Registry] is the production implementation.
type SessionCounter interface {
	Len() (n int)
}

// Config is the configuration structure for [New].
type Config struct {
	// Logger is used for logging the operation of the web service.  It must
	// not be nil.
	Logger *slog.Logger

	// Auth is used to log web users in and out.  It must not be nil.
	Auth *auth.Auth

	// Sessions is used to report the number of sessions.  It must not be nil.
	Sessions SessionCounter

	// Metrics is used to serve the Prometheus metrics.  It must not be nil.
	Metrics prometheus.Gatherer

	// Address is the address to serve the HTTP API on.
	Address netip.AddrPort

	// Timeout is the timeout for all server operations.
	Timeout time.Duration

	// MaxBodySize is the maximum size of request bodies.  It must be
	// positive.
	MaxBodySize datasize.ByteSize

	// SecureCookie makes the session cookie HTTPS-only.  Set it when the
	// service is behind a TLS-terminating proxy.
	SecureCookie bool
}

// Service is the CatalogAdmin HTTP API service.
type Service struct {
	logger       *slog.Logger
	auth         *auth.Auth
	sessions     SessionCounter
	metrics      prometheus.Gatherer
	server       *server
	maxBodySize  datasize.ByteSize
	secureCookie bool
}

// New returns a new properly initialized *Service.  c must not be nil.
func New(c *Config) (svc *Service) {
	svc = &Service{
		logger:       c.Logger,
		auth:         c.Auth,
		sessions:     c.Sessions,
		metrics:      c.Metrics,
		maxBodySize:  c.MaxBodySize,
		secureCookie: c.SecureCookie,
	}

	mux := http.NewServeMux()
	svc.route(mux)

	authMw := auth.NewMiddleware(&auth.MiddlewareConfig{
		Logger:      c.Logger,
		Auth:        c.Auth,
		PublicPaths: publicPaths,
	})

	h := withMiddlewares(mux, authMw.Wrap, svc.limitRequestBody, requestIDMw)
	svc.server = newServer(c.Logger, c.Address, h, c.Timeout)

	return svc
}

// type check
var _ service.Interface = (*Service)(nil)

// Start implements the [service.Interface] interface for *Service.  After
// Start returns without an error, the service is accepting connections.
func (svc *Service) Start(ctx context.Context) (err error) {
	err = svc.server.listen(ctx)
	if err != nil {
		return fmt.Errorf("starting web service: %w", err)
	}

	go svc.server.serve(ctx)

	return nil
}

// Shutdown implements the [service.Interface] interface for *Service.
func (svc *Service) Shutdown(ctx context.Context) (err error) {
	defer func() { err = errors.Annotate(err, "shutting down web service: %w") }()

	return svc.server.shutdown(ctx)
}

// LocalAddr returns the address the service is listening on, or nil if it
// hasn't been started.
func (svc *Service) LocalAddr() (addr net.Addr) {
	return svc.server.localAddr()
}
