package websvc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"sync"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/netutil/urlutil"
)

// server contains an *http.Server as well as entities and data associated with
// it.
type server struct {
	// mu protects http, logger, tcpListener, and url.
	mu          *sync.Mutex
	http        *http.Server
	baseLogger  *slog.Logger
	logger      *slog.Logger
	tcpListener *net.TCPListener
	url         *url.URL

	initialAddr netip.AddrPort
}

// loggerKeyServer is the key used by [server] to identify itself.
const loggerKeyServer = "server"

// newServer returns a *server that is ready to serve HTTP queries.  The TCP
// listener is not started.  handler must not be nil.
func newServer(
	baseLogger *slog.Logger,
	initialAddr netip.AddrPort,
	handler http.Handler,
	timeout time.Duration,
) (s *server) {
	u := &url.URL{
		Scheme: urlutil.SchemeHTTP,
		Host:   initialAddr.String(),
	}

	logger := baseLogger.With(loggerKeyServer, u)

	return &server{
		mu: &sync.Mutex{},
		http: &http.Server{
			Handler:           handler,
			ReadTimeout:       timeout,
			ReadHeaderTimeout: timeout,
			WriteTimeout:      timeout,
			IdleTimeout:       timeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
		baseLogger: baseLogger,
		logger:     logger,
		url:        u,

		initialAddr: initialAddr,
	}
}

// localAddr returns the local address of the server if the server has started
// listening; otherwise, it returns nil.
func (s *server) localAddr() (addr net.Addr) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l := s.tcpListener; l != nil {
		return l.Addr()
	}

	return nil
}

// listen starts the TCP listener of s.
func (s *server) listen(ctx context.Context) (err error) {
	l, err := net.ListenTCP("tcp", net.TCPAddrFromAddrPort(s.initialAddr))
	if err != nil {
		return fmt.Errorf("listening tcp: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tcpListener = l

	// Reassign the address in case the port was zero.
	s.url.Host = l.Addr().String()
	s.logger = s.baseLogger.With(loggerKeyServer, s.url)
	s.http.ErrorLog = slog.NewLogLogger(s.logger.Handler(), slog.LevelError)

	s.logger.InfoContext(ctx, "listening")

	return nil
}

// serve serves HTTP queries on the listener started by [server.listen].  It is
// intended to be used as a goroutine.
func (s *server) serve(ctx context.Context) {
	s.mu.Lock()
	l, logger := s.tcpListener, s.logger
	s.mu.Unlock()

	defer slogutil.RecoverAndLog(ctx, logger)

	err := s.http.Serve(l)
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return
	}

	logger.ErrorContext(ctx, "serving", slogutil.KeyError, err)
}

// shutdown shuts s down.
func (s *server) shutdown(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	err = s.http.Shutdown(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("shutting down server %s: %w", s.url, err))
	}

	// Close the listener separately, as it might not have been closed if the
	// context has been canceled.
	if l := s.tcpListener; l != nil {
		err = l.Close()
		if err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, fmt.Errorf("closing listener for server %s: %w", s.url, err))
		}
	}

	return errors.Join(errs...)
}
