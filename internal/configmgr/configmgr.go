// Package configmgr defines the CatalogAdmin on-disk configuration entities and
// configuration manager.
package configmgr

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"sync"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/ShopCraft/CatalogAdmin/internal/adminuser"
	"github.com/ShopCraft/CatalogAdmin/internal/auth"
	"github.com/ShopCraft/CatalogAdmin/internal/session"
	"github.com/ShopCraft/CatalogAdmin/internal/websvc"
	"github.com/prometheus/client_golang/prometheus"
)

// Config contains the configuration parameters for the configuration manager.
type Config struct {
	// BaseLogger is used to create loggers for other entities.  It must not be
	// nil.
	BaseLogger *slog.Logger

	// Logger is used for logging the operation of the configuration manager.
	// It must not be nil.
	Logger *slog.Logger

	// Clock is used to get the current time.  It must not be nil.
	Clock timeutil.Clock

	// Sessions is the session registry shared by the services.  It must not
	// be nil.
	Sessions *session.Registry

	// Metrics is the registry to serve the metrics from.  It must not be nil.
	Metrics *prometheus.Registry

	// AuthMetrics is used to collect the login statistics.  It must not be
	// nil.
	AuthMetrics auth.Metrics

	// File is the configuration read from FileName.  It must be valid.
	File *File

	// WebAddr is the override address for the web service.  It is not written
	// to the configuration file.
	WebAddr netip.AddrPort

	// FileName is the path to the configuration file.
	FileName string
}

// Manager assembles the services from the configuration file and applies the
// changes of the file.
type Manager struct {
	logger *slog.Logger

	// updMu makes sure that at most one reconfiguration is performed at a time.
	updMu *sync.Mutex

	users   *adminuser.DefaultDB
	sweeper *session.Sweeper
	web     *websvc.Service

	fileName string
}

// New returns a new *Manager with the services assembled from c.File.  c must
// not be nil.
func New(ctx context.Context, c *Config) (m *Manager, err error) {
	users, err := toUsers(c.File.Users)
	if err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}

	db := adminuser.NewDefaultDB()
	err = db.Replace(ctx, users)
	if err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}

	if len(users) == 0 {
		c.Logger.WarnContext(ctx, "no users configured, authentication is disabled")
	}

	sweeper, err := session.NewSweeper(&session.SweeperConfig{
		Logger:   c.BaseLogger.With(slogutil.KeyPrefix, "sweeper"),
		Clock:    c.Clock,
		Sessions: c.Sessions,
		Interval: c.File.Session.SweepInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("creating sweeper: %w", err)
	}

	a := auth.New(&auth.Config{
		Logger:      c.BaseLogger.With(slogutil.KeyPrefix, "auth"),
		Sessions:    c.Sessions,
		Users:       db,
		RateLimiter: newRateLimiter(c.Clock, c.File.Auth),
		Metrics:     c.AuthMetrics,
		SessionTTL:  c.File.Session.TTL,
	})

	httpConf := c.File.HTTP
	addr := httpConf.Address
	if c.WebAddr.IsValid() {
		addr = c.WebAddr
	}

	web := websvc.New(&websvc.Config{
		Logger:       c.BaseLogger.With(slogutil.KeyPrefix, "websvc"),
		Auth:         a,
		Sessions:     c.Sessions,
		Metrics:      c.Metrics,
		Address:      addr,
		Timeout:      httpConf.Timeout,
		MaxBodySize:  httpConf.MaxBodySize,
		SecureCookie: httpConf.SecureCookie,
	})

	return &Manager{
		logger:   c.Logger,
		updMu:    &sync.Mutex{},
		users:    db,
		sweeper:  sweeper,
		web:      web,
		fileName: c.FileName,
	}, nil
}

// newRateLimiter returns the login rate limiter for c.
func newRateLimiter(clock timeutil.Clock, c *AuthConfig) (rl auth.RateLimiter) {
	if c.MaxAttempts == 0 {
		return auth.EmptyRateLimiter{}
	}

	return auth.NewDefaultRateLimiter(&auth.DefaultRateLimiterConfig{
		Clock:         clock,
		BlockDuration: c.BlockDuration,
		MaxAttempts:   c.MaxAttempts,
	})
}

// Users returns the web user database.
func (m *Manager) Users() (db adminuser.DB) {
	return m.users
}

// Sweeper returns the expired session sweeper service.
func (m *Manager) Sweeper() (svc *session.Sweeper) {
	return m.sweeper
}

// Web returns the web service.
func (m *Manager) Web() (svc *websvc.Service) {
	return m.web
}

// Reload rereads the configuration file and applies the new set of web users.
// The sessions of the removed users are dropped on their next use, while the
// other sessions are kept.  Other changes require a restart.
func (m *Manager) Reload(ctx context.Context) (err error) {
	m.updMu.Lock()
	defer m.updMu.Unlock()

	f, err := ReadFile(m.fileName)
	if err != nil {
		return fmt.Errorf("reloading: %w", err)
	}

	users, err := toUsers(f.Users)
	if err != nil {
		// Should not happen, since the file has been validated.
		panic(err)
	}

	err = m.users.Replace(ctx, users)
	if err != nil {
		return fmt.Errorf("reloading users: %w", err)
	}

	m.logger.InfoContext(ctx, "reloaded config", "path", m.fileName, "users", len(users))

	return m.sweeper.Refresh(ctx)
}
