package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/service"
	"github.com/ShopCraft/CatalogAdmin/internal/adminos"
	"github.com/ShopCraft/CatalogAdmin/internal/configmgr"
	"github.com/google/renameio/v2/maybe"
)

// serviceMgr manages CatalogAdmin services.
type serviceMgr struct {
	confMgr     *configmgr.Manager
	watcher     adminos.FileWatcher
	logger      *slog.Logger
	pidFilePath string
}

// serviceMgrConfig contains service manager configuration parameters.
type serviceMgrConfig struct {
	// confMgr is the configuration manager with the assembled services, it
	// must not be nil.
	confMgr *configmgr.Manager

	// watcher tracks the changes of the configuration file, it must not be
	// nil.
	watcher adminos.FileWatcher

	// logger is the logger used to log services activity, it must not be nil.
	logger *slog.Logger

	// pidFilePath is the path to the file where to store the PID, if any.
	pidFilePath string
}

// newServiceMgr creates a new *serviceMgr.  c must not be nil.
func newServiceMgr(c *serviceMgrConfig) (s *serviceMgr) {
	return &serviceMgr{
		confMgr:     c.confMgr,
		watcher:     c.watcher,
		logger:      c.logger,
		pidFilePath: c.pidFilePath,
	}
}

// type check
var _ service.Interface = (*serviceMgr)(nil)

// Start implements the [service.Interface] interface for *serviceMgr.
func (s *serviceMgr) Start(ctx context.Context) (err error) {
	s.writePID(ctx)

	err = s.watcher.Start(ctx)
	if err != nil {
		return fmt.Errorf("starting config watcher: %w", err)
	}

	err = s.confMgr.Sweeper().Start(ctx)
	if err != nil {
		return fmt.Errorf("starting sweeper: %w", err)
	}

	err = s.confMgr.Web().Start(ctx)
	if err != nil {
		return fmt.Errorf("starting web: %w", err)
	}

	return nil
}

// writePID writes the PID to the file.  Any errors are reported to log.
func (s *serviceMgr) writePID(ctx context.Context) {
	if s.pidFilePath == "" {
		return
	}

	pid := os.Getpid()
	data := strconv.AppendInt(nil, int64(pid), 10)
	data = append(data, '\n')

	err := maybe.WriteFile(s.pidFilePath, data, 0o644)
	if err != nil {
		s.logger.ErrorContext(ctx, "writing pidfile", slogutil.KeyError, err)

		return
	}

	s.logger.DebugContext(ctx, "wrote pid", "file", s.pidFilePath, "pid", pid)
}

// Shutdown implements the [service.Interface] interface for *serviceMgr.  The
// services are shut down in the reverse order of starting.
func (s *serviceMgr) Shutdown(ctx context.Context) (err error) {
	var errs []error

	err = s.confMgr.Web().Shutdown(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("shutting down web: %w", err))
	}

	err = s.confMgr.Sweeper().Shutdown(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("shutting down sweeper: %w", err))
	}

	err = s.watcher.Shutdown(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("shutting down config watcher: %w", err))
	}

	s.removePID(ctx)

	return errors.Join(errs...)
}

// removePID removes the PID file.  Any errors are reported to log.
func (s *serviceMgr) removePID(ctx context.Context) {
	if s.pidFilePath == "" {
		return
	}

	err := os.Remove(s.pidFilePath)
	if err != nil {
		s.logger.ErrorContext(ctx, "removing pidfile", slogutil.KeyError, err)

		return
	}

	s.logger.DebugContext(ctx, "removed pidfile", "file", s.pidFilePath)
}

// type check
var _ service.Refresher = (*serviceMgr)(nil)

// Refresh implements the [service.Refresher] interface for *serviceMgr.  The
// services keep running, so the stored sessions survive.
func (s *serviceMgr) Refresh(ctx context.Context) (err error) {
	s.logger.InfoContext(ctx, "reconfiguring started")

	err = s.confMgr.Reload(ctx)
	if err != nil {
		return fmt.Errorf("reloading configuration: %w", err)
	}

	s.logger.InfoContext(ctx, "reconfiguring finished")

	return nil
}
