package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/osutil"
	"github.com/ShopCraft/CatalogAdmin/internal/adminos"
)

// refreshableService is a service that can be reconfigured while running.
type refreshableService interface {
	Refresh(ctx context.Context) (err error)
	Shutdown(ctx context.Context) (err error)
}

// signalHandler processes incoming signals and configuration file changes.
type signalHandler struct {
	logger *slog.Logger

	// signal is the channel to which OS signals are sent.
	signal chan os.Signal

	// fileChanges receives a value when the configuration file changes.  It is
	// set to nil once closed.
	fileChanges <-chan struct{}

	// svc is the service reconfigured on changes and shut down on exit.
	svc refreshableService

	shutdownTimeout time.Duration
}

// newSignalHandler returns a new *signalHandler that manages svc.  Call
// [signalHandler.handle] to start processing.  All arguments must not be nil.
func newSignalHandler(
	l *slog.Logger,
	fileChanges <-chan struct{},
	svc refreshableService,
) (h *signalHandler) {
	h = &signalHandler{
		logger:          l,
		signal:          make(chan os.Signal, 1),
		fileChanges:     fileChanges,
		svc:             svc,
		shutdownTimeout: defaultTimeout,
	}

	adminos.NotifyShutdownSignal(h.signal)
	adminos.NotifyReconfigureSignal(h.signal)

	return h
}

// handle processes OS signals and file changes until a shutdown signal is
// received.  It returns the exit status.
func (h *signalHandler) handle(ctx context.Context) (status int) {
	defer slogutil.RecoverAndLog(ctx, h.logger)

	for {
		select {
		case sig := <-h.signal:
			h.logger.InfoContext(ctx, "received signal", "signal", sig)

			if adminos.IsReconfigureSignal(sig) {
				h.reconfigure(ctx)
			} else if adminos.IsShutdownSignal(sig) {
				status = h.shutdown(ctx)

				h.logger.InfoContext(ctx, "exiting", "status", status)

				return status
			}
		case _, ok := <-h.fileChanges:
			if !ok {
				h.fileChanges = nil

				continue
			}

			h.logger.InfoContext(ctx, "config file changed")
			h.reconfigure(ctx)
		}
	}
}

// reconfigure rereads the configuration file.  Errors are logged, and the
// services keep running with the previous configuration.
func (h *signalHandler) reconfigure(ctx context.Context) {
	err := h.svc.Refresh(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "reconfiguring", slogutil.KeyError, err)
	}
}

// shutdown gracefully shuts down all services.
func (h *signalHandler) shutdown(ctx context.Context) (status int) {
	ctx, cancel := context.WithTimeout(ctx, h.shutdownTimeout)
	defer cancel()

	h.logger.InfoContext(ctx, "shutting down services")

	err := h.svc.Shutdown(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "shutting down", slogutil.KeyError, err)

		return osutil.ExitCodeFailure
	}

	return osutil.ExitCodeSuccess
}
