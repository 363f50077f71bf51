// Package cmd is the CatalogAdmin entry point.  It assembles the session
// registry, the configuration manager, sets up signal processing logic, and so
// on.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/osutil"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/ShopCraft/CatalogAdmin/internal/adminos"
	"github.com/ShopCraft/CatalogAdmin/internal/configmgr"
	"github.com/ShopCraft/CatalogAdmin/internal/metrics"
	"github.com/ShopCraft/CatalogAdmin/internal/session"
	"github.com/ShopCraft/CatalogAdmin/internal/version"
)

// Main is the entry point of CatalogAdmin.
func Main() {
	ctx := context.Background()

	cmdName := os.Args[0]
	opts, err := parseOptions(cmdName, os.Args[1:])
	if err == nil && opts.workDir != "" {
		err = os.Chdir(opts.workDir)
		if err != nil {
			exitWithError(fmt.Errorf("changing working directory: %w", err))
		}
	}

	exitCode, needExit := processOptions(opts, cmdName, err, os.Stdout)
	if needExit {
		os.Exit(exitCode)
	}

	conf, err := configmgr.ReadFile(opts.confFile)
	if err != nil {
		exitWithError(err)
	}

	baseLogger, logCloser := newLogger(conf.Log, opts)

	os.Exit(run(ctx, baseLogger, logCloser, conf, opts))
}

// exitWithError prints err to stderr and exits with the failure code.  It must
// only be used within Main before the logger is set up.
func exitWithError(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "catalogadmin: %s\n", err)

	os.Exit(osutil.ExitCodeFailure)
}

// defaultTimeout is the timeout used for starting and shutting down services.
const defaultTimeout = 5 * time.Second

// run assembles and starts the services and processes signals until shutdown.
// It returns the exit status.
func run(
	ctx context.Context,
	baseLogger *slog.Logger,
	logCloser io.Closer,
	conf *configmgr.File,
	opts *options,
) (status int) {
	logger := baseLogger.With(slogutil.KeyPrefix, "cmd")
	if logCloser != nil {
		defer slogutil.CloseAndLog(ctx, logger, logCloser, slog.LevelError)
	}

	defer slogutil.RecoverAndExit(ctx, logger, osutil.ExitCodeFailure)

	logger.InfoContext(ctx, "starting catalogadmin", "version", version.Version(), "pid", os.Getpid())

	mtrcReg := metrics.NewRegistry()

	sessMtrc, err := metrics.NewSessionMetrics(conf.Metrics.Namespace, mtrcReg)
	check(err)

	authMtrc, err := metrics.NewAuthMetrics(conf.Metrics.Namespace, mtrcReg)
	check(err)

	clock := timeutil.SystemClock{}
	sessions := session.NewRegistry(&session.RegistryConfig{
		Logger:  baseLogger.With(slogutil.KeyPrefix, "sessions"),
		Clock:   clock,
		Metrics: sessMtrc,
	})

	confMgr, err := configmgr.New(ctx, &configmgr.Config{
		BaseLogger:  baseLogger,
		Logger:      baseLogger.With(slogutil.KeyPrefix, "configmgr"),
		Clock:       clock,
		Sessions:    sessions,
		Metrics:     mtrcReg,
		AuthMetrics: authMtrc,
		File:        conf,
		WebAddr:     opts.webAddr,
		FileName:    opts.confFile,
	})
	check(err)

	watcher := newConfigWatcher(ctx, baseLogger, opts.confFile)
	svcMgr := newServiceMgr(&serviceMgrConfig{
		confMgr:     confMgr,
		watcher:     watcher,
		logger:      baseLogger.With(slogutil.KeyPrefix, "service_manager"),
		pidFilePath: opts.pidFile,
	})

	sigHdlr := newSignalHandler(
		baseLogger.With(slogutil.KeyPrefix, "signal_handler"),
		watcher.Events(),
		svcMgr,
	)

	startCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = svcMgr.Start(startCtx)
	check(err)

	logger.InfoContext(ctx, "started", "web_addr", confMgr.Web().LocalAddr())

	return sigHdlr.handle(ctx)
}

// newConfigWatcher returns a watcher of the configuration file.  If the file
// can't be watched, the returned watcher never reports changes.
func newConfigWatcher(
	ctx context.Context,
	baseLogger *slog.Logger,
	confFile string,
) (w adminos.FileWatcher) {
	l := baseLogger.With(slogutil.KeyPrefix, "config_watcher")

	osw, err := adminos.NewOSWatcher(l)
	if err != nil {
		l.WarnContext(ctx, "config changes are not tracked", slogutil.KeyError, err)

		return adminos.EmptyFileWatcher{}
	}

	err = osw.Add(confFile)
	if err != nil {
		l.WarnContext(ctx, "config changes are not tracked", slogutil.KeyError, err)

		if err = osw.Shutdown(ctx); err != nil {
			l.ErrorContext(ctx, "closing watcher", slogutil.KeyError, err)
		}

		return adminos.EmptyFileWatcher{}
	}

	return osw
}

// check is a simple error-checking helper.  It must only be used within run.
func check(err error) {
	if err != nil {
		panic(err)
	}
}
