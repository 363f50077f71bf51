package cmd

import (
	"cmp"
	"io"
	"log/slog"
	"os"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/ShopCraft/CatalogAdmin/internal/configmgr"
	"github.com/c2h5oh/datasize"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Special values of the log file setting.
const (
	logFileStdout = "stdout"
	logFileStderr = "stderr"
)

// newLogger returns a new base logger configured with conf and the
// command-line options overriding it.  closer is not nil if the output must be
// closed on exit.  conf and opts must not be nil.
func newLogger(conf *configmgr.LogConfig, opts *options) (l *slog.Logger, closer io.Closer) {
	lvl := slog.LevelInfo
	if opts.verbose || conf.Verbose {
		lvl = slogutil.LevelDebug
	}

	output, closer := logOutput(conf, cmp.Or(opts.logFile, conf.File))

	return slogutil.New(&slogutil.Config{
		Output:       output,
		Format:       slogutil.FormatAdGuardLegacy,
		Level:        lvl,
		AddTimestamp: true,
	}), closer
}

// logOutput returns the writer for the log file with the given name.  closer
// is nil unless the output is a rotated file.  conf must not be nil.
func logOutput(conf *configmgr.LogConfig, fileName string) (w io.Writer, closer io.Closer) {
	switch fileName {
	case "", logFileStdout:
		return os.Stdout, nil
	case logFileStderr:
		return os.Stderr, nil
	default:
		lj := &lumberjack.Logger{
			Filename:   fileName,
			MaxSize:    max(int(conf.MaxSize/datasize.MB), 1),
			MaxBackups: conf.MaxBackups,
			MaxAge:     conf.MaxAge,
			Compress:   conf.Compress,
			LocalTime:  true,
		}

		return lj, lj
	}
}
