package cmd

import (
	"encoding"
	"flag"
	"fmt"
	"io"
	"net/netip"
	"os"
	"slices"
	"strings"

	"github.com/AdguardTeam/golibs/osutil"
	"github.com/ShopCraft/CatalogAdmin/internal/configmgr"
	"github.com/ShopCraft/CatalogAdmin/internal/version"
)

// options contains all command-line options for the CatalogAdmin(.exe) binary.
type options struct {
	// confFile is the path to the configuration file.
	confFile string

	// logFile is the path to the log file.  If set, it overrides the file from
	// the configuration.  Special values:
	//
	//   - "stdout":  Write to stdout.
	//   - "stderr":  Write to stderr.
	logFile string

	// pidFile is the path to the file where to store the PID.
	pidFile string

	// workDir is the path to the working directory.  It is applied before all
	// other configuration is read, so all relative paths are relative to it.
	workDir string

	// webAddr contains the address on which to serve the HTTP API.
	webAddr netip.AddrPort

	// checkConfig, if true, instructs CatalogAdmin to check the configuration
	// file, optionally print an error message to stdout, and exit with a
	// corresponding exit code.
	checkConfig bool

	// help, if true, instructs CatalogAdmin to print the command-line option
	// help message and quit with a successful exit-code.
	help bool

	// initConfig, if true, instructs CatalogAdmin to write the default
	// configuration file and quit.
	initConfig bool

	// verbose, if true, instructs CatalogAdmin to enable verbose logging.
	verbose bool

	// version, if true, instructs CatalogAdmin to print the version to stdout
	// and quit with a successful exit-code.  If verbose is also true, print a
	// more detailed version description.
	version bool
}

// Indexes to help with the [commandLineOptions] initialization.
const (
	confFileIdx = iota
	logFileIdx
	pidFileIdx
	workDirIdx
	webAddrIdx
	checkConfigIdx
	helpIdx
	initConfigIdx
	verboseIdx
	versionIdx
)

// commandLineOption contains information about a command-line option: its long
// and, if there is one, short forms, the value type, the description, and the
// default value.
type commandLineOption struct {
	defaultValue any
	description  string
	long         string
	short        string
	valueType    string
}

// commandLineOptions are all command-line options currently supported by
// CatalogAdmin.
var commandLineOptions = []*commandLineOption{
	confFileIdx: {
		defaultValue: "CatalogAdmin.yaml",
		description:  "Path to the config file.",
		long:         "config",
		short:        "c",
		valueType:    "path",
	},

	logFileIdx: {
		defaultValue: "",
		description:  `Path to log file.  Special values include "stdout" and "stderr".`,
		long:         "logfile",
		short:        "l",
		valueType:    "path",
	},

	pidFileIdx: {
		defaultValue: "",
		description:  "Path to the file where to store the PID.",
		long:         "pidfile",
		short:        "",
		valueType:    "path",
	},

	workDirIdx: {
		defaultValue: "",
		description: `Path to the working directory.  ` +
			`It is applied before all other configuration is read, ` +
			`so all relative paths are relative to it.`,
		long:      "work-dir",
		short:     "w",
		valueType: "path",
	},

	webAddrIdx: {
		defaultValue: netip.AddrPort{},
		description:  `Address to serve the HTTP API on, in the host:port format.`,
		long:         "web-addr",
		short:        "",
		valueType:    "host:port",
	},

	checkConfigIdx: {
		defaultValue: false,
		description:  "Check configuration, print errors to stdout, and quit.",
		long:         "check-config",
		short:        "",
		valueType:    "",
	},

	helpIdx: {
		defaultValue: false,
		description:  "Print this help message and quit.",
		long:         "help",
		short:        "h",
		valueType:    "",
	},

	initConfigIdx: {
		defaultValue: false,
		description:  "Write the default config file, if there is none, and quit.",
		long:         "init",
		short:        "",
		valueType:    "",
	},

	verboseIdx: {
		defaultValue: false,
		description:  "Enable verbose logging.",
		long:         "verbose",
		short:        "v",
		valueType:    "",
	},

	versionIdx: {
		defaultValue: false,
		description: `Print the version to stdout and quit.  ` +
			`Print a more detailed version description with -v.`,
		long:      "version",
		short:     "",
		valueType: "",
	},
}

// parseOptions parses the command-line options for CatalogAdmin.
func parseOptions(cmdName string, args []string) (opts *options, err error) {
	flags := flag.NewFlagSet(cmdName, flag.ContinueOnError)

	opts = &options{}
	for i, fieldPtr := range []any{
		confFileIdx:    &opts.confFile,
		logFileIdx:     &opts.logFile,
		pidFileIdx:     &opts.pidFile,
		workDirIdx:     &opts.workDir,
		webAddrIdx:     &opts.webAddr,
		checkConfigIdx: &opts.checkConfig,
		helpIdx:        &opts.help,
		initConfigIdx:  &opts.initConfig,
		verboseIdx:     &opts.verbose,
		versionIdx:     &opts.version,
	} {
		addOption(flags, fieldPtr, commandLineOptions[i])
	}

	flags.Usage = func() { usage(cmdName, os.Stderr) }

	err = flags.Parse(args)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return nil, err
	}

	return opts, nil
}

// addOption adds the command-line option described by o to flags using fieldPtr
// as the pointer to the value.
func addOption(flags *flag.FlagSet, fieldPtr any, o *commandLineOption) {
	switch fieldPtr := fieldPtr.(type) {
	case *string:
		flags.StringVar(fieldPtr, o.long, o.defaultValue.(string), o.description)
		if o.short != "" {
			flags.StringVar(fieldPtr, o.short, o.defaultValue.(string), o.description)
		}
	case *bool:
		flags.BoolVar(fieldPtr, o.long, o.defaultValue.(bool), o.description)
		if o.short != "" {
			flags.BoolVar(fieldPtr, o.short, o.defaultValue.(bool), o.description)
		}
	case encoding.TextUnmarshaler:
		flags.TextVar(fieldPtr, o.long, o.defaultValue.(encoding.TextMarshaler), o.description)
		if o.short != "" {
			flags.TextVar(fieldPtr, o.short, o.defaultValue.(encoding.TextMarshaler), o.description)
		}
	default:
		panic(fmt.Errorf("unexpected field pointer type %T", fieldPtr))
	}
}

// usage prints a usage message similar to the one printed by package flag but
// taking long vs. short versions into account as well as using more informative
// value hints.
func usage(cmdName string, output io.Writer) {
	options := slices.Clone(commandLineOptions)
	slices.SortStableFunc(options, func(a, b *commandLineOption) (res int) {
		return strings.Compare(a.long, b.long)
	})

	b := &strings.Builder{}
	_, _ = fmt.Fprintf(b, "Usage of %s:\n", cmdName)

	for _, o := range options {
		writeUsageLine(b, o)

		// Use four spaces before the tab to trigger good alignment for both 4-
		// and 8-space tab stops.
		if shouldIncludeDefault(o.defaultValue) {
			_, _ = fmt.Fprintf(b, "    \t%s  (Default value: %q)\n", o.description, o.defaultValue)
		} else {
			_, _ = fmt.Fprintf(b, "    \t%s\n", o.description)
		}
	}

	_, _ = io.WriteString(output, b.String())
}

// shouldIncludeDefault returns true if this default value should be printed.
func shouldIncludeDefault(v any) (ok bool) {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		return v != ""
	default:
		return v == nil
	}
}

// writeUsageLine writes the usage line for the provided command-line option.
func writeUsageLine(b *strings.Builder, o *commandLineOption) {
	if o.short == "" {
		if o.valueType == "" {
			_, _ = fmt.Fprintf(b, "  --%s\n", o.long)
		} else {
			_, _ = fmt.Fprintf(b, "  --%s=%s\n", o.long, o.valueType)
		}

		return
	}

	if o.valueType == "" {
		_, _ = fmt.Fprintf(b, "  --%s/-%s\n", o.long, o.short)
	} else {
		_, _ = fmt.Fprintf(b, "  --%[1]s=%[3]s/-%[2]s %[3]s\n", o.long, o.short, o.valueType)
	}
}

// processOptions decides if CatalogAdmin should exit depending on the results
// of command-line option parsing.  The working directory must already be
// applied.
func processOptions(
	opts *options,
	cmdName string,
	parseErr error,
	stdout io.Writer,
) (exitCode int, needExit bool) {
	if parseErr != nil {
		// Assume that usage has already been printed.
		return osutil.ExitCodeArgumentError, true
	}

	if opts.help {
		usage(cmdName, stdout)

		return osutil.ExitCodeSuccess, true
	}

	if opts.version {
		if opts.verbose {
			_, _ = io.WriteString(stdout, version.Verbose(configmgr.CurrentSchemaVersion))
		} else {
			_, _ = io.WriteString(stdout, version.Full()+"\n")
		}

		return osutil.ExitCodeSuccess, true
	}

	if opts.initConfig {
		return exitWithResult(stdout, configmgr.WriteDefault(opts.confFile))
	}

	if opts.checkConfig {
		_, err := configmgr.ReadFile(opts.confFile)

		return exitWithResult(stdout, err)
	}

	return osutil.ExitCodeSuccess, false
}

// exitWithResult prints err, if any, to stdout and returns the corresponding
// exit code.
func exitWithResult(stdout io.Writer, err error) (exitCode int, needExit bool) {
	if err != nil {
		_, _ = io.WriteString(stdout, err.Error()+"\n")

		return osutil.ExitCodeFailure, true
	}

	return osutil.ExitCodeSuccess, true
}
