// Package version contains CatalogAdmin version information.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/AdguardTeam/golibs/stringutil"
)

// Channel constants.
const (
	ChannelDevelopment = "development"
	ChannelRelease     = "release"
)

// These are set by the linker.  They are only exported through getters, since
// the linker cannot set constants.
var (
	channel    string = ChannelDevelopment
	version    string
	committime string
)

// Channel returns the current CatalogAdmin release channel.
func Channel() (v string) {
	return channel
}

// vFmtFull defines the format of full version output.
const vFmtFull = "CatalogAdmin, version %s"

// Full returns the full current version of CatalogAdmin.
func Full() (v string) {
	return fmt.Sprintf(vFmtFull, version)
}

// Version returns the CatalogAdmin build version.
func Version() (v string) {
	return version
}

// fmtModule returns formatted information about module.  The result looks like:
//
//	github.com/Username/module@v1.2.3 (sum: someHASHSUM=)
func fmtModule(m *debug.Module) (formatted string) {
	if m == nil {
		return ""
	}

	if repl := m.Replace; repl != nil {
		return fmtModule(repl)
	}

	b := &strings.Builder{}

	stringutil.WriteToBuilder(b, m.Path)
	if ver := m.Version; ver != "" {
		sep := "@"
		if ver == "(devel)" {
			sep = " "
		}

		stringutil.WriteToBuilder(b, sep, ver)
	}

	if sum := m.Sum; sum != "" {
		stringutil.WriteToBuilder(b, " (sum: ", sum, ")")
	}

	return b.String()
}

// Constants defining the headers of build information message.
const (
	vFmtNameHdr      = "CatalogAdmin"
	vFmtVerHdr       = "Version: "
	vFmtSchemaVerHdr = "Schema version: "
	vFmtChanHdr      = "Channel: "
	vFmtGoHdr        = "Go version: "
	vFmtTimeHdr      = "Commit time: "
	vFmtGOOSHdr      = "GOOS: " + runtime.GOOS
	vFmtGOARCHHdr    = "GOARCH: " + runtime.GOARCH
	vFmtDepsHdr      = "Dependencies:"
)

// Verbose returns formatted build information.  Output example:
//
//	CatalogAdmin
//	Version: v0.1.0
//	Schema version: 1
//	Channel: development
//	Go version: go1.24.5
//	Commit time: 2024-03-30 16:26:08 +0300 MSK
//	GOOS: linux
//	GOARCH: amd64
//	Dependencies:
//	        ...
func Verbose(schemaVersion uint) (v string) {
	b := &strings.Builder{}

	const nl = "\n"
	stringutil.WriteToBuilder(b, vFmtNameHdr, nl)
	stringutil.WriteToBuilder(b, vFmtVerHdr, version, nl)

	schemaVerStr := strconv.FormatUint(uint64(schemaVersion), 10)
	stringutil.WriteToBuilder(b, vFmtSchemaVerHdr, schemaVerStr, nl)

	stringutil.WriteToBuilder(b, vFmtChanHdr, channel, nl)
	stringutil.WriteToBuilder(b, vFmtGoHdr, runtime.Version(), nl)

	writeCommitTime(b)

	stringutil.WriteToBuilder(b, vFmtGOOSHdr, nl)
	stringutil.WriteToBuilder(b, vFmtGOARCHHdr, nl)

	info, ok := debug.ReadBuildInfo()
	if !ok || len(info.Deps) == 0 {
		return b.String()
	}

	stringutil.WriteToBuilder(b, vFmtDepsHdr, nl)
	for _, dep := range info.Deps {
		if depStr := fmtModule(dep); depStr != "" {
			stringutil.WriteToBuilder(b, "\t", depStr, nl)
		}
	}

	return b.String()
}

// writeCommitTime writes the commit time set by the linker into b, if any.
func writeCommitTime(b *strings.Builder) {
	if committime == "" {
		return
	}

	commitTimeUnix, err := strconv.ParseInt(committime, 10, 64)
	if err != nil {
		stringutil.WriteToBuilder(b, vFmtTimeHdr, fmt.Sprintf("parse error: %s", err), "\n")
	} else {
		stringutil.WriteToBuilder(b, vFmtTimeHdr, time.Unix(commitTimeUnix, 0).String(), "\n")
	}
}
