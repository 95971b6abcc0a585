// Package buildinfo holds the version stamped into blastgrid binaries.
//
// Release builds set the variables via ldflags:
//
//	go build -ldflags "-X github.com/openpit/blastgrid/pkg/buildinfo.Version=v0.4.0 \
//	    -X github.com/openpit/blastgrid/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/openpit/blastgrid/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// A plain `go install` leaves them unset; the module version and VCS stamp
// recorded by the Go toolchain are used instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info is the resolved build information.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get resolves the build information, falling back to the toolchain stamp
// for values not set via ldflags.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		}
	}
	return info
}

// String returns the formatted build information.
func String() string {
	i := Get()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
}

// Template returns the version template string for cobra.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
