// Package settings provides build metadata, run configuration, and context
// helpers shared by the tabula CLI and library packages.
package settings

import "github.com/oakwood-commons/tabula/pkg/view"

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "tabula"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the settings of a single invocation.
type Run struct {
	MinLogLevel int8
	// Source is the file (or "-" for stdin) records were loaded from.
	Source      string
	PageSize    int
	Interactive bool
	NoColor     bool
}

// DefaultPageSize is the number of rows per page when nothing else is set.
const DefaultPageSize = view.DefaultPageSize

// NewCliParams returns the defaults used by the CLI.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		PageSize:    DefaultPageSize,
	}
}
