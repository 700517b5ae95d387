// Package buildinfo carries the firmware version stamped in with -ldflags:
//
//	-X macrodeck/internal/buildinfo.Version=v1.2.0 -X macrodeck/internal/buildinfo.Commit=abc123
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for the window title and the
// boot log line.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String returns every stamped field.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
