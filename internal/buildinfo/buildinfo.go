// Package buildinfo carries the version stamped in by the linker:
//
//	-ldflags "-X starterkit/internal/buildinfo.Version=v0.3.0 -X starterkit/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the release version, else the commit, else "dev".
func Short() string {
	switch {
	case Version != "" && Version != "dev":
		return Version
	case Commit != "" && Commit != "unknown":
		return Commit
	}
	return "dev"
}

// String is the one-line form printed by the version command.
func String() string {
	return fmt.Sprintf("starterkit %s (commit %s, built %s)", Version, Commit, Date)
}
