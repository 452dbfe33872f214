// Package version holds build metadata stamped into the moodboard binaries.
package version

import "fmt"

// Set with -ldflags, for example:
//
//	-X 'github.com/mindwell/moodboard/internal/version.Version=v0.4.1'
//	-X 'github.com/mindwell/moodboard/internal/version.CommitHash=abc1234'
//	-X 'github.com/mindwell/moodboard/internal/version.BuildDate=2026-10-01'
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// String returns the version line printed by `moodboard version`.
func String() string {
	return fmt.Sprintf("moodboard %s (%s) built %s", Version, CommitHash, BuildDate)
}
