// Package version exposes build metadata stamped in at link time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/pillarsync/internal/version.Version=v1.2.0"
package version

// Version is the release version.
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by the CLI.
func String() string {
	return "pillarsync " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
