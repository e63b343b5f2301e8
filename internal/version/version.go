// Package version holds build metadata, set with -ldflags at release time:
//
//	go build -ldflags "-X github.com/cortexai/igs/internal/version.Version=1.2.0 -X github.com/cortexai/igs/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

var (
	Version = "1.0.0"
	Commit  = "unknown"
)

// String returns "<version> (<commit>)".
func String() string {
	return Version + " (" + Commit + ")"
}
