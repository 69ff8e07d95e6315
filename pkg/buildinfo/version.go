// Package buildinfo holds the version stamped into visunn at build time:
//
//	go build -ldflags "-X github.com/matzehuels/visunn/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/visunn/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/visunn/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Set via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the build information, one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}

// UserAgent identifies visunn in requests to the backend.
func UserAgent() string {
	return "visunn/" + Version
}
