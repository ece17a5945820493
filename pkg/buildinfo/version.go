// Package buildinfo carries the bentogrid release stamp.
//
// The variables are overwritten at link time:
//
//	go build -ldflags "-X github.com/matzehuels/bentogrid/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/bentogrid/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/bentogrid/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/bentogrid
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the release stamp as reported by the API health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"built"`
}

// Get returns the stamp of the running binary.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Dev reports whether the binary was built without a release version.
func (i Info) Dev() bool { return i.Version == "dev" }

// Template returns the cobra version template for the bentogrid command.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", i.Version, i.Commit, i.Date)
}
