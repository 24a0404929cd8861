// Package buildinfo reports the version stamped into a sunburst binary.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/sunburst/pkg/buildinfo.Version=v0.4.0 \
//	    -X github.com/matzehuels/sunburst/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/sunburst/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/sunburst
package buildinfo

import (
	"fmt"
	"strings"
)

// Stamped at link time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build stamp in a form the API can serve.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build stamp.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// IsRelease reports whether the binary was stamped with a version.
func (i Info) IsRelease() bool {
	return i.Version != "" && i.Version != "dev"
}

// String formats the stamp on one line.
func (i Info) String() string {
	return fmt.Sprintf("%s (%s, %s)", i.Version, i.Commit, i.Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + Get().String() + "\n"
}

// CacheScope returns the key prefix that separates cache entries written by
// different releases. Development builds share one scope.
func CacheScope() string {
	i := Get()
	if !i.IsRelease() {
		return "dev:"
	}
	return strings.TrimPrefix(i.Version, "v") + ":"
}
