// Package vars holds build-time variables populated via the linker (ldflags).
package vars

import (
	"fmt"
	"os"
	"time"
)

// License of the project
const License = "MIT"

var (
	// Name of the project
	Name = "sampstat"

	// Version of application (git tag) semver/tag, e.g. v1.2.3
	Version = "dev"

	// Commit is the current git commit, full or short git SHA
	Commit = "unknown"

	// BuildTime is the time of start build app, RFC3339 UTC
	BuildTime = time.Unix(0, 0)

	// URL to repository (https)
	URL = "https://github.com/sampstat/sampstat"

	_buildTime string
)

// BuildInfo exposes safe build metadata to the API.
type BuildInfo struct {
	// betteralign:ignore

	// Project name
	Name string `json:"name" example:"sampstat"`

	// Version of application (git tag) semver/tag, e.g. v1.2.3
	Version string `json:"version" example:"v1.2.3"`

	// Current git commit, full or short git SHA
	Commit string `json:"commit,omitempty" example:"da15c17"`

	// Time of start build app, RFC3339 UTC
	BuildTime time.Time `json:"build_time,omitempty" example:"1970-01-01T00:00:00Z"`

	// URL to repository (https)
	URL string `json:"url,omitempty" example:"https://github.com/sampstat/sampstat"`

	// License
	License string `json:"license,omitempty" example:"MIT"`
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

// Print writes the build information to the standard output.
func Print() {
	fmt.Printf(`name:    %s
url:     %s
file:    %s
version: %s
commit:  %s
built:   %s
license: %s
`, Name, URL, os.Args[0], Version, Commit, BuildTime, License)
}

// Info returns the build metadata.
func Info() BuildInfo {
	return BuildInfo{
		Name:      Name,
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		URL:       URL,
		License:   License,
	}
}
