// Package version exposes the daemon's build version.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version and Commit can be set at build time via ldflags:
//
//	go build -ldflags="-X github.com/akschmitt/hued/internal/version.Version=v1.2.3 \
//	                   -X github.com/akschmitt/hued/internal/version.Commit=abc123"
//
// When unset they fall back to VCS info from the Go build info, or "dev".
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		populateFromBuildInfo()
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

func populateFromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	var revision, modified string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		}
	}

	if Commit == "" && revision != "" {
		if len(revision) > 7 {
			revision = revision[:7]
		}
		Commit = revision
		if modified == "true" {
			Commit += "-dirty"
		}
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
