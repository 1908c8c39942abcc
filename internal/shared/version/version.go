// Package version exposes the build version of the binary.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/gorodok-inc/gorodok/internal/shared/version.Version=1.4.0"
var (
	Version = "dev"
	Commit  = ""
)

// Normalize adds the "v" prefix expected by semver.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// IsRelease reports whether v is a valid semantic version.
func IsRelease(v string) bool {
	return semver.IsValid(Normalize(v))
}

// Current returns the canonical build version, or "dev" for unversioned builds.
func Current() string {
	if !IsRelease(Version) {
		return "dev"
	}
	return semver.Canonical(Normalize(Version))
}

// Resolve picks the configured version when it is a valid semver and falls
// back to the build version otherwise.
func Resolve(configured string) string {
	if IsRelease(configured) {
		return semver.Canonical(Normalize(configured))
	}
	return Current()
}

// String renders the version line printed by the CLI.
func String() string {
	if Commit == "" {
		return Current()
	}
	return Current() + " (" + Commit + ")"
}
