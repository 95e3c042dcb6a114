// Package version provides build and version information for forc.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Version is the forc release, set via ldflags:
//
//	-X github.com/swaylang/forc/pkg/version.Version=$(VERSION)
//
// Builds without ldflags report "dev".
var Version = "dev"

// Build information set via ldflags at build time.
var (
	Commit = "unknown"
	Date   = "unknown"

	// GoVersion is the Go version used to build the binary.
	GoVersion = runtime.Version()
)

// DevStdRef is the std library ref used by builds that are not releases.
const DevStdRef = "master"

// BuildInfo is structured version information for JSON output.
type BuildInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"git_tag,omitempty"`
	StdRef    string `json:"std_ref"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GitTag returns the release tag of this build, e.g. "v0.18.1", or "" when
// Version is not a release version.
func GitTag() string {
	if _, err := semver.StrictNewVersion(Version); err != nil {
		return ""
	}
	return "v" + Version
}

// StdRef returns the git ref the implicit std dependency is fetched at:
// the release tag, or DevStdRef for development builds.
func StdRef() string {
	if tag := GitTag(); tag != "" {
		return tag
	}
	return DevStdRef
}

// String returns the one-line version banner.
func String() string {
	return fmt.Sprintf("forc %s (std: %s, commit: %s, built: %s, go: %s)",
		Version, StdRef(), Commit, Date, GoVersion)
}

// Short returns just the version string.
func Short() string {
	return Version
}

// GetInfo returns structured version information.
func GetInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		GitTag:    GitTag(),
		StdRef:    StdRef(),
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
