package build

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// These variables are set at build time via -ldflags.
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// String returns a single human-readable build info string.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, CommitSHA, BuildDate)
}

// SemVer parses Version. Development builds such as "dev" return an error.
func SemVer() (*semver.Version, error) {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("build version %q is not semantic: %w", Version, err)
	}
	return v, nil
}

// IsRelease reports whether the binary was built from a stable release tag.
func IsRelease() bool {
	v, err := SemVer()
	return err == nil && v.Prerelease() == ""
}
