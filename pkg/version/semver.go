package version

import (
	"github.com/Masterminds/semver/v3"
)

var (
	parsedVersion  *semver.Version
	parseAttempted bool
)

// resetParsedVersion clears the cached parsed version for testing.
func resetParsedVersion() {
	parsedVersion = nil
	parseAttempted = false
}

// Parsed returns the parsed semantic version, or nil if unparseable.
// This is computed lazily on first call and cached.
func Parsed() *semver.Version {
	if parsedVersion != nil || parseAttempted {
		return parsedVersion
	}
	parseAttempted = true

	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil
	}
	parsedVersion = v
	return parsedVersion
}

// IsDevBuild returns true if this is a development build (no valid semver).
func IsDevBuild() bool {
	return Parsed() == nil
}

// CanRead reports whether a backup written by docVersion can be imported by
// this build. Dev builds and unversioned documents are always accepted; a
// document from a newer major version is refused.
func CanRead(docVersion string) bool {
	current := Parsed()
	if current == nil || docVersion == "" {
		return true
	}

	doc, err := semver.NewVersion(docVersion)
	if err != nil {
		// Dev-built exports carry "dev".
		return true
	}

	return doc.Major() <= current.Major()
}
