// Package changelog reads release information out of a CHANGELOG.md and
// derives the next semantic version from its "Upcoming" bullets.
//
// The changelog is expected to start with an "## Upcoming" (or
// "## Unreleased") marker, followed by conventional bullets such as
// "- feat: ..." and then zero or more "## X.Y.Z" release headings.
package changelog

import (
	"fmt"
	"strconv"
)

// Version is a major/minor/patch triple. Pre-release and build suffixes are
// never part of it.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String renders the version as "X.Y.Z".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsZero reports whether v is 0.0.0, which marks an initial release.
func (v Version) IsZero() bool {
	return v == Version{}
}

// BumpMajor returns (major+1).0.0.
func (v Version) BumpMajor() Version {
	return Version{Major: v.Major + 1}
}

// BumpMinor returns major.(minor+1).0.
func (v Version) BumpMinor() Version {
	return Version{Major: v.Major, Minor: v.Minor + 1}
}

// BumpPatch returns major.minor.(patch+1).
func (v Version) BumpPatch() Version {
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
}

func versionFromStrings(major, minor, patch string) (Version, error) {
	parts := [3]int{}
	for i, s := range [3]string{major, minor, patch} {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version component %q: %w", s, err)
		}
		parts[i] = n
	}

	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}
