package changelog

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNothingToRelease is returned when the unreleased section has no
// bullets that warrant a version bump. It is not a failure.
var ErrNothingToRelease = errors.New("no significant unreleased updates found")

// PromoteFunc decides whether a breaking change on an unstable 0.x version
// should promote the package to 1.0.0.
type PromoteFunc func() (bool, error)

// NextOptions tunes ComputeNextVersion.
type NextOptions struct {
	// ZeroMajorUnstable treats 0.x versions as pre-stable: breaking changes
	// bump the minor number and everything else bumps the patch number.
	ZeroMajorUnstable bool

	// Promote is consulted when ZeroMajorUnstable is set and a 0.x version
	// would get a breaking bump. A nil Promote means "no".
	Promote PromoteFunc
}

// ComputeNextVersion derives the next version from the previous one and the
// kinds of the unreleased bullets.
//
// An initial release (0.0.0) or any breaking bullet bumps the major number,
// any feature bumps the minor number, and anything else bumps the patch
// number. ErrNothingToRelease is returned when kinds is empty.
func ComputeNextVersion(prev Version, kinds []UpdateKind, opts NextOptions) (Version, error) {
	if len(kinds) == 0 {
		return Version{}, ErrNothingToRelease
	}

	breaking := prev.IsZero() || slices.Contains(kinds, KindBreaking)
	feature := slices.Contains(kinds, KindFeature)

	if opts.ZeroMajorUnstable && prev.Major == 0 {
		return nextUnstable(prev, breaking, opts.Promote)
	}

	switch {
	case breaking:
		return prev.BumpMajor(), nil
	case feature:
		return prev.BumpMinor(), nil
	default:
		return prev.BumpPatch(), nil
	}
}

func nextUnstable(prev Version, breaking bool, promote PromoteFunc) (Version, error) {
	if !breaking {
		return prev.BumpPatch(), nil
	}

	if promote != nil {
		yes, err := promote()
		if err != nil {
			return Version{}, fmt.Errorf("deciding on 1.0.0 promotion: %w", err)
		}
		if yes {
			return Version{Major: 1}, nil
		}
	}

	return prev.BumpMinor(), nil
}
