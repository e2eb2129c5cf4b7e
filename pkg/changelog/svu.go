package changelog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/caarlos0/svu/v3/pkg/svu"
)

// ErrEmptyVersion is returned when svu returns an empty version.
var ErrEmptyVersion = errors.New("svu returned empty version")

// chdirMu serializes svu runs, which read git in the process working directory.
var chdirMu sync.Mutex

// GitSuggestion returns the latest tagged version and the version svu
// derives from the conventional commits since that tag, both read from the
// git repository at dir. The working directory is switched to dir while svu
// runs.
func GitSuggestion(dir string) (Version, Version, error) {
	chdirMu.Lock()
	defer chdirMu.Unlock()

	if dir != "" && dir != "." {
		prev, err := os.Getwd()
		if err != nil {
			return Version{}, Version{}, err
		}
		if err := os.Chdir(dir); err != nil {
			return Version{}, Version{}, err
		}
		defer func() { _ = os.Chdir(prev) }()
	}

	current, err := svuVersion("svu.Current", svu.Current)
	if err != nil {
		return Version{}, Version{}, err
	}
	next, err := svuVersion("svu.Next", svu.Next, svu.Always())
	if err != nil {
		return Version{}, Version{}, err
	}

	return current, next, nil
}

func svuVersion(name string, fn func(...svu.Option) (string, error), opts ...svu.Option) (Version, error) {
	out, err := fn(opts...)
	if err != nil {
		return Version{}, fmt.Errorf("%s: %w", name, err)
	}

	raw := strings.TrimPrefix(strings.TrimSpace(out), "v")
	if raw == "" {
		return Version{}, fmt.Errorf("%s: %w", name, ErrEmptyVersion)
	}
	parsed, err := semver.StrictNewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("%s: %w", name, err)
	}

	return Version{Major: int(parsed.Major()), Minor: int(parsed.Minor()), Patch: int(parsed.Patch())}, nil
}

// CrossCheck compares next against the git suggestion for the repository
// at dir. Pre-release and build suffixes on next are ignored. The expected
// version is returned for logging either way.
func CrossCheck(dir string, next Version, zeroMajorUnstable bool) (bool, string, error) {
	current, suggested, err := GitSuggestion(dir)
	if err != nil {
		return false, "", err
	}

	agrees, expected := compareSuggestion(current, suggested, next, zeroMajorUnstable)
	return agrees, expected, nil
}

// compareSuggestion maps svu's bump from current to suggested onto the
// rules of ComputeNextVersion. Under zeroMajorUnstable on 0.x a breaking
// change or an untagged repository becomes a minor bump (or a promotion to
// 1.0.0) and a feature becomes a patch bump.
func compareSuggestion(current, suggested, next Version, zeroMajorUnstable bool) (bool, string) {
	if !zeroMajorUnstable || current.Major != 0 {
		return suggested == next, suggested.String()
	}

	switch {
	case suggested.Major > current.Major || current.IsZero():
		minor := current.BumpMinor()
		promoted := Version{Major: 1}
		if next == promoted {
			return true, promoted.String()
		}
		return next == minor, minor.String()
	default:
		patch := current.BumpPatch()
		return next == patch, patch.String()
	}
}
