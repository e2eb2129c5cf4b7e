package changelog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// AddNewLinesMarker is the placeholder bullet that new entries are added
// below. Release headings are inserted right after it.
const AddNewLinesMarker = "- ... <!-- Add new lines here. -->"

const releaseDateLayout = "2006-01-02"

var (
	// ErrNoUpcomingSection is returned when the changelog lacks an
	// "## Upcoming" or "## Unreleased" marker.
	ErrNoUpcomingSection = errors.New(`could not find "## Upcoming" or "## Unreleased" header`)

	// ErrNoValidPreviousVersion is returned when the latest release heading
	// does not contain a parseable version.
	ErrNoValidPreviousVersion = errors.New("no valid previous version found")

	// ErrAborted is returned when the operator declines a confirmation.
	ErrAborted = errors.New("aborted by user")

	// ErrInvalidPreReleaseName is returned for pre-release names with
	// characters outside [a-z0-9.-].
	ErrInvalidPreReleaseName = errors.New("invalid pre-release name")
)

var (
	upcomingPattern       = regexp.MustCompile(`(?i)## (?:Upcoming|Unreleased)\.{0,3}`)
	addNewLinesPattern    = regexp.MustCompile(`(?i)- \.\.\.(?: <!-- Add new lines here\.? -->)?`)
	preReleaseNamePattern = regexp.MustCompile(`^[a-z0-9.-]+$`)
)

// ReleaseOptions configures Release.
type ReleaseOptions struct {
	Extract  ExtractOptions
	Classify ClassifyOptions
	Next     NextOptions

	// PreReleaseName is appended to the new version as "-<name>".
	PreReleaseName string

	// ConfirmInitial is asked when no previous version exists. Returning
	// false aborts the release. A nil ConfirmInitial proceeds silently.
	ConfirmInitial func() (bool, error)

	// DayOffset shifts the release date into the future. It is only asked
	// once a release is known to happen. Nil means no shift.
	DayOffset func() (int, error)

	// Now defaults to time.Now.
	Now func() time.Time
}

// ReleaseResult describes a computed release and the rewritten changelog.
type ReleaseResult struct {
	OldVersion string
	NewVersion string
	Next       Version
	Kinds      []UpdateKind
	// Notes is the body of the unreleased section that becomes the release.
	Notes string
	// Date is the release date written under the new heading.
	Date string
	// Changelog is the full rewritten changelog text.
	Changelog string
}

// ValidatePreReleaseName checks that name can be used as a pre-release tag.
func ValidatePreReleaseName(name string) error {
	if name != "" && !preReleaseNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPreReleaseName, name)
	}

	return nil
}

// Release computes the next version from the changelog's unreleased
// section and returns the changelog with a new release heading inserted.
//
// ErrNothingToRelease is returned unwrapped when there is nothing to do.
func Release(text string, opts ReleaseOptions) (*ReleaseResult, error) {
	if err := ValidatePreReleaseName(opts.PreReleaseName); err != nil {
		return nil, err
	}

	upcoming := upcomingPattern.FindStringIndex(text)
	if upcoming == nil {
		return nil, ErrNoUpcomingSection
	}
	upcomingEnd := upcoming[1]
	rest := text[upcomingEnd:]

	parsed := ExtractLatestVersion(rest, opts.Extract)
	if !parsed.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrNoValidPreviousVersion, lineAt(rest, parsed.HeaderOffset))
	}
	prev := *parsed.Previous

	if prev.IsZero() && opts.ConfirmInitial != nil {
		initial, err := opts.ConfirmInitial()
		if err != nil {
			return nil, err
		}
		if !initial {
			return nil, ErrAborted
		}
	}

	sectionEnd := len(rest)
	if parsed.Found() {
		sectionEnd = parsed.HeaderOffset
	}
	section := rest[:sectionEnd]

	kinds := ClassifyUpdateBullets(section, opts.Classify)
	next, err := ComputeNextVersion(prev, kinds, opts.Next)
	if err != nil {
		return nil, err
	}

	newVersion := next.String()
	if opts.PreReleaseName != "" {
		newVersion += "-" + opts.PreReleaseName
	}

	insertAt := upcomingEnd
	markerMissing := true
	if loc := addNewLinesPattern.FindStringIndex(section); loc != nil {
		insertAt += loc[1]
		markerMissing = false
	}

	dayOffset := 0
	if opts.DayOffset != nil {
		dayOffset, err = opts.DayOffset()
		if err != nil {
			return nil, err
		}
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	date := now().UTC().AddDate(0, 0, dayOffset).Format(releaseDateLayout)

	var out strings.Builder
	out.WriteString(text[:insertAt])
	if markerMissing {
		out.WriteString("\n\n" + AddNewLinesMarker)
	}
	out.WriteString("\n\n## " + newVersion + "\n\n_" + date + "_\n\n")
	out.WriteString(strings.TrimLeft(text[insertAt:], " \t\r\n"))

	return &ReleaseResult{
		OldVersion: prev.String(),
		NewVersion: newVersion,
		Next:       next,
		Kinds:      kinds,
		Notes:      strings.TrimSpace(text[insertAt : upcomingEnd+sectionEnd]),
		Date:       date,
		Changelog:  out.String(),
	}, nil
}
