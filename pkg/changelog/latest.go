package changelog

import (
	"regexp"
	"strings"
)

// NoHeading is the HeaderOffset reported when no release heading was found.
const NoHeading = -1

// HeadingPolicy controls what ExtractLatestVersion does when the first
// release heading does not carry a valid version.
type HeadingPolicy int

const (
	// FirstHeadingOnly inspects only the first "## " heading. An invalid
	// version there is reported as a parse failure.
	FirstHeadingOnly HeadingPolicy = iota
	// SkipInvalidHeadings keeps scanning past headings whose version does
	// not parse, and reports the first one that does.
	SkipInvalidHeadings
)

// EmptyVersionPolicy controls how a heading with no version text at all
// (e.g. "## ") is interpreted.
type EmptyVersionPolicy int

const (
	// EmptyIsInvalid treats an empty heading as a parse failure.
	EmptyIsInvalid EmptyVersionPolicy = iota
	// EmptyIsInitial treats an empty heading as version 0.0.0.
	EmptyIsInitial
)

// ExtractOptions tunes ExtractLatestVersion. The zero value is the strict
// default: first heading only, empty headings are invalid.
type ExtractOptions struct {
	Headings     HeadingPolicy
	EmptyVersion EmptyVersionPolicy
}

// ParseResult is the outcome of ExtractLatestVersion.
//
// Previous is nil only when a release heading was found but its version did
// not parse. When no heading exists at all, Previous is 0.0.0 and
// HeaderOffset is NoHeading.
type ParseResult struct {
	Previous     *Version
	HeaderOffset int
}

// Found reports whether a release heading was located.
func (r ParseResult) Found() bool {
	return r.HeaderOffset != NoHeading
}

// Valid reports whether a usable previous version was extracted.
func (r ParseResult) Valid() bool {
	return r.Previous != nil
}

const semverSuffix = `(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?`

var (
	// releaseHeadingPattern matches "## 1.2.3", "## 1.2.3-beta.1+build.7" and
	// ranges like "## 1.2.0 – 1.2.3", capturing the later triple only.
	releaseHeadingPattern = regexp.MustCompile(
		`^##[ \t]+(?:\d+\.\d+\.\d+` + semverSuffix + `[ \t]*[-–—][ \t]*)?` +
			`(\d+)\.(\d+)\.(\d+)` + semverSuffix + `[ \t]*$`)

	emptyHeadingPattern = regexp.MustCompile(`^##[ \t]*$`)
)

// ExtractLatestVersion finds the first release heading in text and returns
// the version it announces. text is normally everything after the
// "## Upcoming" marker.
func ExtractLatestVersion(text string, opts ExtractOptions) ParseResult {
	from := 0
	for {
		offset := findHeading(text, from)
		if offset < 0 {
			return ParseResult{Previous: &Version{}, HeaderOffset: NoHeading}
		}

		line := lineAt(text, offset)
		if version, ok := parseHeadingLine(line, opts.EmptyVersion); ok {
			return ParseResult{Previous: &version, HeaderOffset: offset}
		}

		if opts.Headings != SkipInvalidHeadings {
			return ParseResult{HeaderOffset: offset}
		}

		from = offset + len(line)
	}
}

// findHeading returns the offset of the first "##" that starts a line at or
// after from and is followed by a space or tab, or -1.
func findHeading(text string, from int) int {
	if from == 0 && isHeadingStart(text, 0) {
		return 0
	}

	for from < len(text) {
		idx := strings.Index(text[from:], "\n##")
		if idx < 0 {
			return -1
		}

		start := from + idx + 1
		if isHeadingStart(text, start) {
			return start
		}
		from = start
	}

	return -1
}

func isHeadingStart(text string, pos int) bool {
	if !strings.HasPrefix(text[pos:], "##") || len(text) <= pos+2 {
		return false
	}
	next := text[pos+2]

	return next == ' ' || next == '\t'
}

// lineAt returns the line starting at offset, without its line terminator.
func lineAt(text string, offset int) string {
	line := text[offset:]
	if end := strings.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}

	return strings.TrimSuffix(line, "\r")
}

func parseHeadingLine(line string, emptyPolicy EmptyVersionPolicy) (Version, bool) {
	if emptyHeadingPattern.MatchString(line) {
		return Version{}, emptyPolicy == EmptyIsInitial
	}

	matches := releaseHeadingPattern.FindStringSubmatch(line)
	if matches == nil {
		return Version{}, false
	}

	version, err := versionFromStrings(matches[1], matches[2], matches[3])
	if err != nil {
		return Version{}, false
	}

	return version, true
}
