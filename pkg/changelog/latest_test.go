package changelog

import (
	"reflect"
	"strconv"
	"testing"
)

func ver(major, minor, patch int) *Version {
	return &Version{Major: major, Minor: minor, Patch: patch}
}

func TestExtractLatestVersion(t *testing.T) {
	const upcoming = "- feat: New features\n- fix: Bugfix\n\n"

	tests := []struct {
		name  string
		input string
		opts  ExtractOptions
		want  ParseResult
	}{
		{
			name:  "no heading",
			input: "- feat: Initial release\n",
			want:  ParseResult{Previous: ver(0, 0, 0), HeaderOffset: NoHeading},
		},
		{
			name:  "empty changelog",
			input: "",
			want:  ParseResult{Previous: ver(0, 0, 0), HeaderOffset: NoHeading},
		},
		{
			name:  "empty heading is invalid by default",
			input: "## \n- feat: Something\n",
			want:  ParseResult{Previous: nil, HeaderOffset: 0},
		},
		{
			name:  "empty heading as initial release",
			input: "## \n- feat: Something\n",
			opts:  ExtractOptions{EmptyVersion: EmptyIsInitial},
			want:  ParseResult{Previous: ver(0, 0, 0), HeaderOffset: 0},
		},
		{
			name:  "simple heading",
			input: "##  1.23.456 \n- feat: Something\n",
			want:  ParseResult{Previous: ver(1, 23, 456), HeaderOffset: 0},
		},
		{
			name:  "simple heading after some text",
			input: upcoming + "##  1.23.456 \n- feat: Something\n",
			want:  ParseResult{Previous: ver(1, 23, 456), HeaderOffset: len(upcoming)},
		},
		{
			name:  "later version of a hyphen range",
			input: "## 1.23.456 -  1.23.567 \n- feat: Something\n",
			want:  ParseResult{Previous: ver(1, 23, 567), HeaderOffset: 0},
		},
		{
			name:  "later version of a range after some text",
			input: upcoming + "## 1.23.456 -  1.23.567 \n- feat: Something\n",
			want:  ParseResult{Previous: ver(1, 23, 567), HeaderOffset: len(upcoming)},
		},
		{
			name:  "en dash range",
			input: "##  1.23.456 – 1.23.567 \n- feat: Something\n",
			want:  ParseResult{Previous: ver(1, 23, 567), HeaderOffset: 0},
		},
		{
			name:  "em dash range",
			input: "##  1.23.456 — 1.23.567 \n- feat: Something\n",
			want:  ParseResult{Previous: ver(1, 23, 567), HeaderOffset: 0},
		},
		{
			name:  "range without spaces",
			input: "## 1.23.456—1.23.567\n- feat: Something\n",
			want:  ParseResult{Previous: ver(1, 23, 567), HeaderOffset: 0},
		},
		{
			name:  "hyphen range without spaces",
			input: "## 1.23.456-1.23.567\n",
			want:  ParseResult{Previous: ver(1, 23, 567), HeaderOffset: 0},
		},
		{
			name:  "only the first heading is inspected",
			input: "## Surprise!!\n\nWat!?\n\n## 1.0.0\n\n- feat: Something\n",
			want:  ParseResult{Previous: nil, HeaderOffset: 0},
		},
		{
			name:  "skip policy looks past invalid headings",
			input: "## Surprise!!\n\nWat!?\n\n## 1.0.0\n\n- feat: Something\n",
			opts:  ExtractOptions{Headings: SkipInvalidHeadings},
			want:  ParseResult{Previous: ver(1, 0, 0), HeaderOffset: 22},
		},
		{
			name:  "skip policy with no valid heading",
			input: "## nope\n\n## also nope\n",
			opts:  ExtractOptions{Headings: SkipInvalidHeadings},
			want:  ParseResult{Previous: ver(0, 0, 0), HeaderOffset: NoHeading},
		},
		{
			name:  "spaces inside a version are invalid",
			input: "## 1. 0.0\n\n- feat: Something\n",
			want:  ParseResult{Previous: nil, HeaderOffset: 0},
		},
		{
			name:  "missing component is invalid",
			input: "## 1.2\n",
			want:  ParseResult{Previous: nil, HeaderOffset: 0},
		},
		{
			name:  "pre-release suffix is stripped",
			input: "## 1.0.0-beta.1\n\n- feat: Something\n",
			want:  ParseResult{Previous: ver(1, 0, 0), HeaderOffset: 0},
		},
		{
			name:  "pre-release range",
			input: "## 1.0.0-beta.1+build1 – 1.0.77-beta.3\n\n- feat: Something\n",
			want:  ParseResult{Previous: ver(1, 0, 77), HeaderOffset: 0},
		},
		{
			name:  "build metadata is ignored",
			input: "## 1.0.0+build-123\n\n- feat: Something\n",
			want:  ParseResult{Previous: ver(1, 0, 0), HeaderOffset: 0},
		},
		{
			name:  "build metadata in a range",
			input: "## 1.0.0+build-1 – 1.0.77+build-3\n\n- feat: Something\n",
			want:  ParseResult{Previous: ver(1, 0, 77), HeaderOffset: 0},
		},
		{
			name:  "hashes mid-line are not headings",
			input: "Some text ## 1.2.3\n",
			want:  ParseResult{Previous: ver(0, 0, 0), HeaderOffset: NoHeading},
		},
		{
			name:  "level three headings are not release headings",
			input: "### Added\n## 2.0.0\n",
			want:  ParseResult{Previous: ver(2, 0, 0), HeaderOffset: 10},
		},
		{
			name:  "CRLF line endings",
			input: "## 1.2.3\r\n- fix: x\r\n",
			want:  ParseResult{Previous: ver(1, 2, 3), HeaderOffset: 0},
		},
		{
			name:  "heading at end of input",
			input: "text\n## 3.2.1",
			want:  ParseResult{Previous: ver(3, 2, 1), HeaderOffset: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractLatestVersion(tt.input, tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractLatestVersion() = %s, want %s", describe(got), describe(tt.want))
			}
		})
	}
}

func TestExtractLatestVersion_Idempotent(t *testing.T) {
	input := "- fix: Bugfix\n\n## 2.3.4 - 2.4.0\n\n- feat: Older\n"

	first := ExtractLatestVersion(input, ExtractOptions{})
	second := ExtractLatestVersion(input, ExtractOptions{})
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated calls differ: %s vs %s", describe(first), describe(second))
	}

	again := ExtractLatestVersion(input[first.HeaderOffset:], ExtractOptions{})
	if again.HeaderOffset != 0 || *again.Previous != *first.Previous {
		t.Errorf("re-extracting from the heading = %s, want %v at 0", describe(again), first.Previous)
	}
}

func describe(r ParseResult) string {
	if r.Previous == nil {
		return "{<invalid> @" + strconv.Itoa(r.HeaderOffset) + "}"
	}
	return "{" + r.Previous.String() + " @" + strconv.Itoa(r.HeaderOffset) + "}"
}
