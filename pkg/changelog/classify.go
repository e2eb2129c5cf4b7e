package changelog

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

//go:generate go tool stringer -type=UpdateKind -trimprefix=Kind

// UpdateKind is the category of a changelog bullet, derived from its prefix.
type UpdateKind int

const (
	KindUnrecognized UpdateKind = iota
	KindBreaking
	KindFeature
	KindFix
	KindDocs
	KindPerf
)

// ClassifyOptions tunes ClassifyUpdateBullets.
type ClassifyOptions struct {
	// Strict additionally recognizes "perf:" bullets as KindPerf.
	Strict bool
}

var bulletSplitPattern = regexp.MustCompile(`(?:^|\n[ \t]*)- `)

// ClassifyUpdateBullets splits the unreleased section into "- " bullets and
// returns the kind of every bullet with a recognized prefix, in order.
func ClassifyUpdateBullets(section string, opts ClassifyOptions) []UpdateKind {
	bullets := bulletSplitPattern.Split(strings.TrimSpace(section), -1)

	return lo.FilterMap(bullets, func(bullet string, _ int) (UpdateKind, bool) {
		kind := classifyBullet(strings.TrimSpace(bullet), opts)
		return kind, kind != KindUnrecognized
	})
}

func classifyBullet(bullet string, opts ClassifyOptions) UpdateKind {
	switch {
	case strings.HasPrefix(bullet, "**BREAKING**"):
		return KindBreaking
	case strings.HasPrefix(bullet, "feat:"):
		return KindFeature
	case strings.HasPrefix(bullet, "fix:"):
		return KindFix
	case strings.HasPrefix(bullet, "docs:"):
		return KindDocs
	case opts.Strict && strings.HasPrefix(bullet, "perf:"):
		return KindPerf
	default:
		return KindUnrecognized
	}
}
