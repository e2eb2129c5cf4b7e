package checking

import (
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// RootTSConfig is always type-checked first.
const RootTSConfig = "./tsconfig.json"

var (
	leadingDotSlashes = regexp.MustCompile(`(?:\./+)+`)
	innerDotSegments  = regexp.MustCompile(`/\./`)
	doubledConfigName = regexp.MustCompile(`\.json/tsconfig\.json$`)
	repeatedSlashes   = regexp.MustCompile(`/{2,}`)
)

// NormalizeTSConfigPaths turns a list of directories or .json files into
// "./"-prefixed tsconfig paths. RootTSConfig comes first, and the rest are
// sorted with duplicates removed.
func NormalizeTSConfigPaths(paths []string) []string {
	rest := lo.Map(paths, func(path string, _ int) string {
		return normalizeTSConfigPath(path)
	})
	rest = lo.Filter(rest, func(path string, _ int) bool {
		return path != RootTSConfig
	})
	slices.Sort(rest)

	return append([]string{RootTSConfig}, lo.Uniq(rest)...)
}

func normalizeTSConfigPath(path string) string {
	p := replaceFirst(leadingDotSlashes, strings.TrimSpace(path)+"/tsconfig.json", "")
	p = "./" + p
	p = innerDotSegments.ReplaceAllString(p, "/")
	p = doubledConfigName.ReplaceAllString(p, ".json")

	return replaceFirst(repeatedSlashes, p, "/")
}

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}
