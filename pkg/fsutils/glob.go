package fsutils

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

// CompilePattern compiles a "/"-separated glob. Patterns containing "**/"
// also match with that segment absent, so "src/**/*.ts" covers "src/a.ts".
func CompilePattern(pattern string) ([]glob.Glob, error) {
	variants := []string{strings.TrimPrefix(pattern, "./")}
	if strings.Contains(variants[0], "**/") {
		variants = append(variants, strings.ReplaceAll(variants[0], "**/", ""))
	}

	globs := make([]glob.Glob, 0, len(variants))
	for _, v := range variants {
		g, err := glob.Compile(v, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}

	return globs, nil
}

// Glob returns the files under root matching any include pattern and no
// exclude pattern, as sorted "/"-separated paths relative to root.
// node_modules and dot-directories are skipped.
func Glob(root string, include, exclude []string) ([]string, error) {
	includes, err := CompilePatterns(include)
	if err != nil {
		return nil, err
	}
	excludes, err := CompilePatterns(exclude)
	if err != nil {
		return nil, err
	}

	matchAny := func(globs []glob.Glob, rel string) bool {
		return lo.SomeBy(globs, func(g glob.Glob) bool { return g.Match(rel) })
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && (d.Name() == "node_modules" || strings.HasPrefix(d.Name(), ".") || matchAny(excludes, rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchAny(includes, rel) && !matchAny(excludes, rel) {
			files = append(files, rel)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("expanding globs in %s: %w", root, err)
	}

	slices.Sort(files)

	return files, nil
}

// CompilePatterns compiles every pattern with CompilePattern.
func CompilePatterns(patterns []string) ([]glob.Glob, error) {
	var all []glob.Glob
	for _, p := range patterns {
		globs, err := CompilePattern(p)
		if err != nil {
			return nil, err
		}
		all = append(all, globs...)
	}

	return all, nil
}
