package npmlib

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/maranomynet/libtools/pkg/sh"
)

var (
	indexEntryPattern = regexp.MustCompile(`(?:^|/)index\.tsx?$`)
	tsSourcePattern   = regexp.MustCompile(`\.tsx?$`)
)

// declarationFile maps an entry point to the declaration file tsc emits.
func declarationFile(entry string) string {
	return tsSourcePattern.ReplaceAllString(entry, ".d.ts")
}

// referenceLines returns the triple-slash references that make the non-index
// entry points visible from the index declaration file.
func referenceLines(entryPoints []string) (string, []string) {
	index, found := lo.Find(entryPoints, indexEntryPattern.MatchString)
	if !found {
		return "", nil
	}

	refs := lo.FilterMap(entryPoints, func(entry string, _ int) (string, bool) {
		return `/// <reference path="./` + declarationFile(entry) + `" />`, entry != index
	})

	return index, refs
}

// addReferencePaths prepends reference lines to the index declaration file
// in distDir.
func addReferencePaths(entryPoints []string, distDir string) error {
	index, refs := referenceLines(entryPoints)
	if len(refs) == 0 {
		return nil
	}

	indexDecl := filepath.Join(distDir, filepath.FromSlash(declarationFile(index)))
	current, err := os.ReadFile(indexDecl)
	if err != nil {
		return fmt.Errorf("reading index declarations: %w", err)
	}

	return sh.WriteFile(indexDecl, []byte(strings.Join(refs, "\n")+"\n\n"+string(current)))
}
