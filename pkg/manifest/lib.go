package manifest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// NpmPackageJSONKey holds overrides that are spread into the published
// manifest.
const NpmPackageJSONKey = "npmPackageJson"

var tsExtPattern = regexp.MustCompile(`\.tsx?$`)

// ExportTarget is one conditional export of the published manifest.
type ExportTarget struct {
	Import  string `json:"import"`
	Require string `json:"require"`
}

// EntryToken strips the TypeScript extension from an entry point path
// relative to the source folder.
func EntryToken(entryPoint string) string {
	return tsExtPattern.ReplaceAllString(entryPoint, "")
}

// MakeLibManifest derives the manifest that is published from the dist
// folder. The npmPackageJson object is spread into the root, null values are
// dropped, and "exports" is built from the entry points, skipping those that
// are also bins.
func MakeLibManifest(src *Object, entryPoints []string) (*Object, error) {
	lib := src.Clone()
	lib.Delete(NpmPackageJSONKey)

	if raw, ok := src.Raw(NpmPackageJSONKey); ok && !src.IsNull(NpmPackageJSONKey) {
		overrides := NewObject()
		if err := json.Unmarshal(raw, overrides); err != nil {
			return nil, fmt.Errorf("%s: %w", NpmPackageJSONKey, err)
		}
		for _, key := range overrides.Keys() {
			value, _ := overrides.Raw(key)
			lib.SetRaw(key, value)
		}
	}

	for _, key := range lib.Keys() {
		if lib.IsNull(key) {
			lib.Delete(key)
		}
	}

	bins, err := binPaths(lib)
	if err != nil {
		return nil, err
	}

	exports := NewObject()
	for _, file := range entryPoints {
		token := EntryToken(file)
		target := ExportTarget{
			Import:  "./esm/" + token + ".js",
			Require: "./" + token + ".js",
		}
		if lo.Contains(bins, target.Require) || lo.Contains(bins, target.Import) {
			continue
		}

		exportKey := "./" + token
		if token == "index" {
			exportKey = "."
		}
		if err := exports.Set(exportKey, target); err != nil {
			return nil, err
		}
	}
	exportsRaw, err := exports.MarshalJSON()
	if err != nil {
		return nil, err
	}
	lib.SetRaw("exports", exportsRaw)

	return lib, nil
}

// binPaths normalizes the "bin" field, string or object, to "./"-prefixed
// paths.
func binPaths(obj *Object) ([]string, error) {
	raw, ok := obj.Raw("bin")
	if !ok {
		return nil, nil
	}

	var paths []string
	if single, ok := obj.String("bin"); ok {
		paths = []string{single}
	} else {
		byName := NewObject()
		if err := json.Unmarshal(raw, byName); err != nil {
			return nil, fmt.Errorf("bin: %w", err)
		}
		paths = lo.FilterMap(byName.Keys(), func(name string, _ int) (string, bool) {
			return byName.String(name)
		})
	}

	return lo.Map(paths, func(p string, _ int) string {
		return "./" + strings.TrimPrefix(p, "./")
	}), nil
}
