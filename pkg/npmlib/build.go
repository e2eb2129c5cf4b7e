// Package npmlib builds a TypeScript package into a publishable npm library
// folder with CommonJS and ES module outputs.
package npmlib

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maranomynet/libtools/internal/dryrun"
	"github.com/maranomynet/libtools/internal/log"
	"github.com/maranomynet/libtools/internal/parallelism"
	"github.com/maranomynet/libtools/pkg/manifest"
	"github.com/maranomynet/libtools/pkg/runner"
	"github.com/maranomynet/libtools/pkg/sh"
)

// DefaultDistDir is the folder the library is built into and published from.
const DefaultDistDir = "_npm-lib"

// DefaultSrcDir is the folder the entry points live in.
const DefaultSrcDir = "src"

// ModuleType selects which module formats are built.
type ModuleType string

// Module types.
const (
	Both     ModuleType = "both"
	CommonJS ModuleType = "commonjs"
	ESM      ModuleType = "esm"
)

// ErrInvalidModuleType is returned for module types other than both,
// commonjs and esm.
var ErrInvalidModuleType = errors.New("invalid module type")

// ParseModuleType validates name. Empty means Both.
func ParseModuleType(name string) (ModuleType, error) {
	switch t := ModuleType(strings.ToLower(strings.TrimSpace(name))); t {
	case "":
		return Both, nil
	case Both, CommonJS, ESM:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q (want both, commonjs or esm)", ErrInvalidModuleType, name)
	}
}

func (t ModuleType) cjs() bool { return t != ESM }
func (t ModuleType) esm() bool { return t != CommonJS }

// PostProcessFunc rewrites an emitted .js file. fileName is relative to the
// dist folder and kind is CommonJS or ESM. Returning the contents unchanged
// leaves the file alone.
type PostProcessFunc func(contents, fileName string, kind ModuleType) (string, error)

// BuildOptions configures Build.
type BuildOptions struct {
	Root    string
	SrcDir  string
	DistDir string
	Runner  runner.Runner
	Type    ModuleType

	PkgJSONSuffix   string
	ReadmeSuffix    string
	ChangelogSuffix string

	PostProcess PostProcessFunc

	// Compile replaces the tsc invocation. module is "CommonJS" or
	// "NodeNext".
	Compile CompileFunc
}

// CompileFunc compiles the project described by tsConfigFile into outDir.
type CompileFunc func(ctx context.Context, tsConfigFile, module, outDir string) error

func (o *BuildOptions) withDefaults() {
	if o.Root == "" {
		o.Root = "."
	}
	if o.SrcDir == "" {
		o.SrcDir = DefaultSrcDir
	}
	if o.DistDir == "" {
		o.DistDir = DefaultDistDir
	}
	if o.Type == "" {
		o.Type = Both
	}
	if o.Runner == "" {
		o.Runner = runner.Detect(o.Root)
	}
}

// DistPath returns the absolute-or-root-relative dist folder.
func (o BuildOptions) DistPath() string {
	if filepath.IsAbs(o.DistDir) {
		return o.DistDir
	}
	return filepath.Join(o.Root, o.DistDir)
}

// Build compiles the entry points listed by tsconfig.build.json into the
// dist folder and writes the library manifest next to them.
func Build(ctx context.Context, opts BuildOptions) error {
	opts.withDefaults()
	started := time.Now()

	tsConfigFile := filepath.Join(opts.Root, BuildTSConfig)
	tsConfig, err := ReadTSConfig(tsConfigFile)
	if err != nil {
		return err
	}

	entryPoints, err := tsConfig.EntryPoints(opts.Root, opts.SrcDir)
	if err != nil {
		return err
	}
	slog.Debug("resolved entry points", slog.Any(log.Entries, entryPoints))

	dist := opts.DistPath()
	if err := sh.Rm(dist); err != nil {
		return err
	}

	if opts.Type.cjs() {
		if err := runTSC(ctx, opts, tsConfigFile, "CommonJS", dist); err != nil {
			return err
		}
	}
	if opts.Type.esm() {
		if err := runTSC(ctx, opts, tsConfigFile, "NodeNext", filepath.Join(dist, "esm")); err != nil {
			return err
		}
	}

	if err := copyDocs(opts, dist); err != nil {
		return err
	}

	if dryrun.IsDryRun() {
		slog.Info("dry run: skipping post-processing and manifest", log.Dir, dist)
		return nil
	}

	if opts.PostProcess != nil {
		if err := postProcess(ctx, dist, opts.Type, opts.PostProcess); err != nil {
			return err
		}
	}

	if err := finish(ctx, opts, dist, entryPoints); err != nil {
		return err
	}

	slog.Info("library built", log.Dir, dist, log.Module, string(opts.Type), log.Duration, time.Since(started).Round(time.Millisecond))

	return nil
}

func runTSC(ctx context.Context, opts BuildOptions, tsConfigFile, module, outDir string) error {
	if opts.Compile != nil {
		return opts.Compile(ctx, tsConfigFile, module, outDir)
	}

	cmd, args := opts.Runner.BinCommand("tsc", "--project", tsConfigFile, "--module", module, "--outDir", outDir)
	if err := sh.RunVIn(ctx, opts.Root, cmd, args...); err != nil {
		return fmt.Errorf("tsc (%s): %w", module, err)
	}

	return nil
}

func copyDocs(opts BuildOptions, dist string) error {
	docs := []struct{ src, dst string }{
		{"README" + opts.ReadmeSuffix + ".md", "README.md"},
		{"CHANGELOG" + opts.ChangelogSuffix + ".md", "CHANGELOG.md"},
	}
	for _, doc := range docs {
		if err := sh.Copy(filepath.Join(dist, doc.dst), filepath.Join(opts.Root, doc.src)); err != nil {
			return err
		}
	}

	return nil
}

func postProcess(ctx context.Context, dist string, moduleType ModuleType, fn PostProcessFunc) error {
	var files []string
	err := filepath.WalkDir(dist, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".js") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("listing built files: %w", err)
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(jobLimit())
	for _, path := range files {
		g.Go(func() error {
			rel, err := filepath.Rel(dist, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			kind := moduleType
			if kind == Both {
				kind = CommonJS
				if strings.HasPrefix(rel, "esm/") {
					kind = ESM
				}
			}

			old, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			updated, err := fn(string(old), rel, kind)
			if err != nil {
				return fmt.Errorf("post-processing %s: %w", rel, err)
			}
			if updated == string(old) {
				return nil
			}

			return sh.WriteFile(path, []byte(updated))
		})
	}

	return g.Wait()
}

func jobLimit() int {
	n, err := parallelism.Limit()
	if err != nil {
		slog.Warn("ignoring job limit", log.Error, err)
	}
	return n
}

func finish(ctx context.Context, opts BuildOptions, dist string, entryPoints []string) error {
	g, _ := errgroup.WithContext(ctx)

	if opts.Type.cjs() {
		g.Go(func() error { return addReferencePaths(entryPoints, dist) })
	}
	if opts.Type.esm() {
		g.Go(func() error { return addReferencePaths(entryPoints, filepath.Join(dist, "esm")) })
		g.Go(func() error {
			return sh.WriteFile(filepath.Join(dist, "esm", "package.json"), []byte(`{"type":"module"}`))
		})
	}
	g.Go(func() error { return writeLibManifest(opts, dist, entryPoints) })

	return g.Wait()
}

func writeLibManifest(opts BuildOptions, dist string, entryPoints []string) error {
	src, err := manifest.Read(filepath.Join(opts.Root, "package"+opts.PkgJSONSuffix+".json"))
	if err != nil {
		return err
	}

	lib, err := manifest.MakeLibManifest(src.Object, entryPoints)
	if err != nil {
		return err
	}

	data, err := lib.Indent("\t")
	if err != nil {
		return err
	}

	return sh.WriteFile(filepath.Join(dist, "package.json"), data)
}
