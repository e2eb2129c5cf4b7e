package npmlib

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/maranomynet/libtools/internal/log"
	"github.com/maranomynet/libtools/pkg/watch"
)

// Watch builds once and then rebuilds whenever a file under the source
// folder changes, until ctx is done. Changes inside the dist folder are
// ignored.
func Watch(ctx context.Context, opts BuildOptions) error {
	opts.withDefaults()

	if err := Build(ctx, opts); err != nil {
		slog.Error("initial build failed", log.Error, err)
	}

	distRel := opts.DistDir
	if filepath.IsAbs(distRel) {
		if rel, err := filepath.Rel(opts.Root, distRel); err == nil {
			distRel = rel
		}
	}

	w, err := watch.New(watch.Options{
		Root:     opts.Root,
		Patterns: []string{filepath.ToSlash(opts.SrcDir) + "/**", BuildTSConfig, "package" + opts.PkgJSONSuffix + ".json"},
		Ignore:   []string{filepath.ToSlash(distRel)},
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	slog.Info("watching for changes", log.Dir, opts.SrcDir)

	return w.Run(ctx, func(ctx context.Context) error {
		return Build(ctx, opts)
	})
}
