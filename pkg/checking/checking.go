// Package checking runs the linters, formatters and type checker over a
// project's sources.
package checking

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/maranomynet/libtools/internal/log"
	"github.com/maranomynet/libtools/internal/parallelism"
	"github.com/maranomynet/libtools/pkg/runner"
	"github.com/maranomynet/libtools/pkg/sh"
)

const (
	sourceGlob = "**/*.{cjs,js,ts,tsx}"
	docsGlob   = "**/*.{json,md,yml,css,html}"
)

// RunFunc runs cmd with args in dir.
type RunFunc func(ctx context.Context, dir, cmd string, args ...string) error

// Options configures the checks.
type Options struct {
	Root   string
	Runner runner.Runner
	// ContinueOnError runs every step and joins the failures instead of
	// stopping at the first one.
	ContinueOnError bool
	// Run defaults to sh.RunVIn.
	Run RunFunc
}

func (o Options) withDefaults() Options {
	if o.Root == "" {
		o.Root = "."
	}
	if o.Runner == "" {
		o.Runner = runner.Detect(o.Root)
	}
	if o.Run == nil {
		o.Run = sh.RunVIn
	}
	return o
}

type lintFlags struct {
	autofix    bool
	silent     bool
	errorsOnly bool
}

func eslintArgs(f lintFlags) []string {
	var args []string
	if f.autofix {
		args = append(args, "--fix")
	}
	if f.silent {
		args = append(args, "-o", os.DevNull)
	}
	if f.errorsOnly {
		args = append(args, "--quiet")
	}
	return append(args, "--ignore-path", ".gitignore", sourceGlob)
}

func prettierArgs(f lintFlags) []string {
	args := []string{"--check"}
	if f.autofix {
		args[0] = "--write"
	}
	if f.silent || f.errorsOnly {
		args = append(args, "--loglevel=error")
	}
	return append(args, "--no-error-on-unmatched-pattern", "--ignore-path", ".gitignore", docsGlob)
}

func (o Options) bin(ctx context.Context, bin string, args ...string) error {
	cmd, full := o.Runner.BinCommand(bin, args...)
	return o.Run(ctx, o.Root, cmd, full...)
}

// steps runs fns in order. Without ContinueOnError the first failure stops
// the sequence.
func (o Options) steps(ctx context.Context, fns ...func(context.Context) error) error {
	var errs []error
	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			if !o.ContinueOnError {
				return err
			}
			slog.Error("check failed", slog.Any(log.Error, err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Lint reports every eslint and prettier finding. Failures are logged and
// never returned.
func Lint(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()
	opts.ContinueOnError = true
	err := opts.steps(ctx,
		func(ctx context.Context) error { return opts.bin(ctx, "eslint", eslintArgs(lintFlags{})...) },
		func(ctx context.Context) error { return opts.bin(ctx, "prettier", prettierArgs(lintFlags{})...) },
	)
	if err != nil {
		slog.Debug("lint reported problems", slog.Any(log.Error, err))
	}
	return nil
}

// ErrorCheck runs eslint for errors only and then the type checker over
// the root tsconfig.
func ErrorCheck(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()
	return opts.steps(ctx,
		func(ctx context.Context) error {
			return opts.bin(ctx, "eslint", eslintArgs(lintFlags{errorsOnly: true})...)
		},
		func(ctx context.Context) error {
			return opts.bin(ctx, "tsc", "--project", "tsconfig.json", "--noEmit", "--pretty", "--incremental", "false")
		},
	)
}

// Format auto-fixes what prettier and eslint can fix, quietly.
func Format(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()
	return opts.steps(ctx,
		func(ctx context.Context) error {
			return opts.bin(ctx, "prettier", prettierArgs(lintFlags{autofix: true, silent: true})...)
		},
		func(ctx context.Context) error {
			return opts.bin(ctx, "eslint", eslintArgs(lintFlags{autofix: true, silent: true})...)
		},
	)
}

// TypeCheck runs tsc over the root tsconfig and every one in tsconfigs in
// parallel.
func TypeCheck(ctx context.Context, opts Options, tsconfigs []string) error {
	opts = opts.withDefaults()
	paths := NormalizeTSConfigPaths(tsconfigs)

	check := func(ctx context.Context, path string) error {
		err := opts.bin(ctx, "tsc", "--project", path, "--noEmit", "--pretty", "--incremental", "false")
		if err != nil {
			slog.Error("type check failed", slog.String(log.Tsconfig, path), slog.Any(log.Error, err))
		}
		return err
	}

	limit, err := parallelism.Limit()
	if err != nil {
		slog.Warn("ignoring job limit", slog.Any(log.Error, err))
	}

	if opts.ContinueOnError {
		// no shared context: one failure must not cancel the others
		var (
			g    errgroup.Group
			mu   sync.Mutex
			errs []error
		)
		g.SetLimit(limit)
		for _, path := range paths {
			g.Go(func() error {
				if err := check(ctx, path); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
				return nil
			})
		}
		_ = g.Wait()
		return errors.Join(errs...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, path := range paths {
		g.Go(func() error { return check(gctx, path) })
	}
	return g.Wait()
}
