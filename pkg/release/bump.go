// Package release ties the changelog, the manifest and the prompts together
// into a version bump.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maranomynet/libtools/internal/log"
	"github.com/maranomynet/libtools/pkg/changelog"
	"github.com/maranomynet/libtools/pkg/manifest"
	"github.com/maranomynet/libtools/pkg/prompt"
	"github.com/maranomynet/libtools/pkg/sh"
)

const (
	initialQuestion   = "No valid previous version number were found.\nAre you aiming for initial (0.0.0) release?"
	promoteQuestion   = "Should we bump to v1.0.0?"
	dateShiftQuestion = "Delay release date by how many days?"
)

// ErrAborted is returned when the operator rejects the new version.
var ErrAborted = changelog.ErrAborted

// BumpOptions configures Plan and Bump.
type BumpOptions struct {
	Root            string
	PkgJSONSuffix   string
	ChangelogSuffix string
	VersionKey      string

	PreReleaseName string
	OfferDateShift bool

	Extract           changelog.ExtractOptions
	Classify          changelog.ClassifyOptions
	ZeroMajorUnstable bool

	// VerifyGit cross-checks the new version with the conventional commits
	// in git. A mismatch is only logged.
	VerifyGit bool

	// Prompter defaults to prompt.Defaults.
	Prompter prompt.Prompter
	// Output receives the preview. Nil disables it.
	Output io.Writer
	// PlainPreview prints the preview without styling.
	PlainPreview bool

	// Now, WriteFile and CrossCheck are seams for tests.
	Now        func() time.Time
	WriteFile  func(path string, data []byte) error
	CrossCheck func(dir string, next changelog.Version, zeroMajorUnstable bool) (bool, string, error)
}

func (o BumpOptions) withDefaults() BumpOptions {
	if o.Root == "" {
		o.Root = "."
	}
	if o.VersionKey == "" {
		o.VersionKey = manifest.DefaultVersionKey
	}
	if o.Prompter == nil {
		o.Prompter = prompt.Defaults{}
	}
	if o.WriteFile == nil {
		o.WriteFile = sh.WriteFile
	}
	if o.CrossCheck == nil {
		o.CrossCheck = changelog.CrossCheck
	}
	return o
}

// PkgJSONPath returns the manifest file path.
func (o BumpOptions) PkgJSONPath() string {
	return filepath.Join(o.Root, "package"+o.PkgJSONSuffix+".json")
}

// ChangelogPath returns the changelog file path.
func (o BumpOptions) ChangelogPath() string {
	return filepath.Join(o.Root, "CHANGELOG"+o.ChangelogSuffix+".md")
}

// BumpResult describes a completed bump.
type BumpResult struct {
	*changelog.ReleaseResult
	// GitSuggestion is the version derived from git, when VerifyGit is set.
	GitSuggestion string
}

// Plan computes the release without confirming or writing anything.
func Plan(ctx context.Context, opts BumpOptions) (*changelog.ReleaseResult, error) {
	opts = opts.withDefaults()

	path := opts.ChangelogPath()
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}

	ask := opts.Prompter
	releaseOpts := changelog.ReleaseOptions{
		Extract:        opts.Extract,
		Classify:       opts.Classify,
		PreReleaseName: opts.PreReleaseName,
		Next: changelog.NextOptions{
			ZeroMajorUnstable: opts.ZeroMajorUnstable,
			Promote: func() (bool, error) {
				return ask.Confirm(ctx, promoteQuestion, false)
			},
		},
		ConfirmInitial: func() (bool, error) {
			return ask.Confirm(ctx, initialQuestion, false)
		},
		Now: opts.Now,
	}
	if opts.OfferDateShift {
		releaseOpts.DayOffset = func() (int, error) {
			return prompt.AskInt(ctx, ask, dateShiftQuestion, 0)
		}
	}

	result, err := changelog.Release(string(text), releaseOpts)
	if err != nil {
		if errors.Is(err, changelog.ErrNothingToRelease) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return result, nil
}

// Bump computes the next version, asks for confirmation, and writes the
// manifest and the changelog. changelog.ErrNothingToRelease is returned
// unwrapped when the changelog has no release-worthy bullets.
func Bump(ctx context.Context, opts BumpOptions) (*BumpResult, error) {
	opts = opts.withDefaults()

	pkgPath := opts.PkgJSONPath()
	pkg, err := manifest.Read(pkgPath)
	if err != nil {
		return nil, err
	}

	result, err := Plan(ctx, opts)
	if err != nil {
		return nil, err
	}
	bump := &BumpResult{ReleaseResult: result}
	slog.Debug("classified unreleased bullets", slog.Any(log.Kinds, result.Kinds))

	if opts.VerifyGit {
		agrees, suggestion, err := opts.CrossCheck(opts.Root, result.Next, opts.ZeroMajorUnstable)
		switch {
		case err != nil:
			slog.Warn("could not compare with git history", slog.Any(log.Error, err))
		case !agrees:
			slog.Warn("changelog and git history disagree on the next version",
				slog.String(log.Version, result.Next.String()), slog.String(log.Suggested, suggestion))
		}
		bump.GitSuggestion = suggestion
	}

	if opts.Output != nil {
		printPreview(opts.Output, result, opts.PlainPreview)
	}

	ok, err := opts.Prompter.Confirm(ctx, "New version: "+result.NewVersion+"\nIs this correct?", true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAborted
	}

	pkgData, err := pkg.WithVersion(opts.VersionKey, result.NewVersion)
	if err != nil {
		return nil, err
	}

	g := new(errgroup.Group)
	g.Go(func() error { return opts.WriteFile(pkgPath, pkgData) })
	g.Go(func() error { return opts.WriteFile(opts.ChangelogPath(), []byte(result.Changelog)) })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("writing release: %w", err)
	}

	slog.Info("version bumped",
		slog.String(log.Pkg, pkg.Name()),
		slog.String(log.Version, result.NewVersion),
		slog.String(log.Latest, result.OldVersion))

	return bump, nil
}
