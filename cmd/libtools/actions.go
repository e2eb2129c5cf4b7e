package libtools

import (
	"context"

	"github.com/maranomynet/libtools/pkg/changelog"
	"github.com/maranomynet/libtools/pkg/checking"
	"github.com/maranomynet/libtools/pkg/npmlib"
	"github.com/maranomynet/libtools/pkg/publish"
	"github.com/maranomynet/libtools/pkg/release"
)

// actions are the operations behind the commands. Tests swap them out.
type actions struct {
	bump      func(context.Context, release.BumpOptions) (*release.BumpResult, error)
	plan      func(context.Context, release.BumpOptions) (*changelog.ReleaseResult, error)
	build     func(context.Context, npmlib.BuildOptions) error
	watch     func(context.Context, npmlib.BuildOptions) error
	publish   func(context.Context, publish.Options) error
	lint      func(context.Context, checking.Options) error
	check     func(context.Context, checking.Options) error
	format    func(context.Context, checking.Options) error
	typeCheck func(context.Context, checking.Options, []string) error
}

func defaultActions() actions {
	return actions{
		bump:      release.Bump,
		plan:      release.Plan,
		build:     npmlib.Build,
		watch:     npmlib.Watch,
		publish:   publish.Publish,
		lint:      checking.Lint,
		check:     checking.ErrorCheck,
		format:    checking.Format,
		typeCheck: checking.TypeCheck,
	}
}

func (a *app) bumpOptions() release.BumpOptions {
	return release.BumpOptions{
		Root:              a.root,
		PkgJSONSuffix:     a.cfg.PkgJSONSuffix,
		ChangelogSuffix:   a.cfg.ChangelogSuffix,
		VersionKey:        a.cfg.VersionKey,
		OfferDateShift:    a.cfg.OfferDateShift,
		Extract:           a.cfg.ExtractOptions(),
		Classify:          a.cfg.ClassifyOptions(),
		ZeroMajorUnstable: a.cfg.ZeroMajorUnstable,
		VerifyGit:         a.cfg.VerifyGit,
		Prompter:          a.prompter,
		Output:            a.stdout,
	}
}

func (a *app) buildOptions() (npmlib.BuildOptions, error) {
	moduleType, err := a.cfg.ModuleTypeValue()
	if err != nil {
		return npmlib.BuildOptions{}, err
	}

	return npmlib.BuildOptions{
		Root:            a.root,
		SrcDir:          a.cfg.SrcDir,
		DistDir:         a.cfg.DistDir,
		Runner:          a.cfg.RunnerFor(a.root),
		Type:            moduleType,
		PkgJSONSuffix:   a.cfg.PkgJSONSuffix,
		ReadmeSuffix:    a.cfg.ReadmeSuffix,
		ChangelogSuffix: a.cfg.ChangelogSuffix,
	}, nil
}

func (a *app) publishOptions() publish.Options {
	opts := publish.Options{
		Root:            a.root,
		DistDir:         a.cfg.DistDir,
		PkgJSONSuffix:   a.cfg.PkgJSONSuffix,
		ChangelogSuffix: a.cfg.ChangelogSuffix,
		VersionKey:      a.cfg.VersionKey,
		Tag:             a.cfg.Publish.Tag,
		ShowName:        a.cfg.Publish.ShowName,
	}
	if a.cfg.Publish.CheckRegistry {
		opts.Registry = publish.NewRegistryClient(publish.WithBaseURL(a.cfg.Publish.Registry))
	}
	return opts
}

func (a *app) checkingOptions() checking.Options {
	return checking.Options{
		Root:   a.root,
		Runner: a.cfg.RunnerFor(a.root),
	}
}
