// Package publish pushes a built library to the npm registry and commits
// the release.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/lo"

	"github.com/maranomynet/libtools/internal/log"
	"github.com/maranomynet/libtools/pkg/manifest"
	"github.com/maranomynet/libtools/pkg/npmlib"
	"github.com/maranomynet/libtools/pkg/sh"
)

// ErrAlreadyPublished is returned when the registry already carries the
// version about to be published.
var ErrAlreadyPublished = errors.New("version is already published")

// ErrDirtyWorkTree is returned when tracked files other than the manifest
// and the changelog have uncommitted changes.
var ErrDirtyWorkTree = errors.New("uncommitted changes besides the release files")

// Options configures Publish.
type Options struct {
	Root            string
	DistDir         string
	PkgJSONSuffix   string
	ChangelogSuffix string
	VersionKey      string

	// Tag is the npm dist-tag. Defaults to the first dot segment of the
	// version's pre-release, if any.
	Tag string
	// ShowName adds the package name to the commit message.
	ShowName bool

	// Registry is consulted before publishing when non-nil.
	Registry *RegistryClient
	// Git defaults to ShellGitOps in Root.
	Git GitOps
	// NpmPublish defaults to running "npm publish" in the dist folder.
	NpmPublish func(ctx context.Context, dir string, args ...string) error
}

func (o Options) withDefaults() Options {
	if o.Root == "" {
		o.Root = "."
	}
	if o.DistDir == "" {
		o.DistDir = npmlib.DefaultDistDir
	}
	if o.VersionKey == "" {
		o.VersionKey = manifest.DefaultVersionKey
	}
	if o.Git == nil {
		o.Git = NewGitOps(o.Root)
	}
	if o.NpmPublish == nil {
		o.NpmPublish = func(ctx context.Context, dir string, args ...string) error {
			return sh.RunVIn(ctx, dir, "npm", append([]string{"publish"}, args...)...)
		}
	}
	return o
}

// PkgJSONPath returns the manifest path relative to Root.
func (o Options) PkgJSONPath() string {
	return "package" + o.PkgJSONSuffix + ".json"
}

// ChangelogPath returns the changelog path relative to Root.
func (o Options) ChangelogPath() string {
	return "CHANGELOG" + o.ChangelogSuffix + ".md"
}

// Tag returns the dist-tag for version: explicit wins, otherwise the
// first segment of the pre-release ("1.0.0-beta.2" → "beta").
func Tag(explicit string, version *semver.Version) string {
	if explicit != "" {
		return explicit
	}
	pre := version.Prerelease()
	if pre == "" {
		return ""
	}
	first, _, _ := strings.Cut(pre, ".")
	return first
}

// CommitMessage formats the release commit message.
func CommitMessage(name, version string, showName bool) string {
	if showName {
		return fmt.Sprintf("release(%s): v%s", name, version)
	}
	return "release: v" + version
}

// Publish publishes the dist folder and commits the manifest and changelog.
func Publish(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()

	pkg, err := manifest.Read(filepath.Join(opts.Root, opts.PkgJSONPath()))
	if err != nil {
		return err
	}
	version, err := pkg.Version(opts.VersionKey)
	if err != nil {
		return err
	}
	tag := Tag(opts.Tag, version)

	if err := checkWorkTree(ctx, opts); err != nil {
		return err
	}

	if opts.Registry != nil {
		if err := checkRegistry(ctx, opts.Registry, pkg.Name(), version, tag); err != nil {
			return err
		}
	}

	args := []string{"--access", "public"}
	if tag != "" {
		args = append(args, "--tag", tag)
	}
	dist := filepath.Join(opts.Root, opts.DistDir)
	if err := opts.NpmPublish(ctx, dist, args...); err != nil {
		return fmt.Errorf("npm publish: %w", err)
	}

	if err := opts.Git.Add(ctx, opts.PkgJSONPath(), opts.ChangelogPath()); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	message := CommitMessage(pkg.Name(), version.Original(), opts.ShowName)
	if err := opts.Git.Commit(ctx, message); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}

	branch, err := opts.Git.CurrentBranch(ctx)
	if err != nil {
		slog.Debug("could not resolve the current branch", slog.Any(log.Error, err))
	}
	slog.Info("published and committed release",
		slog.String(log.Pkg, pkg.Name()), slog.String(log.Version, version.Original()),
		slog.String(log.Tag, tag), slog.String(log.Branch, branch))
	return nil
}

// checkWorkTree refuses to publish when the commit would leave other
// changes behind.
func checkWorkTree(ctx context.Context, opts Options) error {
	dirty, err := opts.Git.DirtyFiles(ctx)
	if err != nil {
		return fmt.Errorf("git status: %w", err)
	}
	slog.Debug("uncommitted changes", slog.Any(log.Files, dirty))

	others := lo.Without(dirty, opts.PkgJSONPath(), opts.ChangelogPath())
	if len(others) > 0 {
		return fmt.Errorf("%w: %s", ErrDirtyWorkTree, strings.Join(others, ", "))
	}
	return nil
}

func checkRegistry(ctx context.Context, client *RegistryClient, name string, version *semver.Version, tag string) error {
	doc, err := client.FetchPackument(ctx, name)
	if errors.Is(err, ErrPackageNotFound) {
		slog.Info("first publish of package", slog.String(log.Pkg, name))
		return nil
	}
	if err != nil {
		return fmt.Errorf("registry check: %w", err)
	}

	if doc.HasVersion(version.Original()) {
		return fmt.Errorf("%w: %s@%s", ErrAlreadyPublished, name, version.Original())
	}

	latest, err := semver.NewVersion(doc.Latest())
	if err != nil {
		return nil
	}
	if tag == "" && !version.GreaterThan(latest) {
		slog.Warn("version is not newer than the latest published one",
			slog.String(log.Version, version.Original()), slog.String(log.Latest, latest.Original()))
	}
	return nil
}
