package publish

import (
	"context"
	"strconv"
	"strings"

	"github.com/maranomynet/libtools/pkg/sh"
)

// GitOps abstracts the git operations a release needs.
type GitOps interface {
	// Add stages paths.
	Add(ctx context.Context, paths ...string) error
	// Commit records the staged changes with message.
	Commit(ctx context.Context, message string) error
	// DirtyFiles lists tracked paths with uncommitted changes, relative
	// to the working directory.
	DirtyFiles(ctx context.Context) ([]string, error)
	// CurrentBranch returns the current branch name.
	CurrentBranch(ctx context.Context) (string, error)
}

// ShellGitOps implements GitOps by running git through pkg/sh.
type ShellGitOps struct {
	Dir string // optional working directory (empty = current)
}

// NewGitOps creates a new ShellGitOps instance.
func NewGitOps(dir string) *ShellGitOps {
	return &ShellGitOps{Dir: dir}
}

// Add stages paths.
func (g *ShellGitOps) Add(ctx context.Context, paths ...string) error {
	return sh.RunIn(ctx, g.Dir, "git", append([]string{"add"}, paths...)...)
}

// Commit records the staged changes.
func (g *ShellGitOps) Commit(ctx context.Context, message string) error {
	return sh.RunIn(ctx, g.Dir, "git", "commit", "-m", message)
}

// DirtyFiles lists modified tracked paths below Dir, relative to Dir.
// "--porcelain" ignores status.relativePaths, so the short format is read.
func (g *ShellGitOps) DirtyFiles(ctx context.Context) ([]string, error) {
	out, err := sh.OutputIn(ctx, g.Dir, "git", "-c", "status.relativePaths=true", "-c", "color.status=false",
		"status", "--short", "--untracked-files=no", "--", ".")
	if err != nil {
		return nil, err
	}

	return parseShortStatus(out), nil
}

// CurrentBranch returns the current branch name.
func (g *ShellGitOps) CurrentBranch(ctx context.Context) (string, error) {
	out, err := sh.OutputIn(ctx, g.Dir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func parseShortStatus(out string) []string {
	result := []string{}
	for _, line := range strings.Split(out, "\n") {
		// "XY path" or "XY old -> new"
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		if _, renamed, ok := strings.Cut(path, " -> "); ok {
			path = renamed
		}
		if unquoted, err := strconv.Unquote(path); err == nil {
			path = unquoted
		}
		result = append(result, path)
	}
	return result
}
