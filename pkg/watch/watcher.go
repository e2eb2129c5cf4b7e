// Package watch re-runs an operation when files under a project change.
package watch

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

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/maranomynet/libtools/internal/log"
	"github.com/maranomynet/libtools/pkg/fsutils"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 200 * time.Millisecond

// alwaysIgnored directories are never watched.
//
//nolint:gochecknoglobals // constant lookup table
var alwaysIgnored = []string{"node_modules", ".git"}

// Options configures a Watcher.
type Options struct {
	// Root is the directory that is watched recursively.
	Root string
	// Patterns are globs, relative to Root with "/" separators, that select
	// the files whose changes trigger a re-run.
	Patterns []string
	// Ignore are globs for paths, files or directories, that never trigger.
	Ignore []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
}

// Watcher watches a directory tree and reports matching changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	globs    []glob.Glob
	ignores  []glob.Glob
	debounce time.Duration
}

// New starts watching opts.Root and every directory below it.
func New(opts Options) (*Watcher, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving watch root: %w", err)
	}

	globs, err := fsutils.CompilePatterns(opts.Patterns)
	if err != nil {
		return nil, err
	}
	ignores, err := fsutils.CompilePatterns(opts.Ignore)
	if err != nil {
		return nil, err
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{fs: fsw, root: root, globs: globs, ignores: ignores, debounce: debounce}
	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignored(w.rel(path)) {
			return filepath.SkipDir
		}

		return w.fs.Add(path)
	})
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) ignored(rel string) bool {
	for _, name := range alwaysIgnored {
		if rel == name || strings.HasPrefix(rel, name+"/") || strings.Contains(rel, "/"+name+"/") {
			return true
		}
	}
	// A path is ignored when it or any of its parent directories matches.
	for prefix := rel; prefix != "." && prefix != ""; prefix = parentOf(prefix) {
		for _, g := range w.ignores {
			if g.Match(prefix) {
				return true
			}
		}
	}

	return false
}

func parentOf(rel string) string {
	idx := strings.LastIndexByte(rel, '/')
	if idx < 0 {
		return ""
	}
	return rel[:idx]
}

// Matches reports whether a change to path, absolute or relative to the
// root, should trigger a re-run.
func (w *Watcher) Matches(path string) bool {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.root, path)
	}
	rel := w.rel(path)
	if strings.HasPrefix(rel, "../") || w.ignored(rel) {
		return false
	}
	for _, g := range w.globs {
		if g.Match(rel) {
			return true
		}
	}

	return false
}

func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !w.ignored(w.rel(event.Name)) {
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("failed to watch new directory", log.Path, event.Name, log.Error, err)
			}
		}
	}

	return w.Matches(event.Name)
}

// Run calls fn after every settled burst of matching changes until ctx is
// done. Errors from fn are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				slog.Debug("change detected", log.Path, event.Name)
				settle = time.After(w.debounce)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", log.Error, err)
		case <-settle:
			settle = nil
			slog.Info("WATCH MODE: change detected, re-running")
			if err := fn(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				slog.Error("re-run failed", log.Error, err)
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
