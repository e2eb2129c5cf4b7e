// Package runner knows how each supported package manager runs package
// scripts and locally installed binaries.
package runner

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/maranomynet/libtools/internal/log"
	"github.com/maranomynet/libtools/pkg/fsutils"
)

// Runner is a package manager.
type Runner string

// Supported runners.
const (
	NPM  Runner = "npm"
	Yarn Runner = "yarn"
	Bun  Runner = "bun"
)

// Valid reports whether r is a supported runner.
func (r Runner) Valid() bool {
	switch r {
	case NPM, Yarn, Bun:
		return true
	default:
		return false
	}
}

// Detect picks the runner from the lock file found in dir. npm is the
// fallback.
func Detect(dir string) Runner {
	detected := NPM
	switch {
	case fsutils.Exists(filepath.Join(dir, "bun.lockb")), fsutils.Exists(filepath.Join(dir, "bun.lock")):
		detected = Bun
	case fsutils.Exists(filepath.Join(dir, "yarn.lock")):
		detected = Yarn
	}

	slog.Debug("detected package runner", log.Runner, detected, log.Dir, dir)

	return detected
}

// Parse returns the runner named name. Empty or unknown names fall back to
// fallback, and unknown names are logged.
func Parse(name string, fallback Runner) Runner {
	r := Runner(strings.ToLower(strings.TrimSpace(name)))
	if r.Valid() {
		return r
	}
	if name != "" {
		slog.Warn("unknown runner, using default", log.Runner, name, "default", fallback)
	}

	return fallback
}

// ScriptPrefix is the command prefix that runs a package.json script.
func (r Runner) ScriptPrefix() []string {
	switch r {
	case Bun:
		return []string{"bun", "run", "--bun"}
	case Yarn:
		return []string{"yarn", "run"}
	default:
		return []string{"npm", "run"}
	}
}

// BinPrefix is the command prefix that runs a binary from node_modules/.bin.
func (r Runner) BinPrefix() []string {
	switch r {
	case Bun:
		return []string{"bun", "run", "--bun"}
	case Yarn:
		return []string{"yarn", "run"}
	default:
		return []string{"npm", "exec", "--"}
	}
}

// BinCommand splits the full command line for running bin with args into a
// command name and its arguments, ready for exec.
func (r Runner) BinCommand(bin string, args ...string) (string, []string) {
	full := append(r.BinPrefix(), bin)
	full = append(full, args...)

	return full[0], full[1:]
}

// ScriptCommand is like BinCommand for package.json scripts.
func (r Runner) ScriptCommand(script string, args ...string) (string, []string) {
	full := append(r.ScriptPrefix(), script)
	full = append(full, args...)

	return full[0], full[1:]
}

// String implements fmt.Stringer.
func (r Runner) String() string {
	return string(r)
}

// Set implements pflag.Value so a Runner can be a CLI flag.
func (r *Runner) Set(value string) error {
	parsed := Runner(strings.ToLower(strings.TrimSpace(value)))
	if !parsed.Valid() {
		return fmt.Errorf("unknown runner %q (want npm, yarn or bun)", value)
	}
	*r = parsed

	return nil
}

// Type implements pflag.Value.
func (r *Runner) Type() string {
	return "runner"
}
