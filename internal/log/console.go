package log

import (
	"log"
	"os"
	"sync/atomic"

	"charm.land/lipgloss/v2"

	"github.com/maranomynet/libtools/pkg/env"
	"github.com/maranomynet/libtools/pkg/ui"
)

// VerboseEnv turns on verbose command echo when set to a truthy value.
const VerboseEnv = "LIBTOOLS_VERBOSE"

// SimpleConsoleLogger is an unstructured logger designed for emitting simple
// messages to the console in `-v`/`--verbose` mode.
//
//nolint:gochecknoglobals // This is unchanged in the course of the process lifecycle.
var SimpleConsoleLogger = log.New(os.Stderr, lipgloss.NewStyle().Foreground(ui.GetFangScheme().Flag).Render("[LIBTOOLS] "), 0)

//nolint:gochecknoglobals // Process-wide flag set once from the CLI.
var verbose atomic.Bool

// SetVerbose switches verbose command echo on or off.
func SetVerbose(value bool) {
	verbose.Store(value)
}

// Verbose reports whether verbose mode is on, via SetVerbose or VerboseEnv.
func Verbose() bool {
	return verbose.Load() || env.FailsafeParseBoolEnv(VerboseEnv, false)
}
