// Package dryrun implements the conditional checks for libtools' dry-run mode.
//
// Dry-run is on when SetRequested(true) was called (the --dryrun flag) or when
// the LIBTOOLS_DRYRUN environment variable was set at the point of the first
// call to IsDryRun. In dry-run mode commands are echoed instead of executed
// and file writes are skipped.
package dryrun

import (
	"context"
	"os/exec"

	"github.com/maranomynet/libtools/pkg/env"
)

// RequestedEnv is the environment variable that requests dry-run mode.
const RequestedEnv = "LIBTOOLS_DRYRUN"

// SetRequested sets the dry-run requested state to the specified boolean value.
func SetRequested(value bool) {
	dryRunRequestedValue.Store(value)
}

// IsDryRun reports whether dry-run mode was requested, either explicitly or
// via the environment.
func IsDryRun() bool {
	dryRunRequestedEnvOnce.Do(func() {
		dryRunRequestedEnvValue = env.FailsafeParseBoolEnv(RequestedEnv, false)
	})

	return dryRunRequestedEnvValue || dryRunRequestedValue.Load()
}

// Wrap creates an *exec.Cmd to run a command or simulate it in dry-run mode.
// In dry-run mode, it returns a command that prints the simulated command.
func Wrap(ctx context.Context, cmd string, args ...string) *exec.Cmd {
	if !IsDryRun() {
		return exec.CommandContext(ctx, cmd, args...)
	}

	return exec.CommandContext(ctx, "echo", append([]string{"DRYRUN: " + cmd}, args...)...) //nolint:gosec // It's echo!
}
