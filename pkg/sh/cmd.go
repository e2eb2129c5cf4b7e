package sh

import (
	"context"

	"github.com/maranomynet/libtools/internal/ish"
)

// Run runs the given command, directing stderr to this program's stderr and
// printing stdout to stdout only in verbose or dry-run mode.
func Run(ctx context.Context, cmd string, args ...string) error {
	return ish.Run(ctx, "", nil, cmd, args...)
}

// RunV is like Run, but always sends the command's stdout to os.Stdout.
func RunV(ctx context.Context, cmd string, args ...string) error {
	return ish.RunV(ctx, "", nil, cmd, args...)
}

// RunIn is like Run, but runs the command in dir.
func RunIn(ctx context.Context, dir string, cmd string, args ...string) error {
	return ish.Run(ctx, dir, nil, cmd, args...)
}

// RunVIn is like RunV, but runs the command in dir.
func RunVIn(ctx context.Context, dir string, cmd string, args ...string) error {
	return ish.RunV(ctx, dir, nil, cmd, args...)
}

// Output runs the command and returns the text from stdout.
func Output(ctx context.Context, cmd string, args ...string) (string, error) {
	return ish.Output(ctx, "", nil, cmd, args...)
}

// OutputIn is like Output, but runs the command in dir.
func OutputIn(ctx context.Context, dir string, cmd string, args ...string) (string, error) {
	return ish.Output(ctx, dir, nil, cmd, args...)
}

// Options describes where and how Exec runs a command.
type Options = ish.Options

// Exec executes the command, piping its stdout and stderr to the writers in
// opts. If the command fails, the returned error carries the command's exit
// code (see ExitStatus), which the CLI propagates as its own. Env overrides
// the current environment variables, which are also passed to the command.
// cmd and args may include references to environment variables in $FOO
// format, which are expanded before the command is run.
//
// Ran reports if the command ran (rather than was not found or not executable).
// If err == nil, ran is always true.
func Exec(ctx context.Context, opts Options, cmd string, args ...string) (bool, error) {
	return ish.Exec(ctx, opts, cmd, args...)
}

// CmdRan examines the error to determine if it was generated as a result of a
// command running via os/exec.Command. If the error is nil, or the command ran
// (even if it exited with a non-zero exit code), CmdRan reports true. If the
// error is an unrecognized type, or it is an error from exec.Command that says
// the command failed to run (usually due to the command not existing or not
// being executable), it reports false.
func CmdRan(err error) bool {
	return ish.CmdRan(err)
}

// ExitStatus returns the exit status of the error if it is an exec.ExitError
// or if it implements ExitStatus() int.
// 0 if it is nil or 1 if it is a different error.
func ExitStatus(err error) int {
	return ish.ExitStatus(err)
}
