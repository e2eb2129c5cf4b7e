package ish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/maranomynet/libtools/internal/dryrun"
	"github.com/maranomynet/libtools/internal/log"
	"github.com/maranomynet/libtools/pkg/fatal"
)

// Options describes where and how a command runs.
type Options struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is added on top of the process environment.
	Env    map[string]string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Exec executes the command, piping its stdout and stderr to the writers in
// opts. cmd and args may reference environment variables in $FOO format.
func Exec(ctx context.Context, opts Options, cmd string, args ...string) (bool, error) {
	expand := func(varName string) string {
		if s2, ok := opts.Env[varName]; ok {
			return s2
		}
		return os.Getenv(varName)
	}

	cmd = os.Expand(cmd, expand)

	expanded := make([]string, len(args))
	for i := range args {
		expanded[i] = os.Expand(args[i], expand)
	}

	ran, code, err := run(ctx, opts, cmd, expanded...)
	if err == nil {
		return true, nil
	}
	if ran {
		return ran, fatal.Errorf(code, `running "%s %s" failed with exit code %d`, cmd, strings.Join(expanded, " "), code)
	}
	return ran, fmt.Errorf(`failed to run "%s %s": %w`, cmd, strings.Join(expanded, " "), err)
}

func run(ctx context.Context, opts Options, cmd string, args ...string) (bool, int, error) {
	theCmd := dryrun.Wrap(ctx, cmd, args...)
	if !dryrun.IsDryRun() {
		theCmd.Dir = opts.Dir
	}
	theCmd.Env = os.Environ()
	for k, v := range opts.Env {
		theCmd.Env = append(theCmd.Env, k+"="+v)
	}
	theCmd.Stderr = opts.Stderr
	theCmd.Stdout = opts.Stdout
	theCmd.Stdin = opts.Stdin

	quoted := make([]string, 0, len(args))
	for i := range args {
		quoted = append(quoted, fmt.Sprintf("%q", args[i]))
	}
	if log.Verbose() {
		if opts.Dir != "" {
			log.SimpleConsoleLogger.Println("exec:", cmd, strings.Join(quoted, " "), "(in "+opts.Dir+")")
		} else {
			log.SimpleConsoleLogger.Println("exec:", cmd, strings.Join(quoted, " "))
		}
	}
	err := theCmd.Run()

	return CmdRan(err), ExitStatus(err), err
}

// CmdRan examines the error to determine if it was generated as a result of a
// command running via os/exec.Command.
func CmdRan(err error) bool {
	if err == nil {
		return true
	}
	var ee *exec.ExitError
	ok := errors.As(err, &ee)
	if ok {
		return ee.Exited()
	}
	return false
}

// ExitStatus returns the exit status of the error if it is an exec.ExitError
// or if it implements ExitStatus() int.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exit fatal.ExitStatuser
	if errors.As(err, &exit) {
		return exit.ExitStatus()
	}
	var e *exec.ExitError
	if errors.As(err, &e) {
		if ex, ok := e.Sys().(fatal.ExitStatuser); ok {
			return ex.ExitStatus()
		}
	}
	return 1
}

// Rm removes the given file or directory even if non-empty.
func Rm(path string) error {
	if dryrun.IsDryRun() {
		_, err := fmt.Println("DRYRUN: rm", path) //nolint:forbidigo // This is intentional console output.
		return err
	}

	err := os.RemoveAll(path)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf(`failed to remove %s: %w`, path, err)
}

// Copy robustly copies the source file to the destination.
func Copy(dst string, src string) error {
	if dryrun.IsDryRun() {
		_, err := fmt.Println("DRYRUN: cp", src, dst) //nolint:forbidigo // This is intentional console output.
		return err
	}

	from, err := os.Open(src)
	if err != nil {
		return fmt.Errorf(`can't copy %s: %w`, src, err)
	}
	defer func() { _ = from.Close() }()
	finfo, err := from.Stat()
	if err != nil {
		return fmt.Errorf(`can't stat %s: %w`, src, err)
	}
	to, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, finfo.Mode())
	if err != nil {
		return fmt.Errorf(`can't copy to %s: %w`, dst, err)
	}
	defer func() { _ = to.Close() }()
	_, err = io.Copy(to, from)
	if err != nil {
		return fmt.Errorf(`error copying %s to %s: %w`, src, dst, err)
	}
	return nil
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if dryrun.IsDryRun() {
		_, err := fmt.Println("DRYRUN: write", path) //nolint:forbidigo // This is intentional console output.
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd // standard directory permissions
		return fmt.Errorf(`can't create directory for %s: %w`, path, err)
	}
	//#nosec G306 -- build output and manifests are world-readable.
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:mnd // standard file permissions
		return fmt.Errorf(`can't write %s: %w`, path, err)
	}
	return nil
}

// Higher-level functions

func Run(ctx context.Context, dir string, env map[string]string, cmd string, args ...string) error {
	var output io.Writer
	if log.Verbose() || dryrun.IsDryRun() {
		output = os.Stdout
	}
	_, err := Exec(ctx, Options{Dir: dir, Env: env, Stdin: os.Stdin, Stdout: output, Stderr: os.Stderr}, cmd, args...)
	return err
}

func RunV(ctx context.Context, dir string, env map[string]string, cmd string, args ...string) error {
	_, err := Exec(ctx, Options{Dir: dir, Env: env, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}, cmd, args...)
	return err
}

func Output(ctx context.Context, dir string, env map[string]string, cmd string, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	_, err := Exec(ctx, Options{Dir: dir, Env: env, Stdin: os.Stdin, Stdout: buf, Stderr: os.Stderr}, cmd, args...)
	return strings.TrimSuffix(buf.String(), "\n"), err
}
