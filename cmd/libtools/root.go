// Package libtools wires the libtools commands into a cobra tree run by fang.
package libtools

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/maranomynet/libtools/cmd/libtools/version"
	"github.com/maranomynet/libtools/config"
	"github.com/maranomynet/libtools/internal/dryrun"
	"github.com/maranomynet/libtools/internal/log"
	"github.com/maranomynet/libtools/pkg/env"
	"github.com/maranomynet/libtools/pkg/prettylog"
	"github.com/maranomynet/libtools/pkg/prompt"
)

const shortDescription = "libtools builds, versions and publishes TypeScript libraries to npm."

type globalFlags struct {
	debug          bool
	verbose        bool
	dryRun         bool
	nonInteractive bool
	dir            string
}

type rootCmdOptions struct {
	stdout   io.Writer
	stderr   io.Writer
	prompter prompt.Prompter
	actions  actions
}

// Option configures NewRootCmd.
type Option func(*rootCmdOptions)

// This is intentionally designed to be unusable from outside this package,
// as it exists purely for testing purposes.
func withActions(fn func(*actions)) Option {
	return func(opts *rootCmdOptions) {
		fn(&opts.actions)
	}
}

func withPrompter(p prompt.Prompter) Option {
	return func(opts *rootCmdOptions) {
		opts.prompter = p
	}
}

func withOutput(stdout, stderr io.Writer) Option {
	return func(opts *rootCmdOptions) {
		opts.stdout = stdout
		opts.stderr = stderr
	}
}

// app is the state shared by every subcommand once the root pre-run has
// loaded the configuration.
type app struct {
	*rootCmdOptions
	flags globalFlags
	cfg   *config.Config
	// root is the project root: --dir joined with the configured root.
	root string
}

func (a *app) setup() error {
	prettylog.SetupPrettyLogger(a.stderr, a.flags.debug)
	log.SetVerbose(a.flags.verbose)
	dryrun.SetRequested(a.flags.dryRun)

	dir := a.flags.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	cfg, err := config.Load(&config.LoadOptions{ProjectDir: dir, Stderr: a.stderr})
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.root = cfg.Root
	if !filepath.IsAbs(a.root) {
		a.root = filepath.Join(dir, a.root)
	}

	if a.prompter == nil {
		interactive := !a.flags.nonInteractive && env.Interactive()
		a.prompter = prompt.ForEnvironment(interactive)
	}

	return nil
}

// NewRootCmd builds the libtools command tree.
func NewRootCmd(ctx context.Context, opts ...Option) *cobra.Command {
	rootCmdOpts := &rootCmdOptions{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		actions: defaultActions(),
	}
	for _, opt := range opts {
		opt(rootCmdOpts)
	}

	a := &app{rootCmdOptions: rootCmdOpts}

	rootCmd := &cobra.Command{
		Use:   "libtools",
		Short: shortDescription,
		Example: `	# Bump the version from the changelog, build and publish
	libtools release

	# Only compute the next version
	libtools next

	# Rebuild the library on every source change
	libtools build --watch

	# Type-check the root project and two sub-projects
	libtools typecheck api web`,
		Version:       version.OverallVersionStringColorized(ctx),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}
	rootCmd.SetOut(rootCmdOpts.stdout)
	rootCmd.SetErr(rootCmdOpts.stderr)

	rootCmd.PersistentFlags().BoolVarP(&a.flags.debug, "debug", "d", false, "turn on debug messages")
	rootCmd.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", log.Verbose(), "echo every command before it runs")
	rootCmd.PersistentFlags().BoolVar(&a.flags.dryRun, "dryrun", dryrun.IsDryRun(), "print commands instead of executing them and skip file writes")
	rootCmd.PersistentFlags().BoolVar(&a.flags.nonInteractive, "non-interactive", !env.Interactive(), "answer every question with its default")
	rootCmd.PersistentFlags().StringVarP(&a.flags.dir, "dir", "C", "", "directory to run in")

	rootCmd.AddCommand(
		newBumpCmd(a),
		newNextCmd(a),
		newBuildCmd(a),
		newPublishCmd(a),
		newReleaseCmd(a),
		newLintCmd(a),
		newCheckCmd(a),
		newFormatCmd(a),
		newTypeCheckCmd(a),
		newPkgVersionCmd(a),
		newConfigCmd(a),
	)

	return rootCmd
}

// ExecuteWithFang runs the root Cobra command with Fang-specific options.
func ExecuteWithFang(ctx context.Context, rootCmd *cobra.Command) error {
	//nolint:wrapcheck // top-level error from cobra, wrapping not needed
	return fang.Execute(
		ctx, rootCmd, fang.WithVersion(rootCmd.Version), fang.WithoutManpage())
}
