package libtools

import (
	"github.com/spf13/cobra"

	"github.com/maranomynet/libtools/pkg/npmlib"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		moduleType string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the library into the dist folder with its package.json, README and CHANGELOG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.buildOptions()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("type") {
				if opts.Type, err = npmlib.ParseModuleType(moduleType); err != nil {
					return err
				}
			}

			if watch {
				return a.actions.watch(cmd.Context(), opts)
			}
			return a.actions.build(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&moduleType, "type", "", "module formats to build: both, commonjs or esm")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild whenever a source file changes")

	return cmd
}

type publishFlags struct {
	tag               string
	showName          bool
	skipRegistryCheck bool
}

func (f *publishFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.tag, "tag", "", "npm dist-tag (defaults to the pre-release name)")
	cmd.Flags().BoolVar(&f.showName, "show-name", false, "include the package name in the release commit message")
	cmd.Flags().BoolVar(&f.skipRegistryCheck, "skip-registry-check", false, "do not ask the registry whether the version is already published")
}

func (a *app) publishWith(cmd *cobra.Command, f *publishFlags) error {
	opts := a.publishOptions()
	if cmd.Flags().Changed("tag") {
		opts.Tag = f.tag
	}
	if cmd.Flags().Changed("show-name") {
		opts.ShowName = f.showName
	}
	if f.skipRegistryCheck {
		opts.Registry = nil
	}

	return a.actions.publish(cmd.Context(), opts)
}

func newPublishCmd(a *app) *cobra.Command {
	var flags publishFlags

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the dist folder to npm and commit package.json and the changelog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.publishWith(cmd, &flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func newReleaseCmd(a *app) *cobra.Command {
	var (
		flags      publishFlags
		preRelease string
	)

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Bump the version, build the library and publish it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bumpOpts := a.bumpOptions()
			bumpOpts.PreReleaseName = preRelease
			bumped, err := runBump(cmd, a, bumpOpts)
			if err != nil || !bumped {
				return err
			}

			buildOpts, err := a.buildOptions()
			if err != nil {
				return err
			}
			if err := a.actions.build(cmd.Context(), buildOpts); err != nil {
				return err
			}

			return a.publishWith(cmd, &flags)
		},
	}
	cmd.Flags().StringVar(&preRelease, "prerelease", "", "pre-release name appended as -<name>")
	flags.register(cmd)

	return cmd
}
