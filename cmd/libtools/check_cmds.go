package libtools

import (
	"github.com/spf13/cobra"
)

func newLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Report eslint and prettier findings without failing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.actions.lint(cmd.Context(), a.checkingOptions())
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	var continueOnError bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Fail on eslint errors and type errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := a.checkingOptions()
			opts.ContinueOnError = continueOnError
			return a.actions.check(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "run every step and report all failures")

	return cmd
}

func newFormatCmd(a *app) *cobra.Command {
	var continueOnError bool

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Auto-fix sources with prettier and eslint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := a.checkingOptions()
			opts.ContinueOnError = continueOnError
			return a.actions.format(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "run every step and report all failures")

	return cmd
}

func newTypeCheckCmd(a *app) *cobra.Command {
	var continueOnError bool

	cmd := &cobra.Command{
		Use:   "typecheck [tsconfig-dir...]",
		Short: "Type-check ./tsconfig.json and the given projects in parallel",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.checkingOptions()
			opts.ContinueOnError = continueOnError

			tsconfigs := args
			if len(tsconfigs) == 0 {
				tsconfigs = a.cfg.TSConfigs
			}
			return a.actions.typeCheck(cmd.Context(), opts, tsconfigs)
		},
	}
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "wait for every project and report all failures")

	return cmd
}
