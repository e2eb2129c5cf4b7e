package libtools

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/maranomynet/libtools/internal/log"
	"github.com/maranomynet/libtools/pkg/changelog"
	"github.com/maranomynet/libtools/pkg/manifest"
	"github.com/maranomynet/libtools/pkg/release"
)

func newBumpCmd(a *app) *cobra.Command {
	var (
		preRelease     string
		offerDateShift bool
	)

	cmd := &cobra.Command{
		Use:   "bump",
		Short: "Compute the next version from the changelog and write it to package.json and the changelog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := a.bumpOptions()
			opts.PreReleaseName = preRelease
			if cmd.Flags().Changed("offer-date-shift") {
				opts.OfferDateShift = offerDateShift
			}

			_, err := runBump(cmd, a, opts)
			return err
		},
	}

	cmd.Flags().StringVar(&preRelease, "prerelease", "", "pre-release name appended as -<name> (a-z, 0-9, '.', '-')")
	cmd.Flags().BoolVar(&offerDateShift, "offer-date-shift", false, "ask for a release date offset in days")

	return cmd
}

// runBump returns false without error when there is nothing to release.
func runBump(cmd *cobra.Command, a *app, opts release.BumpOptions) (bool, error) {
	res, err := a.actions.bump(cmd.Context(), opts)
	if errors.Is(err, changelog.ErrNothingToRelease) {
		slog.Info("nothing to release", slog.String(log.Path, opts.ChangelogPath()))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.NewVersion)
	return true, nil
}

func newNextCmd(a *app) *cobra.Command {
	var preRelease string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the next version computed from the changelog without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := a.bumpOptions()
			opts.PreReleaseName = preRelease
			opts.OfferDateShift = false

			res, err := a.actions.plan(cmd.Context(), opts)
			if errors.Is(err, changelog.ErrNothingToRelease) {
				slog.Info("nothing to release", slog.String(log.Path, opts.ChangelogPath()))
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.NewVersion)
			return nil
		},
	}

	cmd.Flags().StringVar(&preRelease, "prerelease", "", "pre-release name appended as -<name>")

	return cmd
}

func newPkgVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pkg-version",
		Short: "Print the version from package.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := filepath.Join(a.root, "package"+a.cfg.PkgJSONSuffix+".json")
			v, err := manifest.GetVersion(path, a.cfg.VersionKey)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}
