package libtools

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/maranomynet/libtools/config"
	"github.com/maranomynet/libtools/pkg/prettylog"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create libtools configuration",
	}
	cmd.AddCommand(newConfigShowCmd(a), newConfigInitCmd(a))

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			files := a.cfg.ConfigFiles()
			if len(files) == 0 {
				fmt.Fprintln(out, "# no config files found, showing defaults")
			}
			for _, f := range files {
				fmt.Fprintf(out, "# loaded %s\n", f)
			}

			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("rendering config: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var user bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default libtools.yaml (or the user config with --user)",
		Args:  cobra.NoArgs,
		// A broken config must not stop us from writing a fresh one.
		PersistentPreRunE: func(*cobra.Command, []string) error {
			prettylog.SetupPrettyLogger(a.stderr, a.flags.debug)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := ""
			if !user {
				dir := a.flags.dir
				if dir == "" {
					dir = "."
				}
				path = filepath.Join(dir, config.ProjectConfigFileName+".yaml")
			}

			written, err := config.WriteDefaultConfig(path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", written)
			return nil
		},
	}
	cmd.Flags().BoolVar(&user, "user", false, "write the user config instead of the project one")

	return cmd
}
