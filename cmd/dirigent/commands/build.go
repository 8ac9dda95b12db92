package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/dirigent/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Build the specified targets and their dependencies",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			configFile, _ := cmd.Flags().GetString("config")
			arch, _ := cmd.Flags().GetString("arch")
			setFlags, _ := cmd.Flags().GetStringArray("set")
			force, _ := cmd.Flags().GetBool("force")
			skipUpdate, _ := cmd.Flags().GetBool("skip-update")
			keepGoing, _ := cmd.Flags().GetBool("keep-going")
			withTests, _ := cmd.Flags().GetBool("test")

			overrides, err := parseOverrides(setFlags)
			if err != nil {
				return err
			}

			return c.app.Run(cmd.Context(), args, app.RunOptions{
				ConfigFile:   configFile,
				Architecture: arch,
				Overrides:    overrides,
				Force:        force,
				SkipUpdate:   skipUpdate,
				KeepGoing:    keepGoing,
				WithTests:    withTests,
			})
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Ignore completion markers and re-run every phase")
	cmd.Flags().Bool("skip-update", false, "Leave existing source checkouts untouched")
	cmd.Flags().BoolP("keep-going", "k", false, "Continue past failures, skipping only dependents")
	cmd.Flags().BoolP("test", "t", false, "Run each target's test phase after install")
	return cmd
}
