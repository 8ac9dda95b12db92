package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/dirigent/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [targets...]",
		Short: "Remove build directories and completion markers",
		Long: "Remove the build directories and completion markers of the given " +
			"targets, or of every known target when none are given. Source " +
			"checkouts and install trees are left untouched.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			arch, _ := cmd.Flags().GetString("arch")

			return c.app.Clean(cmd.Context(), args, app.CleanOptions{
				ConfigFile:   configFile,
				Architecture: arch,
			})
		},
	}
}
