package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all known targets and their options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			showOptions, _ := cmd.Flags().GetBool("options")

			targets, options, err := c.app.List(configFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "TARGET\tBUILD\tINSTALL\tCROSS")
			for _, t := range targets {
				cross := "no"
				if t.Cross {
					cross = "yes"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Name, t.BuildSystem, t.Install, cross)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !showOptions {
				return nil
			}

			_, _ = fmt.Fprintln(out)
			w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "OPTION\tKIND\tDEFAULT\tHELP")
			for _, o := range options {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.Name, o.Kind, o.Default, o.Help)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolP("options", "o", false, "Also list every registered option")
	return cmd
}
