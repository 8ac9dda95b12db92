// Package commands implements the CLI commands for the dirigent build
// orchestrator.
package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/dirigent/internal/app"
	"go.trai.ch/dirigent/internal/build"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for dirigent.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, targetNames []string, opts app.RunOptions) error
	List(configFile string) ([]app.TargetInfo, []app.OptionInfo, error)
	Clean(ctx context.Context, targetNames []string, opts app.CleanOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "dirigent",
		Short:         "A build orchestrator for cross-compiled system images",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", app.DefaultConfigPath(), "Path to the persisted option file")
	rootCmd.PersistentFlags().StringP("arch", "a", "", "Cross architecture to build for (default: host)")
	rootCmd.PersistentFlags().StringArrayP("set", "s", nil, "Override an option as key=value (repeatable)")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// parseOverrides converts repeated --set key=value flags into the override
// map the option snapshot consumes.
func parseOverrides(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	overrides := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			err := zerr.With(zerr.New("malformed --set flag"), "flag", pair)
			return nil, zerr.With(err, "hint", "expected key=value, e.g. --set openssh/baremetal=true")
		}
		overrides[key] = value
	}
	return overrides, nil
}
