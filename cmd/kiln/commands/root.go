// Package commands implements the CLI commands for kiln.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/build"
	"go.trai.ch/kiln/internal/core/domain"
)

// CLI represents the command line interface for kiln.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	configPath string
	verbose    bool
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) ([]domain.StepResult, error)
	Status(ctx context.Context, opts app.StatusOptions) ([]app.ShaderStatus, error)
	Clean(ctx context.Context, opts app.CleanOptions) error
	SetVerbose(verbose bool)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:   "kiln",
		Short: "Recompile changed shaders, build and launch the game",
		Long: "kiln recompiles shader sources whose build record is older than the source,\n" +
			"runs the build tool and launches the resulting executable.\n" +
			"Without a subcommand it behaves like 'kiln run'.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			c.app.SetVerbose(c.verbose)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runPipeline(cmd, app.RunOptions{ConfigPath: c.configPath})
		},
	}

	// Declared before the version flag so -v stays the verbose shorthand.
	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "",
		"Path to the configuration file (default: kiln.yaml in the current or a parent directory)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false,
		"Print the full error chain with diagnostic metadata")

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newStatusCmd())
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
