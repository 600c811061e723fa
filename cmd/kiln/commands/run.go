package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compile changed shaders, build and launch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			noLaunch, _ := cmd.Flags().GetBool("no-launch")

			return c.runPipeline(cmd, app.RunOptions{
				ConfigPath: c.configPath,
				Force:      force,
				NoLaunch:   noLaunch,
			})
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Recompile every shader regardless of its build record")
	cmd.Flags().BoolP("no-launch", "n", false, "Stop after the build step")
	return cmd
}

// runPipeline runs the pipeline and prints one line per step, also when a step fails.
func (c *CLI) runPipeline(cmd *cobra.Command, opts app.RunOptions) error {
	results, err := c.app.Run(cmd.Context(), opts)

	out := cmd.OutOrStdout()
	for _, r := range results {
		_, _ = fmt.Fprintf(out, "%-9s %s\n", r.Status, r.Name)
	}
	return err
}
