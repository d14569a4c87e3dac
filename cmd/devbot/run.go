package main

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <plan.md>",
	Short: "Execute a single change plan and exit",
	Long: `Run reads a markdown plan, executes it against the configured repository
checkout and opens a pull request when the model signals completion.

The exit code reports the outcome: 0 completed, 1 errored, 2 turn
budget exhausted.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, _, jobRunner, err := loadAndWire(ctx)
	if err != nil {
		return err
	}

	res, err := jobRunner.RunPlan(ctx, args[0])
	if err != nil {
		return err
	}
	if code := res.Outcome.ExitCode(); code != 0 {
		exit(code)
	}
	return nil
}
