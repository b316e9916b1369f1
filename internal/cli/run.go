package cli

import (
	"context"
	"os"
	"os/signal"

	"swarmrun/internal/config"
	"swarmrun/internal/flags"
	"swarmrun/internal/launcher"
	"swarmrun/internal/output"

	"github.com/spf13/cobra"
)

var runParallelCmd = &cobra.Command{
	Use:   "run-parallel [identifiers...]",
	Short: "Run each matching spec once, several at a time",
	Long: `Run each matching spec once in its own engine run, with at most
--concurrency runs in flight, then print the summed statistics per subject.

Identifiers are case-insensitive substrings of the spec path. Without
identifiers every discovered spec runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runMode(cmd, args, launcher.ModeRunParallel))
	},
}

var stressTestCmd = &cobra.Command{
	Use:   "stress-test [identifiers...]",
	Short: "Run the matching specs repeatedly to surface flaky tests",
	Long: `Queue the whole set of matching specs --trials times, with at most
--concurrency trials in flight, then print the statistics summed across all
trials per subject.`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runMode(cmd, args, launcher.ModeStressTest))
	},
}

func runMode(cmd *cobra.Command, args []string, mode launcher.Mode) int {
	console := output.NewConsole(cmd.ErrOrStderr())
	if err := prepareConfig(cmd, cfg, args); err != nil {
		console.Errorf("%v", err)
		return launcher.ExitFatal
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	l := launcher.New(
		launcher.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		launcher.WithLogger(newLogger(cmd.ErrOrStderr(), cfg.Runtime.Verbose)),
	)
	return l.Run(ctx, cfg, mode)
}

func init() {
	rootCmd.AddCommand(runParallelCmd)
	rootCmd.AddCommand(stressTestCmd)

	stressTestCmd.Flags().IntVarP(&cfg.Runtime.Trials, flags.FlagTrials, "t", config.DefaultTrials, "Number of times the spec set is queued")
}
