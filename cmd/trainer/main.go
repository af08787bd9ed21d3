// Package main is the entry point for the training schedule planner
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/pkg/logging"
)

var (
	settings = &Settings{}
	logger   *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rpg-trainer",
	Short: "Plan the shortest training schedule that maxes every attribute",
	Long: `rpg-trainer reads tiered training tables and a starting profile, builds an
integer program for the fewest training weeks that bring every attribute to
999, and solves it with CBC.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	settings.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(exportLPCmd)
	rootCmd.AddCommand(generateCmd)
}

// setup merges environment defaults under explicit flags and installs the
// logger
func setup(cmd *cobra.Command, _ []string) error {
	if err := settings.LoadEnv(nil, cmd.Flags()); err != nil {
		return err
	}

	l, err := logging.New(settings.LogMode, settings.Verbose)
	if err != nil {
		return err
	}
	l.Install()
	logger = l
	return nil
}

// exitCode maps tagged errors to their code's exit status; anything else,
// such as a cobra flag error, exits 1
func exitCode(err error) int {
	var e *errors.Error
	if errors.As(err, &e) {
		return e.Code.ExitCode()
	}
	return 1
}
