package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-trainer/internal/engine/lpformat"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/orchestrators/schedule"
)

var exportLPFlags struct {
	sources sourceFlags
	out     string
}

var exportLPCmd = &cobra.Command{
	Use:   "export-lp",
	Short: "Write the schedule model in CPLEX LP format",
	Long: `Export-lp builds the schedule model without solving it and writes it as an
LP file, for inspection or for any MILP solver that reads the format.`,
	RunE: runExportLP,
}

func init() {
	exportLPFlags.sources.register(exportLPCmd.Flags())
	exportLPCmd.Flags().StringVarP(&exportLPFlags.out, "out", "o", "", "output file, stdout when empty")
}

func runExportLP(cmd *cobra.Command, _ []string) error {
	in, err := exportLPFlags.sources.resolve()
	if err != nil {
		return err
	}
	if len(in.profiles) != 1 {
		return errors.InvalidArgumentf("export-lp needs exactly one profile, manifest lists %d", len(in.profiles))
	}

	svc, cleanup, err := newOrchestrator(settings, false)
	if err != nil {
		return err
	}
	defer cleanup()

	built, err := svc.BuildModel(cmd.Context(), &schedule.BuildModelInput{
		Profile: in.profiles[0].Source,
		Tiers:   in.tiers,
		Options: in.options,
	})
	if err != nil {
		return err
	}

	if exportLPFlags.out == "" {
		_, err := lpformat.Write(cmd.OutOrStdout(), built.Model)
		return err
	}

	f, err := os.Create(exportLPFlags.out)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", exportLPFlags.out)
	}
	if _, err := lpformat.Write(f, built.Model); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", exportLPFlags.out)
	}

	slog.Info("Wrote LP model",
		"path", exportLPFlags.out,
		"variables", len(built.Model.Variables),
		"constraints", len(built.Model.Constraints),
	)
	return nil
}
