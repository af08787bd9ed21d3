package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-trainer/internal/clients/planfile"
	"github.com/KirkDiggler/rpg-trainer/internal/clients/tabular"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/services/generator"
)

const manifestName = "plan.yaml"

var generateFlags struct {
	out        string
	attributes []string
	tiers      []string
	weeks      int
	maxGain    int
	maxDeficit int
	upperBound int
}

// roller is swapped in tests for a deterministic one
var roller dice.Roller = dice.DefaultRoller

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Roll a synthetic catalogue and starting profile",
	Long: `Generate rolls dice for every week's gains and for a starting profile, then
writes the tier CSVs, the profile CSV and a plan manifest that solve and
export-lp accept with --plan.`,
	RunE: runGenerate,
}

func init() {
	fs := generateCmd.Flags()
	fs.StringVarP(&generateFlags.out, "out", "o", ".", "directory to write into")
	fs.StringSliceVar(&generateFlags.attributes, "attributes",
		[]string{"Life", "Power", "Intelligence", "Skill", "Speed", "Defense"}, "attribute names")
	fs.StringSliceVar(&generateFlags.tiers, "tiers", []string{"d", "b", "s"}, "tier names in rank order")
	fs.IntVar(&generateFlags.weeks, "weeks", 8, "training weeks per tier")
	fs.IntVar(&generateFlags.maxGain, "max-gain", 20, "largest gain one week can grant")
	fs.IntVar(&generateFlags.maxDeficit, "max-deficit", 200, "largest distance below 999 for a starting attribute")
	fs.IntVar(&generateFlags.upperBound, "upper-bound", 0, "upper bound written into the manifest")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	specs := make([]generator.TierSpec, len(generateFlags.tiers))
	for i, name := range generateFlags.tiers {
		// later tiers train harder
		specs[i] = generator.TierSpec{Name: name, Weeks: generateFlags.weeks, MaxGain: generateFlags.maxGain * (i + 1)}
	}

	g, err := generator.NewGenerator(&generator.Config{
		Roller:             roller,
		Attributes:         generateFlags.attributes,
		Tiers:              specs,
		MaxDeficit:         generateFlags.maxDeficit,
		EnsurePositiveGain: true,
	})
	if err != nil {
		return err
	}

	cat, err := g.Catalogue()
	if err != nil {
		return err
	}
	profile, err := g.Profile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(generateFlags.out, 0o750); err != nil {
		return errors.Wrapf(err, "failed to create %s", generateFlags.out)
	}

	profileTable, tierTables := generator.Tables(cat, profile)
	if err := writeTable(profileTable); err != nil {
		return err
	}

	manifest := &planfile.Manifest{
		Name:       "generated",
		Profile:    profileTable.Name,
		UpperBound: generateFlags.upperBound,
	}
	for i, t := range tierTables {
		if err := writeTable(t); err != nil {
			return err
		}
		manifest.Tiers = append(manifest.Tiers, planfile.TierEntry{Name: cat.Tiers[i].Name, Source: t.Name})
	}

	if err := manifest.Validate(); err != nil {
		return err
	}
	if err := writeFile(manifestName, manifest.Write); err != nil {
		return err
	}

	slog.Info("Generated catalogue",
		"dir", generateFlags.out,
		"tiers", len(cat.Tiers),
		"actions", cat.TotalActions(),
		"attributes", len(cat.Attributes),
	)
	cmd.Printf("Wrote %s\n", filepath.Join(generateFlags.out, manifestName))
	return nil
}

func writeTable(t *tabular.Table) error {
	return writeFile(t.Name, func(f io.Writer) error {
		return tabular.WriteCSV(f, t)
	})
}

func writeFile(name string, write func(io.Writer) error) error {
	path := filepath.Join(generateFlags.out, name)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", path)
	}
	return nil
}
