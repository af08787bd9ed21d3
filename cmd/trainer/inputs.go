package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/KirkDiggler/rpg-trainer/internal/clients/planfile"
	"github.com/KirkDiggler/rpg-trainer/internal/clients/tabular"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/orchestrators/schedule"
	"github.com/KirkDiggler/rpg-trainer/internal/services/catalogue"
)

// defaultTiers mirrors the classic three-tier layout in the working directory
var defaultTiers = []string{"d=D-rank-data.csv", "b=B-rank-data.csv", "s=S-rank-data.csv"}

// sourceFlags select a plan manifest or explicit CSV files
type sourceFlags struct {
	plan             string
	profile          string
	tiers            []string
	upperBound       int
	allowUnevenTiers bool
	modelName        string
}

func (f *sourceFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.plan, "plan", "p", "", "YAML plan manifest; overrides --profile and --tier")
	fs.StringVar(&f.profile, "profile", "starting-data.csv", "starting profile CSV")
	fs.StringArrayVar(&f.tiers, "tier", defaultTiers, "tier as name=path, in rank order (repeatable)")
	fs.IntVar(&f.upperBound, "upper-bound", 0, "flag schedules longer than this many weeks, 0 disables")
	fs.BoolVar(&f.allowUnevenTiers, "allow-uneven-tiers", false, "warn instead of failing when tiers differ in size")
	fs.StringVar(&f.modelName, "model-name", "", "name written into the model")
}

// resolved is what the orchestrator needs from either input style
type resolved struct {
	profiles []schedule.ProfileSource
	tiers    []catalogue.TierSource
	options  schedule.Options
}

func (f *sourceFlags) resolve() (*resolved, error) {
	if f.plan != "" {
		return f.fromManifest()
	}

	tiers, err := parseTierFlags(f.tiers)
	if err != nil {
		return nil, err
	}
	if f.profile == "" {
		return nil, errors.InvalidArgument("--profile is required without --plan")
	}
	if f.upperBound < 0 {
		return nil, errors.InvalidArgumentf("--upper-bound must not be negative, got %d", f.upperBound)
	}

	return &resolved{
		profiles: []schedule.ProfileSource{{Name: f.profile, Source: tabular.NewCSVFile(f.profile)}},
		tiers:    tiers,
		options: schedule.Options{
			ModelName:        f.modelName,
			UpperBound:       f.upperBound,
			AllowUnevenTiers: f.allowUnevenTiers,
		},
	}, nil
}

func (f *sourceFlags) fromManifest() (*resolved, error) {
	m, err := planfile.Load(f.plan)
	if err != nil {
		return nil, err
	}

	entries := m.ProfileEntries()
	profiles := make([]schedule.ProfileSource, len(entries))
	for i, e := range entries {
		profiles[i] = schedule.ProfileSource{Name: e.Name, Source: tabular.NewCSVFile(e.Path)}
	}

	opts := schedule.Options{
		ModelName:        m.Name,
		UpperBound:       m.UpperBound,
		AllowUnevenTiers: !m.UniformTiersRequired() || f.allowUnevenTiers,
	}
	if f.modelName != "" {
		opts.ModelName = f.modelName
	}
	if f.upperBound > 0 {
		opts.UpperBound = f.upperBound
	}

	return &resolved{profiles: profiles, tiers: m.TierSources(), options: opts}, nil
}

// parseTierFlags turns "name=path" values into ordered tier sources
func parseTierFlags(values []string) ([]catalogue.TierSource, error) {
	if len(values) == 0 {
		return nil, errors.InvalidArgument("at least one --tier is required")
	}

	tiers := make([]catalogue.TierSource, len(values))
	for i, v := range values {
		name, path, ok := strings.Cut(v, "=")
		name = strings.TrimSpace(name)
		path = strings.TrimSpace(path)
		if !ok || name == "" || path == "" {
			return nil, errors.InvalidArgumentf("tier %q must look like name=path", v).WithMeta("tier", v)
		}
		tiers[i] = catalogue.TierSource{Name: name, Source: tabular.NewCSVFile(path)}
	}
	return tiers, nil
}
