package schedule

import (
	"time"

	"github.com/KirkDiggler/rpg-trainer/internal/clients/tabular"
	"github.com/KirkDiggler/rpg-trainer/internal/services/actionindex"
	"github.com/KirkDiggler/rpg-trainer/internal/services/catalogue"
	"github.com/KirkDiggler/rpg-trainer/internal/services/report"
	"github.com/KirkDiggler/rpg-trainer/internal/services/schedulemodel"
)

// Options shape one planning run
type Options struct {
	// ModelName labels the schedule model; empty uses the default
	ModelName string

	// UpperBound flags schedules longer than this; 0 disables the check
	UpperBound int

	// AllowUnevenTiers downgrades the uniform tier size check to a warning
	AllowUnevenTiers bool

	// SkipCache bypasses the report cache for both lookup and store
	SkipCache bool
}

// BuildModelInput names the data a schedule model is built from
type BuildModelInput struct {
	Profile tabular.Source
	Tiers   []catalogue.TierSource
	Options Options
}

// BuildModelOutput holds the built model and the index it refers to
type BuildModelOutput struct {
	Model *schedulemodel.Model
	Index *actionindex.Index
}

// PlanInput contains the sources for a single planning run
type PlanInput struct {
	Profile tabular.Source
	Tiers   []catalogue.TierSource
	Options Options
}

// PlanOutput is the result of one planning run
type PlanOutput struct {
	RunID       string
	Fingerprint string
	Solver      string
	Outcome     *report.Outcome

	// Cached is true when the outcome came from the report cache
	Cached bool

	Elapsed time.Duration
}

// ProfileSource is one named starting profile in a batch
type ProfileSource struct {
	Name   string
	Source tabular.Source
}

// PlanBatchInput plans several profiles against one shared catalogue
type PlanBatchInput struct {
	Profiles []ProfileSource
	Tiers    []catalogue.TierSource
	Options  Options

	// Concurrency bounds simultaneous solves; 0 uses the service default
	Concurrency int
}

// BatchResult is the outcome of one profile in a batch. Exactly one of
// Output or Err is set.
type BatchResult struct {
	Name   string
	Output *PlanOutput
	Err    error
}

// PlanBatchOutput lists results in input order
type PlanBatchOutput struct {
	Results []BatchResult
}
