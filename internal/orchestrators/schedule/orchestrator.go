// Package schedule sequences catalogue loading, model building, solving and
// reporting into planning runs.
package schedule

//go:generate mockgen -destination=mock/mock_service.go -package=schedulemock github.com/KirkDiggler/rpg-trainer/internal/orchestrators/schedule Service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rpg-trainer/internal/clients/tabular"
	"github.com/KirkDiggler/rpg-trainer/internal/engine"
	"github.com/KirkDiggler/rpg-trainer/internal/entities/training"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/pkg/idgen"
	schedulereport "github.com/KirkDiggler/rpg-trainer/internal/repositories/schedule_report"
	"github.com/KirkDiggler/rpg-trainer/internal/services/actionindex"
	"github.com/KirkDiggler/rpg-trainer/internal/services/catalogue"
	"github.com/KirkDiggler/rpg-trainer/internal/services/report"
	"github.com/KirkDiggler/rpg-trainer/internal/services/schedulemodel"
)

// DefaultConcurrency bounds PlanBatch when neither the config nor the input
// set a limit
const DefaultConcurrency = 4

// Service plans training schedules
type Service interface {
	// BuildModel loads the sources and builds the schedule model without
	// solving it
	BuildModel(ctx context.Context, input *BuildModelInput) (*BuildModelOutput, error)

	// Plan runs load, build, solve and report for one starting profile
	Plan(ctx context.Context, input *PlanInput) (*PlanOutput, error)

	// PlanBatch plans several starting profiles against one catalogue
	PlanBatch(ctx context.Context, input *PlanBatchInput) (*PlanBatchOutput, error)
}

// Config holds the dependencies for the schedule orchestrator
type Config struct {
	Solver      engine.Solver
	IDGenerator idgen.Generator

	// Cache is optional; nil disables report caching
	Cache schedulereport.Repository

	// CacheTTL is passed to the cache; zero uses the cache default
	CacheTTL time.Duration

	// Concurrency is the PlanBatch default limit
	Concurrency int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Solver == nil {
		vb.RequiredField("Solver")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.CacheTTL < 0 {
		vb.InvalidField("CacheTTL", "must not be negative")
	}
	errors.ValidateNonNegative("Concurrency", c.Concurrency, vb)

	return vb.Build()
}

type orchestrator struct {
	solver      engine.Solver
	idGen       idgen.Generator
	cache       schedulereport.Repository
	cacheTTL    time.Duration
	concurrency int
}

// NewOrchestrator creates a new schedule orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	concurrency := cfg.Concurrency
	if concurrency == 0 {
		concurrency = DefaultConcurrency
	}

	return &orchestrator{
		solver:      cfg.Solver,
		idGen:       cfg.IDGenerator,
		cache:       cfg.Cache,
		cacheTTL:    cfg.CacheTTL,
		concurrency: concurrency,
	}, nil
}

var _ Service = (*orchestrator)(nil)

func (o *orchestrator) BuildModel(ctx context.Context, input *BuildModelInput) (*BuildModelOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	profile, index, err := o.load(ctx, input.Profile, input.Tiers)
	if err != nil {
		return nil, err
	}

	model, err := o.buildModel(index, profile, input.Options)
	if err != nil {
		return nil, err
	}

	return &BuildModelOutput{Model: model, Index: index}, nil
}

func (o *orchestrator) Plan(ctx context.Context, input *PlanInput) (*PlanOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	profile, index, err := o.load(ctx, input.Profile, input.Tiers)
	if err != nil {
		return nil, err
	}

	return o.plan(ctx, index, profile, input.Options)
}

func (o *orchestrator) PlanBatch(ctx context.Context, input *PlanBatchInput) (*PlanBatchOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if len(input.Profiles) == 0 {
		return nil, errors.InvalidArgument("at least one profile is required")
	}
	if input.Concurrency < 0 {
		return nil, errors.InvalidArgumentf("concurrency must not be negative, got %d", input.Concurrency)
	}

	for i, p := range input.Profiles {
		if p.Source == nil {
			return nil, errors.InvalidArgumentf("profile %d has no source", i).WithMeta("profile", p.Name)
		}
	}

	results := make([]BatchResult, len(input.Profiles))
	profiles := make([]*training.StartingProfile, len(input.Profiles))
	var first *training.StartingProfile
	for i, p := range input.Profiles {
		results[i].Name = p.Name
		profile, err := catalogue.LoadProfile(ctx, p.Source)
		if err != nil {
			if errors.IsCanceled(err) || ctx.Err() != nil {
				return nil, errors.WrapWithCode(err, errors.CodeCanceled, "batch planning canceled")
			}
			results[i].Err = errors.Wrapf(err, "failed to load profile %s", p.Name)
			continue
		}
		profiles[i] = profile
		if first == nil {
			first = profile
		}
	}

	if first == nil {
		slog.Warn("No profile in batch could be loaded", "profiles", len(profiles))
		return &PlanBatchOutput{Results: results}, nil
	}

	// Every profile must share the first loaded profile's attributes; Build
	// rejects any that do not.
	index, err := o.loadIndex(ctx, first.Attributes, input.Tiers)
	if err != nil {
		return nil, err
	}

	limit := input.Concurrency
	if limit == 0 {
		limit = o.concurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range profiles {
		if profiles[i] == nil {
			continue
		}
		g.Go(func() error {
			out, err := o.plan(gctx, index, profiles[i], input.Options)
			if err != nil {
				results[i].Err = err
				if errors.IsCanceled(err) {
					return err
				}
				return nil
			}
			results[i].Output = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "batch planning canceled")
	}

	slog.Info("Planned batch",
		"profiles", len(profiles),
		"concurrency", limit,
	)

	return &PlanBatchOutput{Results: results}, nil
}

func (o *orchestrator) load(ctx context.Context, profileSrc tabular.Source, tiers []catalogue.TierSource) (*training.StartingProfile, *actionindex.Index, error) {
	if profileSrc == nil {
		return nil, nil, errors.InvalidArgument("profile source is required")
	}

	profile, err := catalogue.LoadProfile(ctx, profileSrc)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load starting profile")
	}

	index, err := o.loadIndex(ctx, profile.Attributes, tiers)
	if err != nil {
		return nil, nil, err
	}

	return profile, index, nil
}

func (o *orchestrator) loadIndex(ctx context.Context, attributes []training.Attribute, tiers []catalogue.TierSource) (*actionindex.Index, error) {
	cat, err := catalogue.Load(ctx, attributes, tiers)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load catalogue")
	}

	index, err := actionindex.Build(cat)
	if err != nil {
		return nil, errors.Wrap(err, "failed to index catalogue")
	}

	slog.Debug("Indexed catalogue",
		"tiers", len(cat.Tiers),
		"attributes", len(cat.Attributes),
		"actions", index.Len(),
	)

	return index, nil
}

func (o *orchestrator) buildModel(index *actionindex.Index, profile *training.StartingProfile, opts Options) (*schedulemodel.Model, error) {
	model, err := schedulemodel.Build(index, profile, schedulemodel.Options{
		Name:                opts.ModelName,
		RequireUniformTiers: !opts.AllowUnevenTiers,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build schedule model")
	}
	return model, nil
}

// plan runs everything after loading. index is shared read-only; the model
// and solver result belong to this run.
func (o *orchestrator) plan(ctx context.Context, index *actionindex.Index, profile *training.StartingProfile, opts Options) (*PlanOutput, error) {
	start := time.Now()
	runID := o.idGen.Generate()

	model, err := o.buildModel(index, profile, opts)
	if err != nil {
		return nil, err
	}

	out := &PlanOutput{
		RunID:       runID,
		Fingerprint: model.Fingerprint(),
		Solver:      o.solver.Name(),
	}

	if cached, outcome := o.lookup(ctx, index, profile, out.Fingerprint, opts); cached != nil {
		out.Outcome = outcome
		out.Solver = cached.Solver
		out.Cached = true
		out.Elapsed = time.Since(start)

		slog.Info("Served schedule from cache",
			"run_id", runID,
			"fingerprint", out.Fingerprint,
		)
		return out, nil
	}

	result, err := o.solver.Solve(ctx, model)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.WrapWithCode(err, errors.CodeCanceled, "solve canceled")
		}
		if errors.GetCode(err) == errors.CodeInternal {
			return nil, errors.WrapWithCodef(err, errors.CodeSolverBackend, "%s solver failed", o.solver.Name())
		}
		return nil, errors.Wrapf(err, "%s solver failed", o.solver.Name())
	}

	outcome, err := report.Build(index, profile, result, report.Options{UpperBound: opts.UpperBound})
	if err != nil {
		return nil, errors.Wrap(err, "failed to report schedule").
			WithMeta("run_id", runID)
	}
	out.Outcome = outcome
	out.Elapsed = time.Since(start)

	o.store(ctx, out, opts)

	if outcome.Feasible() {
		slog.Info("Planned schedule",
			"run_id", runID,
			"solver", out.Solver,
			"total_sessions", outcome.Report.TotalSessions,
			"overtraining", outcome.Report.TotalOvertraining(),
			"elapsed", out.Elapsed,
		)
	} else {
		slog.Info("No schedule exists",
			"run_id", runID,
			"solver", out.Solver,
			"status", outcome.Failure.Status,
		)
	}

	return out, nil
}

// lookup returns nil on any miss; cache trouble never fails a run. A hit is
// replayed against the index and profile, and an entry that no longer
// verifies is evicted and treated as a miss.
func (o *orchestrator) lookup(ctx context.Context, index *actionindex.Index, profile *training.StartingProfile, fingerprint string, opts Options) (*schedulereport.Entry, *report.Outcome) {
	if o.cache == nil || opts.SkipCache {
		return nil, nil
	}

	got, err := o.cache.Get(ctx, schedulereport.GetInput{Fingerprint: fingerprint})
	if err != nil {
		if !errors.IsNotFound(err) {
			slog.Warn("Report cache lookup failed", "fingerprint", fingerprint, "error", err)
		}
		return nil, nil
	}
	if got == nil || got.Entry == nil {
		return nil, nil
	}

	outcome, err := report.Verify(index, profile, got.Entry.Outcome, report.Options{UpperBound: opts.UpperBound})
	if err != nil {
		slog.Warn("Cached report failed verification, evicting",
			"fingerprint", fingerprint,
			"error", err,
		)
		if _, delErr := o.cache.Delete(ctx, schedulereport.DeleteInput{Fingerprint: fingerprint}); delErr != nil {
			slog.Warn("Report cache evict failed", "fingerprint", fingerprint, "error", delErr)
		}
		return nil, nil
	}
	return got.Entry, outcome
}

func (o *orchestrator) store(ctx context.Context, out *PlanOutput, opts Options) {
	if o.cache == nil || opts.SkipCache {
		return
	}

	_, err := o.cache.Put(ctx, schedulereport.PutInput{
		Fingerprint: out.Fingerprint,
		Solver:      out.Solver,
		Outcome:     out.Outcome,
		TTL:         o.cacheTTL,
	})
	if err != nil {
		slog.Warn("Report cache store failed", "fingerprint", out.Fingerprint, "error", err)
	}
}
