package report

import (
	"log/slog"
	"math"

	"github.com/KirkDiggler/rpg-trainer/internal/engine"
	"github.com/KirkDiggler/rpg-trainer/internal/entities/training"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/services/actionindex"
	"github.com/KirkDiggler/rpg-trainer/internal/services/schedulemodel"
)

// Tolerance is how far a solver value may sit from an integer
const Tolerance = 1e-6

// Build interprets a solver result against the index and profile it was
// produced from. Infeasibility is an Outcome with a Failure; unbounded and
// stopped results and any schedule that breaks the model's rows are errors.
func Build(index *actionindex.Index, profile *training.StartingProfile, result *engine.Result, opts Options) (*Outcome, error) {
	if index == nil {
		return nil, errors.InvalidArgument("action index is required")
	}
	if profile == nil {
		return nil, errors.InvalidArgument("starting profile is required")
	}
	if result == nil {
		return nil, errors.InvalidArgument("solver result is required")
	}
	if err := schedulemodel.CheckProfile(index.Attributes(), profile); err != nil {
		return nil, errors.Wrap(err, "profile does not match the action index")
	}

	switch result.Status {
	case engine.StatusOptimal:
	case engine.StatusInfeasible:
		return &Outcome{Failure: &FailureReport{
			Status: result.Status,
			Reason: "no training schedule reaches the attribute cap under the tier coverage rules",
		}}, nil
	case engine.StatusUnbounded:
		return nil, errors.UnboundedUnexpectedf("solver reported an unbounded schedule model over %d actions", index.Len()).
			WithMeta("status", string(result.Status))
	case engine.StatusStopped:
		return nil, errors.SolverBackend("solver stopped before proving optimality").
			WithMeta("status", string(result.Status))
	default:
		return nil, errors.SolverBackendf("unknown solver status %q", result.Status).
			WithMeta("status", string(result.Status))
	}

	counts, err := roundValues(index, result.Values)
	if err != nil {
		return nil, err
	}

	rep := &Report{UpperBound: opts.UpperBound}
	for _, c := range counts {
		rep.TotalSessions += c
	}

	if math.Abs(result.Objective-float64(rep.TotalSessions)) > Tolerance {
		return nil, errors.SolutionInvariantViolationf("objective %g does not equal %d scheduled sessions",
			result.Objective, rep.TotalSessions).
			WithMeta("objective", result.Objective).
			WithMeta("total_sessions", rep.TotalSessions)
	}

	tiers := index.Tiers()
	rep.Tiers = make([]TierBreakdown, len(tiers))
	for t, tier := range tiers {
		ids, err := index.ActionsInTier(tier)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list tier %s", tier)
		}

		tb := TierBreakdown{Tier: tier, Actions: []ActionLine{}}
		for _, id := range ids {
			if counts[id] == 0 {
				continue
			}
			tb.Subtotal += counts[id]
			tb.Actions = append(tb.Actions, ActionLine{
				Action: index.Action(id),
				Count:  counts[id],
				Gains:  index.Gains(id),
			})
		}

		if t < len(tiers)-1 && tb.Subtotal < 1 {
			return nil, errors.SolutionInvariantViolationf("tier %s has no sessions", tier).
				WithMeta("tier", tier)
		}
		rep.Tiers[t] = tb
	}

	attributes := index.Attributes()
	rep.Attributes = make([]AttributeResult, len(attributes))
	for a, attr := range attributes {
		gained := 0
		for id, c := range counts {
			gained += c * index.Gain(actionindex.ActionID(id), a)
		}

		final := profile.Values[a] + gained
		if final < training.MaxAttributeValue {
			return nil, errors.SolutionInvariantViolationf("%s finishes at %d, below %d",
				attr, final, training.MaxAttributeValue).
				WithMeta("attribute", string(attr)).
				WithMeta("final", final)
		}

		rep.Attributes[a] = AttributeResult{
			Attribute:    attr,
			Start:        profile.Values[a],
			Gained:       gained,
			Final:        final,
			Overtraining: final - training.MaxAttributeValue,
		}
	}

	if opts.UpperBound > 0 && rep.TotalSessions > opts.UpperBound {
		rep.ExceedsUpperBound = true
		slog.Warn("Schedule exceeds upper bound",
			"total_sessions", rep.TotalSessions,
			"upper_bound", opts.UpperBound,
		)
	}

	return &Outcome{Report: rep}, nil
}

func roundValues(index *actionindex.Index, values []float64) ([]int, error) {
	if len(values) != index.Len() {
		return nil, errors.SolutionInvariantViolationf("solver returned %d values for %d actions",
			len(values), index.Len())
	}

	counts := make([]int, len(values))
	for i, v := range values {
		r := math.Round(v)
		if math.Abs(v-r) > Tolerance {
			return nil, errors.SolutionInvariantViolationf("fractional count %g", v).
				WithMeta("action", index.Action(actionindex.ActionID(i)).GetID())
		}
		if r < 0 {
			return nil, errors.SolutionInvariantViolationf("negative count %g", v).
				WithMeta("action", index.Action(actionindex.ActionID(i)).GetID())
		}
		counts[i] = int(r)
	}
	return counts, nil
}
