package report

import (
	"slices"

	"github.com/KirkDiggler/rpg-trainer/internal/engine"
	"github.com/KirkDiggler/rpg-trainer/internal/entities/training"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/services/actionindex"
)

// Consistent checks an outcome against itself: exactly one of Report or
// Failure, totals that add up, and every attribute at the cap. It needs no
// catalogue, so it can judge stored outcomes on their own.
func (o *Outcome) Consistent() error {
	if o == nil {
		return errors.SolutionInvariantViolation("outcome is empty")
	}
	if (o.Report == nil) == (o.Failure == nil) {
		return errors.SolutionInvariantViolation("outcome must hold exactly one of report or failure")
	}
	if o.Failure != nil {
		if o.Failure.Status != engine.StatusInfeasible {
			return errors.SolutionInvariantViolationf("failure has status %q", o.Failure.Status).
				WithMeta("status", string(o.Failure.Status))
		}
		return nil
	}

	rep := o.Report
	total := 0
	for _, tier := range rep.Tiers {
		sub := 0
		for _, line := range tier.Actions {
			if line.Count <= 0 {
				return errors.SolutionInvariantViolationf("action %s has count %d", line.Action.GetID(), line.Count).
					WithMeta("action", line.Action.GetID())
			}
			if line.Action.Tier != tier.Tier {
				return errors.SolutionInvariantViolationf("action %s listed under tier %s", line.Action.GetID(), tier.Tier).
					WithMeta("action", line.Action.GetID())
			}
			sub += line.Count
		}
		if sub != tier.Subtotal {
			return errors.SolutionInvariantViolationf("tier %s subtotal %d does not equal %d sessions",
				tier.Tier, tier.Subtotal, sub).
				WithMeta("tier", tier.Tier)
		}
		total += sub
	}
	if total != rep.TotalSessions {
		return errors.SolutionInvariantViolationf("total %d does not equal %d scheduled sessions",
			rep.TotalSessions, total).
			WithMeta("total_sessions", rep.TotalSessions)
	}

	if len(rep.Attributes) == 0 {
		return errors.SolutionInvariantViolation("report lists no attributes")
	}
	for _, a := range rep.Attributes {
		if a.Final != a.Start+a.Gained || a.Final < training.MaxAttributeValue ||
			a.Overtraining != a.Final-training.MaxAttributeValue {
			return errors.SolutionInvariantViolationf("%s finishes at %d from %d%+d", a.Attribute, a.Final, a.Start, a.Gained).
				WithMeta("attribute", string(a.Attribute)).
				WithMeta("final", a.Final)
		}
	}
	return nil
}

// Verify re-derives a previously built outcome from the index and profile it
// claims to answer. The scheduled counts are replayed through Build, and the
// result must agree with the stored report line for line. The returned
// outcome is the rebuilt one, with opts applied.
func Verify(index *actionindex.Index, profile *training.StartingProfile, outcome *Outcome, opts Options) (*Outcome, error) {
	if index == nil {
		return nil, errors.InvalidArgument("action index is required")
	}
	if profile == nil {
		return nil, errors.InvalidArgument("starting profile is required")
	}
	if err := outcome.Consistent(); err != nil {
		return nil, err
	}

	if !outcome.Feasible() {
		return Build(index, profile, &engine.Result{Status: outcome.Failure.Status}, opts)
	}

	stored := outcome.Report
	values := make([]float64, index.Len())
	for _, tier := range stored.Tiers {
		for _, line := range tier.Actions {
			id := line.Action.ID
			if id < 0 || int(id) >= index.Len() {
				return nil, errors.SolutionInvariantViolationf("action id %d outside the index", id).
					WithMeta("action", line.Action.GetID())
			}
			if index.Action(id) != line.Action {
				return nil, errors.SolutionInvariantViolationf("action %d is %s, report names %s",
					id, index.Action(id).GetID(), line.Action.GetID()).
					WithMeta("action", line.Action.GetID())
			}
			if values[id] != 0 {
				return nil, errors.SolutionInvariantViolationf("action %s listed twice", line.Action.GetID()).
					WithMeta("action", line.Action.GetID())
			}
			if !slices.Equal(line.Gains, index.Gains(id)) {
				return nil, errors.SolutionInvariantViolationf("action %s gains differ from the catalogue", line.Action.GetID()).
					WithMeta("action", line.Action.GetID())
			}
			values[id] = float64(line.Count)
		}
	}

	rebuilt, err := Build(index, profile, &engine.Result{
		Status:    engine.StatusOptimal,
		Objective: float64(stored.TotalSessions),
		Values:    values,
	}, opts)
	if err != nil {
		return nil, err
	}

	if len(rebuilt.Report.Tiers) != len(stored.Tiers) {
		return nil, errors.SolutionInvariantViolationf("report lists %d tiers, catalogue has %d",
			len(stored.Tiers), len(rebuilt.Report.Tiers))
	}
	for t, tier := range rebuilt.Report.Tiers {
		if stored.Tiers[t].Tier != tier.Tier {
			return nil, errors.SolutionInvariantViolationf("tier %d is %s, report names %s",
				t, tier.Tier, stored.Tiers[t].Tier).
				WithMeta("tier", tier.Tier)
		}
	}
	if len(rebuilt.Report.Attributes) != len(stored.Attributes) {
		return nil, errors.SolutionInvariantViolationf("report lists %d attributes, catalogue has %d",
			len(stored.Attributes), len(rebuilt.Report.Attributes))
	}
	for a, attr := range rebuilt.Report.Attributes {
		if stored.Attributes[a] != attr {
			return nil, errors.SolutionInvariantViolationf("%s stored as %d, replays to %d",
				attr.Attribute, stored.Attributes[a].Final, attr.Final).
				WithMeta("attribute", string(attr.Attribute))
		}
	}

	return rebuilt, nil
}
