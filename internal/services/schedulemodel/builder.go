package schedulemodel

import (
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-trainer/internal/entities/training"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/services/actionindex"
)

// DefaultModelName is used when Options.Name is empty
const DefaultModelName = "youngest_max_stats"

// Options tunes model construction
type Options struct {
	// Name labels the model in solver files and logs
	Name string

	// RequireUniformTiers fails the build when tiers hold different
	// numbers of actions. When false the mismatch is only logged.
	RequireUniformTiers bool
}

// Build assembles the integer program. Variables follow index id order,
// tier-coverage rows follow tier order and attribute rows follow attribute
// order, so equal inputs always produce equal models.
func Build(index *actionindex.Index, profile *training.StartingProfile, opts Options) (*Model, error) {
	if index == nil {
		return nil, errors.InvalidArgument("action index is required")
	}
	if profile == nil {
		return nil, errors.InvalidArgument("starting profile is required")
	}

	attributes := index.Attributes()
	if err := CheckProfile(attributes, profile); err != nil {
		return nil, err
	}

	tiers := index.Tiers()
	if len(tiers) == 0 {
		return nil, errors.InvalidArgument("catalogue has no tiers")
	}
	tierIDs := make([][]actionindex.ActionID, len(tiers))
	for i, tier := range tiers {
		ids, err := index.ActionsInTier(tier)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list tier %s", tier)
		}
		tierIDs[i] = ids
	}

	if err := checkUniform(tiers, tierIDs, opts.RequireUniformTiers); err != nil {
		return nil, err
	}
	if err := checkReachable(index, attributes, profile, tiers, tierIDs); err != nil {
		return nil, err
	}

	name := opts.Name
	if name == "" {
		name = DefaultModelName
	}

	model := &Model{
		Name:        name,
		Variables:   make([]Variable, index.Len()),
		Constraints: make([]Constraint, 0, len(tiers)-1+len(attributes)),
	}

	for i := 0; i < index.Len(); i++ {
		ref := index.Action(actionindex.ActionID(i))
		model.Variables[i] = Variable{
			Name:   fmt.Sprintf("count_%s_%d", ref.Tier, ref.Week),
			Action: ref,
		}
	}

	for t := 0; t < len(tiers)-1; t++ {
		terms := make([]Term, len(tierIDs[t]))
		for i, id := range tierIDs[t] {
			terms[i] = Term{Var: int(id), Coef: 1}
		}
		model.Constraints = append(model.Constraints, Constraint{
			Name:    fmt.Sprintf("%s_rank_coverage", tiers[t]),
			Kind:    KindTierCoverage,
			Subject: tiers[t],
			Terms:   terms,
			RHS:     1,
		})
	}

	for a, attr := range attributes {
		var terms []Term
		for i := 0; i < index.Len(); i++ {
			if g := index.Gain(actionindex.ActionID(i), a); g != 0 {
				terms = append(terms, Term{Var: i, Coef: g})
			}
		}

		required := profile.Required(a)
		// A row with RHS 0 is still emitted; dropping it would hide the
		// attribute from every later check.
		model.Constraints = append(model.Constraints, Constraint{
			Name:    fmt.Sprintf("max_%s", attr),
			Kind:    KindAttributeCompletion,
			Subject: string(attr),
			Terms:   terms,
			RHS:     required,
		})

		slog.Debug("Attribute constraint added",
			"position", a+1,
			"attribute", string(attr),
			"required", required,
		)
	}

	return model, nil
}

// CheckProfile fails unless the profile lists exactly the given attributes,
// in order, with one value each
func CheckProfile(attributes []training.Attribute, profile *training.StartingProfile) error {
	if len(profile.Values) != len(profile.Attributes) {
		return errors.InvalidArgumentf("profile has %d values for %d attributes",
			len(profile.Values), len(profile.Attributes))
	}
	if len(attributes) != len(profile.Attributes) {
		return errors.SchemaMismatchf("profile has %d attributes, catalogue has %d",
			len(profile.Attributes), len(attributes))
	}
	for i, attr := range attributes {
		if profile.Attributes[i] != attr {
			return errors.SchemaMismatchf("profile attribute %d is %s, catalogue expects %s",
				i, profile.Attributes[i], attr).
				WithMeta("attribute", string(attr))
		}
	}
	return nil
}

func checkUniform(tiers []string, tierIDs [][]actionindex.ActionID, required bool) error {
	sizes := make(map[string]int, len(tiers))
	uniform := true
	for i, tier := range tiers {
		sizes[tier] = len(tierIDs[i])
		if len(tierIDs[i]) != len(tierIDs[0]) {
			uniform = false
		}
	}
	if uniform {
		return nil
	}

	if required {
		return errors.SchemaMismatch("tiers hold different numbers of actions").
			WithMeta("reason", "uneven_tiers").
			WithMeta("tier_sizes", sizes)
	}

	slog.Warn("Tiers hold different numbers of actions", "tier_sizes", sizes)
	return nil
}

// checkReachable proves infeasibility cheaply before any solver runs: an
// attribute that must grow but has no positive gain anywhere, or a
// non-final tier with no actions to cover it.
func checkReachable(
	index *actionindex.Index,
	attributes []training.Attribute,
	profile *training.StartingProfile,
	tiers []string,
	tierIDs [][]actionindex.ActionID,
) error {
	var stuck []string
	for a, attr := range attributes {
		if profile.Required(a) > 0 && !index.HasPositiveGain(a) {
			stuck = append(stuck, string(attr))
		}
	}
	if len(stuck) > 0 {
		first, _ := index.AttributeIndex(training.Attribute(stuck[0]))
		return errors.InfeasibleTargetf("no action raises %s, which needs %d more", stuck[0], profile.Required(first)).
			WithMeta("attribute", stuck[0]).
			WithMeta("attributes", stuck).
			WithMeta("required", profile.Required(first))
	}

	for t := 0; t < len(tiers)-1; t++ {
		if len(tierIDs[t]) == 0 {
			return errors.InfeasibleTargetf("tier %s needs a session but has no actions", tiers[t]).
				WithMeta("tier", tiers[t])
		}
	}

	return nil
}
