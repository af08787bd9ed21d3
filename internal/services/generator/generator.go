// Package generator rolls synthetic training catalogues and starting
// profiles, for demos and for property tests of the planner.
package generator

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-trainer/internal/clients/tabular"
	"github.com/KirkDiggler/rpg-trainer/internal/entities/training"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
)

// TierSpec shapes one generated tier
type TierSpec struct {
	Name  string
	Weeks int

	// MaxGain is the largest gain a single week can grant
	MaxGain int
}

// Config holds the settings for a generator
type Config struct {
	Roller     dice.Roller
	Attributes []string
	Tiers      []TierSpec

	// MaxDeficit is the largest distance below the cap a starting
	// attribute may be rolled
	MaxDeficit int

	// EnsurePositiveGain guarantees every attribute has at least one
	// positive gain somewhere in the catalogue
	EnsurePositiveGain bool
}

// Validate ensures the settings can produce a catalogue
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if len(c.Attributes) == 0 {
		vb.RequiredField("Attributes")
	}
	seen := make(map[string]bool, len(c.Attributes))
	for _, a := range c.Attributes {
		if a == "" {
			vb.InvalidField("Attributes", "names must not be empty")
		}
		if seen[a] {
			vb.Fieldf("Attributes", "%s is listed twice", a)
		}
		seen[a] = true
	}

	if len(c.Tiers) == 0 {
		vb.RequiredField("Tiers")
	}
	for _, t := range c.Tiers {
		if t.Name == "" {
			vb.InvalidField("Tiers", "names must not be empty")
		}
		if t.Weeks < 1 {
			vb.Fieldf("Tiers", "tier %s needs at least one week", t.Name)
		}
		if t.MaxGain < 1 {
			vb.Fieldf("Tiers", "tier %s needs a positive max gain", t.Name)
		}
	}

	if c.MaxDeficit < 0 || c.MaxDeficit > training.MaxAttributeValue {
		vb.Fieldf("MaxDeficit", "must be between 0 and %d", training.MaxAttributeValue)
	}

	return vb.Build()
}

// Generator rolls catalogues and profiles
type Generator struct {
	roller     dice.Roller
	attributes []training.Attribute
	tiers      []TierSpec
	maxDeficit int
	ensure     bool
}

// NewGenerator creates a generator
func NewGenerator(cfg *Config) (*Generator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	attrs := make([]training.Attribute, len(cfg.Attributes))
	for i, a := range cfg.Attributes {
		attrs[i] = training.Attribute(a)
	}

	return &Generator{
		roller:     cfg.Roller,
		attributes: attrs,
		tiers:      append([]TierSpec(nil), cfg.Tiers...),
		maxDeficit: cfg.MaxDeficit,
		ensure:     cfg.EnsurePositiveGain,
	}, nil
}

// Catalogue rolls every week's gains. Each gain is one die of MaxGain+1
// faces, minus one, so zero gains occur.
func (g *Generator) Catalogue() (*training.Catalogue, error) {
	cat := &training.Catalogue{
		Attributes: append([]training.Attribute(nil), g.attributes...),
		Tiers:      make([]training.Tier, len(g.tiers)),
	}

	for t, spec := range g.tiers {
		tier := training.Tier{Name: spec.Name, Actions: make([]training.Action, spec.Weeks)}
		for w := 0; w < spec.Weeks; w++ {
			rolls, err := g.roller.RollN(len(g.attributes), spec.MaxGain+1)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to roll tier %s week %d", spec.Name, w)
			}
			gains := make([]int, len(rolls))
			for a, r := range rolls {
				gains[a] = r - 1
			}
			tier.Actions[w] = training.Action{Tier: spec.Name, Week: w, Gains: gains}
		}
		cat.Tiers[t] = tier
	}

	if g.ensure {
		if err := g.ensurePositive(cat); err != nil {
			return nil, err
		}
	}

	return cat, nil
}

// ensurePositive gives every all-zero attribute a gain of 1 in a rolled week
func (g *Generator) ensurePositive(cat *training.Catalogue) error {
	total := cat.TotalActions()
	for a := range cat.Attributes {
		if hasPositive(cat, a) {
			continue
		}

		r, err := g.roller.Roll(total)
		if err != nil {
			return errors.Wrapf(err, "failed to pick a week for %s", cat.Attributes[a])
		}

		pick := r - 1
		for t := range cat.Tiers {
			if pick < len(cat.Tiers[t].Actions) {
				cat.Tiers[t].Actions[pick].Gains[a] = 1
				break
			}
			pick -= len(cat.Tiers[t].Actions)
		}
	}
	return nil
}

func hasPositive(cat *training.Catalogue, attr int) bool {
	for _, tier := range cat.Tiers {
		for _, action := range tier.Actions {
			if action.Gains[attr] > 0 {
				return true
			}
		}
	}
	return false
}

// Profile rolls a starting profile between cap-MaxDeficit and the cap
func (g *Generator) Profile() (*training.StartingProfile, error) {
	p := &training.StartingProfile{
		Attributes: append([]training.Attribute(nil), g.attributes...),
		Values:     make([]int, len(g.attributes)),
	}

	if g.maxDeficit == 0 {
		for i := range p.Values {
			p.Values[i] = training.MaxAttributeValue
		}
		return p, nil
	}

	rolls, err := g.roller.RollN(len(g.attributes), g.maxDeficit+1)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll starting profile")
	}
	for i, r := range rolls {
		p.Values[i] = training.MaxAttributeValue - (r - 1)
	}
	return p, nil
}

// Tables renders a catalogue and profile as tables, named after the files
// the generate command writes
func Tables(cat *training.Catalogue, profile *training.StartingProfile) (*tabular.Table, []*tabular.Table) {
	columns := make([]string, len(cat.Attributes))
	for i, a := range cat.Attributes {
		columns[i] = string(a)
	}

	var profileTable *tabular.Table
	if profile != nil {
		profileTable = &tabular.Table{
			Name:    "starting-data.csv",
			Columns: columns,
			Rows:    [][]int{append([]int(nil), profile.Values...)},
		}
	}

	tiers := make([]*tabular.Table, len(cat.Tiers))
	for t, tier := range cat.Tiers {
		rows := make([][]int, len(tier.Actions))
		for w, action := range tier.Actions {
			rows[w] = append([]int(nil), action.Gains...)
		}
		tiers[t] = &tabular.Table{
			Name:    fmt.Sprintf("%s-rank-data.csv", strings.ToUpper(tier.Name)),
			Columns: append([]string(nil), columns...),
			Rows:    rows,
		}
	}

	return profileTable, tiers
}
