package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-trainer/internal/entities/training"
	"github.com/KirkDiggler/rpg-trainer/internal/services/actionindex"
)

// TierFixture describes one tier as rows of gains
type TierFixture struct {
	Name  string
	Gains [][]int
}

// NewCatalogue builds a catalogue directly, skipping table sources
func NewCatalogue(attributes []string, tiers ...TierFixture) *training.Catalogue {
	cat := &training.Catalogue{
		Attributes: make([]training.Attribute, len(attributes)),
		Tiers:      make([]training.Tier, len(tiers)),
	}
	for i, a := range attributes {
		cat.Attributes[i] = training.Attribute(a)
	}
	for t, tier := range tiers {
		cat.Tiers[t] = training.Tier{Name: tier.Name, Actions: make([]training.Action, len(tier.Gains))}
		for w, gains := range tier.Gains {
			cat.Tiers[t].Actions[w] = training.Action{
				Tier:  tier.Name,
				Week:  w,
				Gains: append([]int(nil), gains...),
			}
		}
	}
	return cat
}

// NewProfile builds a starting profile
func NewProfile(attributes []string, values ...int) *training.StartingProfile {
	p := &training.StartingProfile{
		Attributes: make([]training.Attribute, len(attributes)),
		Values:     append([]int(nil), values...),
	}
	for i, a := range attributes {
		p.Attributes[i] = training.Attribute(a)
	}
	return p
}

// MustIndex builds an action index or fails the test
func MustIndex(t *testing.T, cat *training.Catalogue) *actionindex.Index {
	t.Helper()
	idx, err := actionindex.Build(cat)
	require.NoError(t, err)
	return idx
}

// SingleGainTiers is the d/b/s catalogue where every tier has exactly one
// action granting 1 to a single "Life" attribute.
func SingleGainTiers() *training.Catalogue {
	return NewCatalogue([]string{"Life"},
		TierFixture{Name: "d", Gains: [][]int{{1}}},
		TierFixture{Name: "b", Gains: [][]int{{1}}},
		TierFixture{Name: "s", Gains: [][]int{{1}}},
	)
}
