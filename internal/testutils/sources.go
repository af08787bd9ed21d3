package testutils

import (
	"github.com/KirkDiggler/rpg-trainer/internal/clients/tabular"
	"github.com/KirkDiggler/rpg-trainer/internal/services/catalogue"
)

// ProfileSource serves a one-row starting profile table
func ProfileSource(name string, attributes []string, values ...int) tabular.Source {
	return tabular.NewStatic(&tabular.Table{
		Name:    name,
		Columns: append([]string(nil), attributes...),
		Rows:    [][]int{append([]int(nil), values...)},
	})
}

// TierSources serves each fixture as an in-memory tier table
func TierSources(attributes []string, tiers ...TierFixture) []catalogue.TierSource {
	out := make([]catalogue.TierSource, len(tiers))
	for i, tier := range tiers {
		rows := make([][]int, len(tier.Gains))
		for w, gains := range tier.Gains {
			rows[w] = append([]int(nil), gains...)
		}
		out[i] = catalogue.TierSource{
			Name: tier.Name,
			Source: tabular.NewStatic(&tabular.Table{
				Name:    tier.Name + "-rank-data",
				Columns: append([]string(nil), attributes...),
				Rows:    rows,
			}),
		}
	}
	return out
}

// SingleGainTierSources is SingleGainTiers as table sources
func SingleGainTierSources() []catalogue.TierSource {
	return TierSources([]string{"Life"},
		TierFixture{Name: "d", Gains: [][]int{{1}}},
		TierFixture{Name: "b", Gains: [][]int{{1}}},
		TierFixture{Name: "s", Gains: [][]int{{1}}},
	)
}
