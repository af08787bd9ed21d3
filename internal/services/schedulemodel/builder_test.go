package schedulemodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/services/schedulemodel"
	"github.com/KirkDiggler/rpg-trainer/internal/testutils"
)

var lifePower = []string{"Life", "Power"}

func TestBuild_Structure(t *testing.T) {
	cat := testutils.NewCatalogue(lifePower,
		testutils.TierFixture{Name: "d", Gains: [][]int{{1, 0}, {0, 2}}},
		testutils.TierFixture{Name: "b", Gains: [][]int{{3, 0}, {0, 0}}},
		testutils.TierFixture{Name: "s", Gains: [][]int{{5, 5}, {0, 1}}},
	)
	idx := testutils.MustIndex(t, cat)

	model, err := schedulemodel.Build(idx, testutils.NewProfile(lifePower, 990, 999), schedulemodel.Options{})
	require.NoError(t, err)

	assert.Equal(t, schedulemodel.DefaultModelName, model.Name)
	require.Len(t, model.Variables, 6)
	assert.Equal(t, "count_d_0", model.Variables[0].Name)
	assert.Equal(t, "count_s_1", model.Variables[5].Name)
	assert.Equal(t, "s", model.Variables[5].Action.Tier)

	require.Len(t, model.Constraints, 4)

	d := model.Constraints[0]
	assert.Equal(t, "d_rank_coverage", d.Name)
	assert.Equal(t, schedulemodel.KindTierCoverage, d.Kind)
	assert.Equal(t, []schedulemodel.Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}}, d.Terms)
	assert.Equal(t, 1, d.RHS)

	b := model.Constraints[1]
	assert.Equal(t, "b_rank_coverage", b.Name)
	assert.Equal(t, []schedulemodel.Term{{Var: 2, Coef: 1}, {Var: 3, Coef: 1}}, b.Terms)

	life := model.Constraints[2]
	assert.Equal(t, "max_Life", life.Name)
	assert.Equal(t, schedulemodel.KindAttributeCompletion, life.Kind)
	assert.Equal(t, "Life", life.Subject)
	assert.Equal(t, []schedulemodel.Term{{Var: 0, Coef: 1}, {Var: 2, Coef: 3}, {Var: 4, Coef: 5}}, life.Terms)
	assert.Equal(t, 9, life.RHS)

	power := model.Constraints[3]
	assert.Equal(t, "max_Power", power.Name)
	assert.Equal(t, 0, power.RHS, "row kept even though the attribute is already maxed")
	assert.Equal(t, []schedulemodel.Term{{Var: 1, Coef: 2}, {Var: 4, Coef: 5}, {Var: 5, Coef: 1}}, power.Terms)
}

func TestBuild_Deterministic(t *testing.T) {
	cat := testutils.NewCatalogue(lifePower,
		testutils.TierFixture{Name: "d", Gains: [][]int{{1, 0}, {0, 2}}},
		testutils.TierFixture{Name: "b", Gains: [][]int{{3, 4}, {2, 0}}},
	)
	idx := testutils.MustIndex(t, cat)
	profile := testutils.NewProfile(lifePower, 500, 600)

	first, err := schedulemodel.Build(idx, profile, schedulemodel.Options{Name: "run"})
	require.NoError(t, err)
	second, err := schedulemodel.Build(idx, profile, schedulemodel.Options{Name: "run"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())

	other, err := schedulemodel.Build(idx, testutils.NewProfile(lifePower, 501, 600), schedulemodel.Options{Name: "run"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Fingerprint(), other.Fingerprint())
}

func TestBuild_SingleTierHasNoCoverageRows(t *testing.T) {
	cat := testutils.NewCatalogue([]string{"Life"},
		testutils.TierFixture{Name: "s", Gains: [][]int{{2}}},
	)
	model, err := schedulemodel.Build(testutils.MustIndex(t, cat), testutils.NewProfile([]string{"Life"}, 0), schedulemodel.Options{})
	require.NoError(t, err)
	require.Len(t, model.Constraints, 1)
	assert.Equal(t, schedulemodel.KindAttributeCompletion, model.Constraints[0].Kind)
}

func TestBuild_InfeasibleTarget(t *testing.T) {
	cat := testutils.NewCatalogue(lifePower,
		testutils.TierFixture{Name: "d", Gains: [][]int{{1, 0}}},
		testutils.TierFixture{Name: "b", Gains: [][]int{{2, 0}}},
	)
	idx := testutils.MustIndex(t, cat)

	_, err := schedulemodel.Build(idx, testutils.NewProfile(lifePower, 0, 998), schedulemodel.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsInfeasibleTarget(err))
	assert.Equal(t, "Power", errors.GetMeta(err)["attribute"])
	assert.Equal(t, 1, errors.GetMeta(err)["required"])
}

func TestBuild_ZeroGainAttributeAlreadyMaxed(t *testing.T) {
	cat := testutils.NewCatalogue(lifePower,
		testutils.TierFixture{Name: "d", Gains: [][]int{{1, 0}}},
		testutils.TierFixture{Name: "b", Gains: [][]int{{2, 0}}},
	)

	model, err := schedulemodel.Build(testutils.MustIndex(t, cat), testutils.NewProfile(lifePower, 0, 999), schedulemodel.Options{})
	require.NoError(t, err)

	power := model.Constraints[len(model.Constraints)-1]
	assert.Equal(t, "max_Power", power.Name)
	assert.Empty(t, power.Terms)
	assert.Equal(t, 0, power.RHS)
	assert.True(t, power.Satisfied([]int{0, 0}))
}

func TestBuild_UnevenTiers(t *testing.T) {
	cat := testutils.NewCatalogue([]string{"Life"},
		testutils.TierFixture{Name: "d", Gains: [][]int{{1}, {2}}},
		testutils.TierFixture{Name: "b", Gains: [][]int{{1}}},
	)
	idx := testutils.MustIndex(t, cat)
	profile := testutils.NewProfile([]string{"Life"}, 990)

	_, err := schedulemodel.Build(idx, profile, schedulemodel.Options{RequireUniformTiers: true})
	require.Error(t, err)
	assert.True(t, errors.IsSchemaMismatch(err))
	assert.Equal(t, "uneven_tiers", errors.GetMeta(err)["reason"])

	model, err := schedulemodel.Build(idx, profile, schedulemodel.Options{})
	require.NoError(t, err)
	assert.Len(t, model.Variables, 3)
}

func TestBuild_EmptyNonFinalTier(t *testing.T) {
	cat := testutils.NewCatalogue([]string{"Life"},
		testutils.TierFixture{Name: "d", Gains: nil},
		testutils.TierFixture{Name: "b", Gains: [][]int{{1}}},
	)

	_, err := schedulemodel.Build(testutils.MustIndex(t, cat), testutils.NewProfile([]string{"Life"}, 999), schedulemodel.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsInfeasibleTarget(err))
	assert.Equal(t, "d", errors.GetMeta(err)["tier"])
}

func TestBuild_ProfileMismatch(t *testing.T) {
	idx := testutils.MustIndex(t, testutils.SingleGainTiers())

	_, err := schedulemodel.Build(idx, testutils.NewProfile([]string{"Power"}, 1), schedulemodel.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsSchemaMismatch(err))

	_, err = schedulemodel.Build(idx, testutils.NewProfile(lifePower, 1, 1), schedulemodel.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsSchemaMismatch(err))

	_, err = schedulemodel.Build(nil, testutils.NewProfile(lifePower, 1, 1), schedulemodel.Options{})
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = schedulemodel.Build(idx, nil, schedulemodel.Options{})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestModel_ObjectiveAndActivity(t *testing.T) {
	model, err := schedulemodel.Build(
		testutils.MustIndex(t, testutils.SingleGainTiers()),
		testutils.NewProfile([]string{"Life"}, 997),
		schedulemodel.Options{},
	)
	require.NoError(t, err)

	values := []int{1, 1, 0}
	assert.Equal(t, 2, model.ObjectiveValue(values))
	for _, c := range model.Constraints {
		assert.True(t, c.Satisfied(values), c.Name)
	}
	assert.False(t, model.Constraints[1].Satisfied([]int{2, 0, 0}), "b coverage needs a b session")
}
