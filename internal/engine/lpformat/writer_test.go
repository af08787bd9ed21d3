package lpformat_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-trainer/internal/engine/lpformat"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/services/schedulemodel"
	"github.com/KirkDiggler/rpg-trainer/internal/testutils"
)

func TestWrite_SingleGainTiers(t *testing.T) {
	model, err := schedulemodel.Build(
		testutils.MustIndex(t, testutils.SingleGainTiers()),
		testutils.NewProfile([]string{"Life"}, 997),
		schedulemodel.Options{},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	names, err := lpformat.Write(&buf, model)
	require.NoError(t, err)

	expected := `\ Model youngest_max_stats
\ 3 variables, 3 constraints
Minimize
 obj: count_d_0 + count_b_0 + count_s_0
Subject To
 d_rank_coverage: count_d_0 >= 1
 b_rank_coverage: count_b_0 >= 1
 max_Life: count_d_0 + count_b_0 + count_s_0 >= 2
General
 count_d_0 count_b_0 count_s_0
End
`
	assert.Equal(t, expected, buf.String())
	assert.Equal(t, []string{"count_d_0", "count_b_0", "count_s_0"}, names.Variables)
	assert.Equal(t, map[string]int{"count_d_0": 0, "count_b_0": 1, "count_s_0": 2}, names.VariableIndex())
}

func TestWrite_CoefficientsAndEmptyRows(t *testing.T) {
	cat := testutils.NewCatalogue([]string{"Life", "Power"},
		testutils.TierFixture{Name: "d", Gains: [][]int{{4, 0}}},
		testutils.TierFixture{Name: "s", Gains: [][]int{{7, 0}}},
	)
	model, err := schedulemodel.Build(testutils.MustIndex(t, cat), testutils.NewProfile([]string{"Life", "Power"}, 0, 999), schedulemodel.Options{Name: "coef"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = lpformat.Write(&buf, model)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, " max_Life: 4 count_d_0 + 7 count_s_0 >= 999\n")
	assert.Contains(t, out, " max_Power: 0 count_d_0 >= 0\n")
}

func TestWrite_WrapsLongRows(t *testing.T) {
	gains := make([][]int, 20)
	for i := range gains {
		gains[i] = []int{1}
	}
	cat := testutils.NewCatalogue([]string{"Life"}, testutils.TierFixture{Name: "s", Gains: gains})
	model, err := schedulemodel.Build(testutils.MustIndex(t, cat), testutils.NewProfile([]string{"Life"}, 0), schedulemodel.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = lpformat.Write(&buf, model)
	require.NoError(t, err)

	for _, line := range strings.Split(buf.String(), "\n") {
		assert.Less(t, len(line), 255, line)
	}
}

func TestNamesFor_SanitizesAndDeduplicates(t *testing.T) {
	model := &schedulemodel.Model{
		Name: "odd",
		Variables: []schedulemodel.Variable{
			{Name: "count_rank a_0"},
			{Name: "count_rank-a_0"},
			{Name: "9lives"},
		},
		Constraints: []schedulemodel.Constraint{
			{Name: "rank a coverage"},
		},
	}

	names := lpformat.NamesFor(model)
	assert.Equal(t, []string{"count_rank_a_0", "count_rank_a_0_1", "x_9lives"}, names.Variables)
	assert.Equal(t, []string{"rank_a_coverage"}, names.Constraints)
}

func TestWrite_Rejects(t *testing.T) {
	_, err := lpformat.Write(&bytes.Buffer{}, nil)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = lpformat.Write(&bytes.Buffer{}, &schedulemodel.Model{Name: "empty"})
	assert.True(t, errors.IsInvalidArgument(err))
}
