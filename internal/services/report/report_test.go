package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-trainer/internal/engine"
	"github.com/KirkDiggler/rpg-trainer/internal/entities/training"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/services/actionindex"
	"github.com/KirkDiggler/rpg-trainer/internal/services/report"
	"github.com/KirkDiggler/rpg-trainer/internal/services/schedulemodel"
	"github.com/KirkDiggler/rpg-trainer/internal/testutils"
)

type ReportTestSuite struct {
	suite.Suite
	ctx    context.Context
	solver *testutils.ExhaustiveSolver
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}

func (s *ReportTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.solver = &testutils.ExhaustiveSolver{}
}

// plan runs build, solve and report end to end with the exhaustive solver
func (s *ReportTestSuite) plan(cat *training.Catalogue, profile *training.StartingProfile, opts report.Options) *report.Outcome {
	idx := testutils.MustIndex(s.T(), cat)
	model, err := schedulemodel.Build(idx, profile, schedulemodel.Options{})
	s.Require().NoError(err)

	result, err := s.solver.Solve(s.ctx, model)
	s.Require().NoError(err)

	outcome, err := report.Build(idx, profile, result, opts)
	s.Require().NoError(err)
	s.assertRoundTrip(outcome)
	return outcome
}

func (s *ReportTestSuite) assertRoundTrip(outcome *report.Outcome) {
	if !outcome.Feasible() {
		return
	}
	total := 0
	for _, tier := range outcome.Report.Tiers {
		sub := 0
		for _, line := range tier.Actions {
			s.Positive(line.Count)
			sub += line.Count
		}
		s.Equal(tier.Subtotal, sub)
		total += sub
	}
	s.Equal(outcome.Report.TotalSessions, total)
	for _, a := range outcome.Report.Attributes {
		s.GreaterOrEqual(a.Final, training.MaxAttributeValue)
		s.Equal(a.Start+a.Gained, a.Final)
	}
}

func (s *ReportTestSuite) TestSingleGainTiersNeedsTwoWeeks() {
	outcome := s.plan(testutils.SingleGainTiers(), testutils.NewProfile([]string{"Life"}, 997), report.Options{})

	s.Require().True(outcome.Feasible())
	rep := outcome.Report
	s.Equal(2, rep.TotalSessions)
	s.Equal(1, rep.Tiers[0].Subtotal)
	s.Equal(1, rep.Tiers[1].Subtotal)
	s.Equal(0, rep.Tiers[2].Subtotal)
	s.Empty(rep.Tiers[2].Actions)
	s.Equal(actionindex.ActionRef{ID: 0, Tier: "d", Week: 0}, rep.Tiers[0].Actions[0].Action)
	s.Equal(999, rep.Attributes[0].Final)
	s.Equal(0, rep.Attributes[0].Overtraining)
	s.False(rep.ExceedsUpperBound)
}

func (s *ReportTestSuite) TestDeltaFiveNeedsFiveWeeks() {
	outcome := s.plan(testutils.SingleGainTiers(), testutils.NewProfile([]string{"Life"}, 994), report.Options{})

	s.Require().True(outcome.Feasible())
	s.Equal(5, outcome.Report.TotalSessions)
	s.GreaterOrEqual(outcome.Report.Tiers[0].Subtotal, 1)
	s.GreaterOrEqual(outcome.Report.Tiers[1].Subtotal, 1)
}

func (s *ReportTestSuite) TestMaxedProfile() {
	s.Run("three tiers still need coverage", func() {
		outcome := s.plan(testutils.SingleGainTiers(), testutils.NewProfile([]string{"Life"}, 999), report.Options{})
		s.Require().True(outcome.Feasible())
		s.Equal(2, outcome.Report.TotalSessions)
		s.Equal(2, outcome.Report.Attributes[0].Overtraining)
		s.Equal(2, outcome.Report.TotalOvertraining())
	})

	s.Run("single tier needs nothing", func() {
		cat := testutils.NewCatalogue([]string{"Life"}, testutils.TierFixture{Name: "s", Gains: [][]int{{1}}})
		outcome := s.plan(cat, testutils.NewProfile([]string{"Life"}, 999), report.Options{})
		s.Require().True(outcome.Feasible())
		s.Equal(0, outcome.Report.TotalSessions)
	})
}

func (s *ReportTestSuite) TestZeroGainAttributeAlreadyMaxed() {
	attrs := []string{"Life", "Power"}
	cat := testutils.NewCatalogue(attrs,
		testutils.TierFixture{Name: "d", Gains: [][]int{{1, 0}}},
		testutils.TierFixture{Name: "b", Gains: [][]int{{1, 0}}},
		testutils.TierFixture{Name: "s", Gains: [][]int{{1, 0}}},
	)

	outcome := s.plan(cat, testutils.NewProfile(attrs, 997, 999), report.Options{})

	s.Require().True(outcome.Feasible())
	s.Equal(2, outcome.Report.TotalSessions)
	s.Equal(0, outcome.Report.Attributes[1].Gained)
	s.Equal(999, outcome.Report.Attributes[1].Final)
}

func (s *ReportTestSuite) TestUpperBound() {
	profile := testutils.NewProfile([]string{"Life"}, 994)

	over := s.plan(testutils.SingleGainTiers(), profile, report.Options{UpperBound: 3})
	s.True(over.Report.ExceedsUpperBound)
	s.Equal(3, over.Report.UpperBound)

	within := s.plan(testutils.SingleGainTiers(), profile, report.Options{UpperBound: 23})
	s.False(within.Report.ExceedsUpperBound)

	unchecked := s.plan(testutils.SingleGainTiers(), profile, report.Options{})
	s.False(unchecked.Report.ExceedsUpperBound)
}

func (s *ReportTestSuite) TestStatuses() {
	idx := testutils.MustIndex(s.T(), testutils.SingleGainTiers())
	profile := testutils.NewProfile([]string{"Life"}, 997)

	outcome, err := report.Build(idx, profile, &engine.Result{Status: engine.StatusInfeasible}, report.Options{})
	s.Require().NoError(err)
	s.False(outcome.Feasible())
	s.Equal(engine.StatusInfeasible, outcome.Failure.Status)
	s.NotEmpty(outcome.Failure.Reason)

	_, err = report.Build(idx, profile, &engine.Result{Status: engine.StatusUnbounded}, report.Options{})
	s.True(errors.IsUnboundedUnexpected(err))

	_, err = report.Build(idx, profile, &engine.Result{Status: engine.StatusStopped}, report.Options{})
	s.True(errors.IsSolverBackend(err))
	s.Equal("stopped", errors.GetMeta(err)["status"])

	_, err = report.Build(idx, profile, &engine.Result{Status: "weird"}, report.Options{})
	s.True(errors.IsSolverBackend(err))
}

func (s *ReportTestSuite) TestInvariantViolations() {
	idx := testutils.MustIndex(s.T(), testutils.SingleGainTiers())

	testCases := []struct {
		name   string
		start  int
		result *engine.Result
	}{
		{
			name:   "length mismatch",
			start:  997,
			result: &engine.Result{Status: engine.StatusOptimal, Objective: 2, Values: []float64{1, 1}},
		},
		{
			name:   "fractional value",
			start:  997,
			result: &engine.Result{Status: engine.StatusOptimal, Objective: 2, Values: []float64{1, 0.5, 0.5}},
		},
		{
			name:   "negative value",
			start:  997,
			result: &engine.Result{Status: engine.StatusOptimal, Objective: 2, Values: []float64{2, 1, -1}},
		},
		{
			name:   "objective mismatch",
			start:  997,
			result: &engine.Result{Status: engine.StatusOptimal, Objective: 3, Values: []float64{1, 1, 0}},
		},
		{
			name:   "uncovered tier",
			start:  997,
			result: &engine.Result{Status: engine.StatusOptimal, Objective: 2, Values: []float64{0, 1, 1}},
		},
		{
			name:   "attribute below cap",
			start:  990,
			result: &engine.Result{Status: engine.StatusOptimal, Objective: 2, Values: []float64{1, 1, 0}},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			profile := testutils.NewProfile([]string{"Life"}, tc.start)
			_, err := report.Build(idx, profile, tc.result, report.Options{})
			s.Require().Error(err)
			s.True(errors.IsSolutionInvariantViolation(err), err.Error())
		})
	}
}

func (s *ReportTestSuite) TestToleratesSolverNoise() {
	idx := testutils.MustIndex(s.T(), testutils.SingleGainTiers())
	profile := testutils.NewProfile([]string{"Life"}, 997)

	outcome, err := report.Build(idx, profile, &engine.Result{
		Status:    engine.StatusOptimal,
		Objective: 2.0000000001,
		Values:    []float64{0.9999999, 1.0000001, -0.0000001},
	}, report.Options{})

	s.Require().NoError(err)
	s.Equal(2, outcome.Report.TotalSessions)
}

func (s *ReportTestSuite) TestMissingInputs() {
	idx := testutils.MustIndex(s.T(), testutils.SingleGainTiers())
	profile := testutils.NewProfile([]string{"Life"}, 997)
	result := &engine.Result{Status: engine.StatusInfeasible}

	_, err := report.Build(nil, profile, result, report.Options{})
	s.True(errors.IsInvalidArgument(err))
	_, err = report.Build(idx, nil, result, report.Options{})
	s.True(errors.IsInvalidArgument(err))
	_, err = report.Build(idx, profile, nil, report.Options{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ReportTestSuite) TestProfileMustMatchIndex() {
	idx := testutils.MustIndex(s.T(), testutils.SingleGainTiers())
	result := &engine.Result{Status: engine.StatusOptimal, Objective: 2, Values: []float64{1, 1, 0}}

	testCases := []struct {
		name     string
		profile  *training.StartingProfile
		errCheck func(error) bool
	}{
		{
			name:     "no attributes",
			profile:  &training.StartingProfile{},
			errCheck: errors.IsSchemaMismatch,
		},
		{
			name:     "extra attribute",
			profile:  testutils.NewProfile([]string{"Life", "Power"}, 997, 990),
			errCheck: errors.IsSchemaMismatch,
		},
		{
			name:     "different attribute",
			profile:  testutils.NewProfile([]string{"Power"}, 997),
			errCheck: errors.IsSchemaMismatch,
		},
		{
			name:     "missing value",
			profile:  testutils.NewProfile([]string{"Life"}),
			errCheck: errors.IsInvalidArgument,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.NotPanics(func() {
				_, err := report.Build(idx, tc.profile, result, report.Options{})
				s.Require().Error(err)
				s.True(tc.errCheck(err), err.Error())
			})
		})
	}
}

func (s *ReportTestSuite) TestRender() {
	outcome := s.plan(testutils.SingleGainTiers(), testutils.NewProfile([]string{"Life"}, 994), report.Options{UpperBound: 3})

	var buf bytes.Buffer
	s.Require().NoError(report.Render(&buf, outcome))

	out := buf.String()
	s.Contains(out, "The youngest possible max stats monster is 5 weeks.")
	s.Contains(out, "exceeds the expected upper bound of 3 weeks")
	s.Contains(out, "--- D rank ---")
	s.Contains(out, "--- B rank ---")
	s.Contains(out, "--- S rank ---")
	s.Contains(out, "   Life: 1")
	s.Contains(out, "Life: 994 -> 999 (+5, overtrained by 0)")
}

func (s *ReportTestSuite) TestRenderFailure() {
	var buf bytes.Buffer
	err := report.Render(&buf, &report.Outcome{Failure: &report.FailureReport{
		Status: engine.StatusInfeasible,
		Reason: "nothing works",
	}})

	s.Require().NoError(err)
	s.Equal("No schedule found (infeasible): nothing works\n", buf.String())

	s.True(errors.IsInvalidArgument(report.Render(&buf, nil)))
	s.True(errors.IsInvalidArgument(report.Render(&buf, &report.Outcome{})))
}

func (s *ReportTestSuite) TestOutcomeJSON() {
	outcome := s.plan(testutils.SingleGainTiers(), testutils.NewProfile([]string{"Life"}, 997), report.Options{})

	data, err := json.Marshal(outcome)
	s.Require().NoError(err)
	s.Contains(string(data), `"total_sessions":2`)
	s.Contains(string(data), `"tier":"d"`)
	s.NotContains(string(data), `"failure"`)
}
