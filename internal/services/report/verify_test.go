package report_test

import (
	"encoding/json"

	"github.com/KirkDiggler/rpg-trainer/internal/engine"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/services/actionindex"
	"github.com/KirkDiggler/rpg-trainer/internal/services/report"
	"github.com/KirkDiggler/rpg-trainer/internal/testutils"
)

// stored round-trips an outcome through JSON, as the report cache does
func (s *ReportTestSuite) stored(outcome *report.Outcome) *report.Outcome {
	data, err := json.Marshal(outcome)
	s.Require().NoError(err)
	var out report.Outcome
	s.Require().NoError(json.Unmarshal(data, &out))
	return &out
}

func (s *ReportTestSuite) TestVerifyReplaysStoredOutcome() {
	idx := testutils.MustIndex(s.T(), testutils.SingleGainTiers())
	profile := testutils.NewProfile([]string{"Life"}, 994)
	outcome := s.plan(testutils.SingleGainTiers(), profile, report.Options{})

	verified, err := report.Verify(idx, profile, s.stored(outcome), report.Options{UpperBound: 3})

	s.Require().NoError(err)
	s.Require().True(verified.Feasible())
	s.Equal(outcome.Report.Tiers, verified.Report.Tiers)
	s.Equal(outcome.Report.Attributes, verified.Report.Attributes)
	s.True(verified.Report.ExceedsUpperBound)
	s.Equal(3, verified.Report.UpperBound)
}

func (s *ReportTestSuite) TestVerifyFailureOutcome() {
	idx := testutils.MustIndex(s.T(), testutils.SingleGainTiers())
	profile := testutils.NewProfile([]string{"Life"}, 997)

	verified, err := report.Verify(idx, profile, &report.Outcome{Failure: &report.FailureReport{
		Status: engine.StatusInfeasible,
		Reason: "stored",
	}}, report.Options{})
	s.Require().NoError(err)
	s.False(verified.Feasible())

	_, err = report.Verify(idx, profile, &report.Outcome{Failure: &report.FailureReport{
		Status: engine.StatusStopped,
	}}, report.Options{})
	s.True(errors.IsSolutionInvariantViolation(err))
}

func (s *ReportTestSuite) TestVerifyRejectsBrokenOutcomes() {
	idx := testutils.MustIndex(s.T(), testutils.SingleGainTiers())

	testCases := []struct {
		name   string
		start  int
		mutate func(*report.Outcome)
	}{
		{
			name:  "profile moved since caching",
			start: 990,
		},
		{
			name:  "inflated total",
			start: 997,
			mutate: func(o *report.Outcome) {
				o.Report.TotalSessions = 3
			},
		},
		{
			name:  "subtotal disagrees",
			start: 997,
			mutate: func(o *report.Outcome) {
				o.Report.Tiers[0].Subtotal = 2
			},
		},
		{
			name:  "action outside index",
			start: 997,
			mutate: func(o *report.Outcome) {
				o.Report.Tiers[0].Actions[0].Action.ID = 7
			},
		},
		{
			name:  "action renamed",
			start: 997,
			mutate: func(o *report.Outcome) {
				o.Report.Tiers[0].Actions[0].Action = actionindex.ActionRef{ID: 0, Tier: "d", Week: 4}
			},
		},
		{
			name:  "action listed twice",
			start: 997,
			mutate: func(o *report.Outcome) {
				line := o.Report.Tiers[0].Actions[0]
				o.Report.Tiers[0].Actions = append(o.Report.Tiers[0].Actions, line)
				o.Report.Tiers[0].Subtotal = 2
				o.Report.TotalSessions = 3
			},
		},
		{
			name:  "gains changed",
			start: 997,
			mutate: func(o *report.Outcome) {
				o.Report.Tiers[1].Actions[0].Gains = []int{3}
			},
		},
		{
			name:  "zero count line",
			start: 997,
			mutate: func(o *report.Outcome) {
				o.Report.Tiers[1].Actions[0].Count = 0
				o.Report.Tiers[1].Subtotal = 0
				o.Report.TotalSessions = 1
			},
		},
		{
			name:  "tier dropped",
			start: 997,
			mutate: func(o *report.Outcome) {
				o.Report.Tiers = o.Report.Tiers[:2]
			},
		},
		{
			name:  "attribute below cap",
			start: 997,
			mutate: func(o *report.Outcome) {
				o.Report.Attributes[0].Gained = 1
				o.Report.Attributes[0].Final = 998
			},
		},
		{
			name:  "both report and failure",
			start: 997,
			mutate: func(o *report.Outcome) {
				o.Failure = &report.FailureReport{Status: engine.StatusInfeasible}
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			outcome := s.stored(s.plan(testutils.SingleGainTiers(), testutils.NewProfile([]string{"Life"}, 997), report.Options{}))
			if tc.mutate != nil {
				tc.mutate(outcome)
			}

			_, err := report.Verify(idx, testutils.NewProfile([]string{"Life"}, tc.start), outcome, report.Options{})
			s.Require().Error(err)
			s.True(errors.IsSolutionInvariantViolation(err), err.Error())
		})
	}
}

func (s *ReportTestSuite) TestConsistent() {
	outcome := s.plan(testutils.SingleGainTiers(), testutils.NewProfile([]string{"Life"}, 997), report.Options{})
	s.NoError(outcome.Consistent())

	var empty *report.Outcome
	s.True(errors.IsSolutionInvariantViolation(empty.Consistent()))
	s.True(errors.IsSolutionInvariantViolation((&report.Outcome{}).Consistent()))

	outcome.Report.Attributes[0].Overtraining = 4
	s.True(errors.IsSolutionInvariantViolation(outcome.Consistent()))
}

func (s *ReportTestSuite) TestVerifyMissingInputs() {
	idx := testutils.MustIndex(s.T(), testutils.SingleGainTiers())
	profile := testutils.NewProfile([]string{"Life"}, 997)

	_, err := report.Verify(nil, profile, &report.Outcome{}, report.Options{})
	s.True(errors.IsInvalidArgument(err))
	_, err = report.Verify(idx, nil, &report.Outcome{}, report.Options{})
	s.True(errors.IsInvalidArgument(err))
	_, err = report.Verify(idx, profile, nil, report.Options{})
	s.True(errors.IsSolutionInvariantViolation(err))
}
