package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-trainer/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "schema mismatch",
			code:     errors.CodeSchemaMismatch,
			message:  "tier b columns differ",
			expected: "SCHEMA_MISMATCH: tier b columns differ",
		},
		{
			name:     "infeasible target",
			code:     errors.CodeInfeasibleTarget,
			message:  "no action raises Skill",
			expected: "INFEASIBLE_TARGET: no action raises Skill",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Equal(tc.expected, err.Error())
			s.Equal(tc.code, err.Code)
			s.Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.EmptyTier("tier has no actions").
		WithMeta("tier", "s").
		WithMeta("source", "S-rank-data.csv")

	s.Equal("s", err.Meta["tier"])
	s.Equal("S-rank-data.csv", err.Meta["source"])

	err2 := errors.SchemaMismatch("columns differ").
		WithMetaMap(map[string]interface{}{
			"expected": []string{"Life", "Power"},
			"actual":   []string{"Power", "Life"},
		})

	s.Equal([]string{"Life", "Power"}, err2.Meta["expected"])
	s.Equal([]string{"Power", "Life"}, err2.Meta["actual"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("exec: \"cbc\": executable file not found in $PATH")
	wrapped := errors.Wrap(baseErr, "failed to run solver")

	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Equal("failed to run solver", wrapped.Message)
	s.Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndMeta() {
	baseErr := errors.InfeasibleTarget("no action raises Skill").WithMeta("attribute", "Skill")
	wrapped := errors.Wrap(baseErr, "failed to build schedule model")

	s.Equal(errors.CodeInfeasibleTarget, wrapped.Code)
	s.Equal("failed to build schedule model", wrapped.Message)
	s.Equal(baseErr, wrapped.Unwrap())
	s.Equal("Skill", wrapped.Meta["attribute"])
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := fmt.Errorf("signal: killed")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeSolverBackend, "solver process died")

	s.Equal(errors.CodeSolverBackend, wrapped.Code)
	s.Equal("solver process died", wrapped.Message)
	s.Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Nil(errors.Wrap(nil, "should be nil"))
	s.Nil(errors.WrapWithCode(nil, errors.CodeSolverBackend, "should be nil"))
}

func (s *ErrorsTestSuite) TestConstructorFunctions() {
	testCases := []struct {
		name        string
		constructor func() *errors.Error
		code        errors.Code
		check       func(error) bool
	}{
		{"SchemaMismatch", func() *errors.Error { return errors.SchemaMismatch("test") }, errors.CodeSchemaMismatch, errors.IsSchemaMismatch},
		{"EmptyTier", func() *errors.Error { return errors.EmptyTier("test") }, errors.CodeEmptyTier, errors.IsEmptyTier},
		{"InfeasibleTarget", func() *errors.Error { return errors.InfeasibleTarget("test") }, errors.CodeInfeasibleTarget, errors.IsInfeasibleTarget},
		{"Infeasible", func() *errors.Error { return errors.Infeasible("test") }, errors.CodeInfeasible, errors.IsInfeasible},
		{"SolverBackend", func() *errors.Error { return errors.SolverBackend("test") }, errors.CodeSolverBackend, errors.IsSolverBackend},
		{"SolutionInvariantViolation", func() *errors.Error { return errors.SolutionInvariantViolation("test") }, errors.CodeSolutionInvariantViolation, errors.IsSolutionInvariantViolation},
		{"UnboundedUnexpected", func() *errors.Error { return errors.UnboundedUnexpected("test") }, errors.CodeUnboundedUnexpected, errors.IsUnboundedUnexpected},
		{"OutOfRange", func() *errors.Error { return errors.OutOfRange("test") }, errors.CodeOutOfRange, errors.IsOutOfRange},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.constructor()
			s.Equal(tc.code, err.Code)
			s.Equal("test", err.Message)
			s.True(tc.check(errors.Wrap(err, "wrapped")))
		})
	}
}

func (s *ErrorsTestSuite) TestFormattedConstructors() {
	err := errors.EmptyTierf("tier %q has no actions", "b")
	s.Equal(errors.CodeEmptyTier, err.Code)
	s.Equal(`tier "b" has no actions`, err.Message)

	err2 := errors.OutOfRangef("starting %s %d exceeds %d", "Life", 1200, 999)
	s.Equal(errors.CodeOutOfRange, err2.Code)
	s.Equal("starting Life 1200 exceeds 999", err2.Message)
}

func (s *ErrorsTestSuite) TestErrorIs() {
	err1 := errors.Infeasible("a")
	err2 := errors.Infeasible("b")
	err3 := errors.InfeasibleTarget("a")

	s.True(err1.Is(err2))
	s.False(err1.Is(err3))
	s.True(errors.Is(errors.Wrap(err1, "wrapped"), err2))
}

func (s *ErrorsTestSuite) TestGetCode() {
	err := errors.SolverBackend("test")
	wrapped := errors.Wrap(err, "wrapped")

	s.Equal(errors.CodeSolverBackend, errors.GetCode(err))
	s.Equal(errors.CodeSolverBackend, errors.GetCode(wrapped))
	s.Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("standard error")))
	s.Equal(errors.CodeOK, errors.GetCode(nil))
}

func (s *ErrorsTestSuite) TestGetMeta() {
	err := errors.EmptyTier("test").WithMeta("tier", "d")
	wrapped := errors.Wrap(err, "wrapped")

	s.Equal("d", errors.GetMeta(err)["tier"])
	s.Equal("d", errors.GetMeta(wrapped)["tier"])
	s.Nil(errors.GetMeta(fmt.Errorf("standard error")))
}

func (s *ErrorsTestSuite) TestGetMessage() {
	err := errors.SchemaMismatch("columns differ")
	wrapped := errors.Wrap(err, "failed to load catalogue")
	stdErr := fmt.Errorf("standard error")

	s.Equal("columns differ", errors.GetMessage(err))
	s.Equal("failed to load catalogue", errors.GetMessage(wrapped))
	s.Equal("standard error", errors.GetMessage(stdErr))
}

func (s *ErrorsTestSuite) TestExitCode() {
	testCases := []struct {
		code     errors.Code
		expected int
	}{
		{errors.CodeOK, 0},
		{errors.CodeSchemaMismatch, 2},
		{errors.CodeEmptyTier, 2},
		{errors.CodeInvalidArgument, 2},
		{errors.CodeInfeasibleTarget, 3},
		{errors.CodeInfeasible, 3},
		{errors.CodeSolverBackend, 4},
		{errors.CodeSolutionInvariantViolation, 70},
		{errors.CodeUnboundedUnexpected, 70},
		{errors.Code("SOMETHING_ELSE"), 1},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.expected, tc.code.ExitCode())
		})
	}
}
