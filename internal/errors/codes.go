package errors

// Code represents an error code
type Code string

// Generic codes
const (
	CodeOK              Code = "OK"
	CodeCanceled        Code = "CANCELED"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeOutOfRange      Code = "OUT_OF_RANGE"
	CodeInternal        Code = "INTERNAL"
)

// Planning codes
const (
	CodeSchemaMismatch             Code = "SCHEMA_MISMATCH"
	CodeEmptyTier                  Code = "EMPTY_TIER"
	CodeInfeasibleTarget           Code = "INFEASIBLE_TARGET"
	CodeInfeasible                 Code = "INFEASIBLE"
	CodeSolverBackend              Code = "SOLVER_BACKEND"
	CodeSolutionInvariantViolation Code = "SOLUTION_INVARIANT_VIOLATION"
	CodeUnboundedUnexpected        Code = "UNBOUNDED_UNEXPECTED"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// ExitCode returns the process exit status the CLI uses for this code.
// Input problems share 2, planning outcomes 3, backend trouble 4 and
// anything that indicates a bug 70 (EX_SOFTWARE).
func (c Code) ExitCode() int {
	switch c {
	case CodeOK:
		return 0
	case CodeInvalidArgument, CodeOutOfRange, CodeNotFound, CodeSchemaMismatch, CodeEmptyTier:
		return 2
	case CodeInfeasibleTarget, CodeInfeasible:
		return 3
	case CodeSolverBackend, CodeCanceled:
		return 4
	case CodeSolutionInvariantViolation, CodeUnboundedUnexpected, CodeInternal:
		return 70
	default:
		return 1
	}
}
