package errors

import (
	"errors"
)

// As is a wrapper around errors.As that works with our Error type
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return CodeInternal
}

// GetMeta extracts metadata from an error
func GetMeta(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Meta
	}

	return nil
}

// GetMessage extracts the user-friendly message from an error
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}

	return err.Error()
}

// Type checking helpers

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return GetCode(err) == CodeInvalidArgument
}

// IsOutOfRange checks if an error is an out of range error
func IsOutOfRange(err error) bool {
	return GetCode(err) == CodeOutOfRange
}

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool {
	return GetCode(err) == CodeInternal
}

// IsCanceled checks if an error is a canceled error
func IsCanceled(err error) bool {
	return GetCode(err) == CodeCanceled
}

// IsSchemaMismatch checks if an error is a schema mismatch error
func IsSchemaMismatch(err error) bool {
	return GetCode(err) == CodeSchemaMismatch
}

// IsEmptyTier checks if an error is an empty tier error
func IsEmptyTier(err error) bool {
	return GetCode(err) == CodeEmptyTier
}

// IsInfeasibleTarget checks if an error is an infeasible target error
func IsInfeasibleTarget(err error) bool {
	return GetCode(err) == CodeInfeasibleTarget
}

// IsInfeasible checks if an error is an infeasible error
func IsInfeasible(err error) bool {
	return GetCode(err) == CodeInfeasible
}

// IsSolverBackend checks if an error is a solver backend error
func IsSolverBackend(err error) bool {
	return GetCode(err) == CodeSolverBackend
}

// IsSolutionInvariantViolation checks if an error is a solution invariant violation error
func IsSolutionInvariantViolation(err error) bool {
	return GetCode(err) == CodeSolutionInvariantViolation
}

// IsUnboundedUnexpected checks if an error is an unexpected unbounded error
func IsUnboundedUnexpected(err error) bool {
	return GetCode(err) == CodeUnboundedUnexpected
}
