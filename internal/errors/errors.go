package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with code, message, and metadata
type Error struct {
	Code    Code                   `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the target error is of the same type
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// WithMeta adds metadata to the error
func (e *Error) WithMeta(key string, value interface{}) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]interface{})
	}
	e.Meta[key] = value
	return e
}

// WithMetaMap adds multiple metadata entries
func (e *Error) WithMetaMap(meta map[string]interface{}) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]interface{})
	}
	for k, v := range meta {
		e.Meta[k] = v
	}
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new error with a formatted message
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error, preserving its code if it's an Error
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Code:    existingErr.Code,
			Message: message,
			Cause:   err,
			Meta:    existingErr.Meta,
		}
	}

	return &Error{
		Code:    CodeInternal,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	var existingErr *Error
	meta := make(map[string]interface{})
	if errors.As(err, &existingErr) && existingErr.Meta != nil {
		for k, v := range existingErr.Meta {
			meta[k] = v
		}
	}

	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
		Meta:    meta,
	}
}

// WrapWithCodef wraps an error with a specific code and formatted message
func WrapWithCodef(err error, code Code, format string, args ...interface{}) *Error {
	return WrapWithCode(err, code, fmt.Sprintf(format, args...))
}

// Constructor functions for common error types

// NotFound creates a not found error
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// NotFoundf creates a not found error with formatted message
func NotFoundf(format string, args ...interface{}) *Error {
	return Newf(CodeNotFound, format, args...)
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates an invalid argument error with formatted message
func InvalidArgumentf(format string, args ...interface{}) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// OutOfRange creates an out of range error
func OutOfRange(message string) *Error {
	return New(CodeOutOfRange, message)
}

// OutOfRangef creates an out of range error with formatted message
func OutOfRangef(format string, args ...interface{}) *Error {
	return Newf(CodeOutOfRange, format, args...)
}

// Internal creates an internal error
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Canceled creates a canceled error
func Canceled(message string) *Error {
	return New(CodeCanceled, message)
}

// Canceledf creates a canceled error with formatted message
func Canceledf(format string, args ...interface{}) *Error {
	return Newf(CodeCanceled, format, args...)
}

// SchemaMismatch creates a schema mismatch error
func SchemaMismatch(message string) *Error {
	return New(CodeSchemaMismatch, message)
}

// SchemaMismatchf creates a schema mismatch error with formatted message
func SchemaMismatchf(format string, args ...interface{}) *Error {
	return Newf(CodeSchemaMismatch, format, args...)
}

// EmptyTier creates an empty tier error
func EmptyTier(message string) *Error {
	return New(CodeEmptyTier, message)
}

// EmptyTierf creates an empty tier error with formatted message
func EmptyTierf(format string, args ...interface{}) *Error {
	return Newf(CodeEmptyTier, format, args...)
}

// InfeasibleTarget creates an infeasible target error
func InfeasibleTarget(message string) *Error {
	return New(CodeInfeasibleTarget, message)
}

// InfeasibleTargetf creates an infeasible target error with formatted message
func InfeasibleTargetf(format string, args ...interface{}) *Error {
	return Newf(CodeInfeasibleTarget, format, args...)
}

// Infeasible creates an infeasible error
func Infeasible(message string) *Error {
	return New(CodeInfeasible, message)
}

// Infeasiblef creates an infeasible error with formatted message
func Infeasiblef(format string, args ...interface{}) *Error {
	return Newf(CodeInfeasible, format, args...)
}

// SolverBackend creates a solver backend error
func SolverBackend(message string) *Error {
	return New(CodeSolverBackend, message)
}

// SolverBackendf creates a solver backend error with formatted message
func SolverBackendf(format string, args ...interface{}) *Error {
	return Newf(CodeSolverBackend, format, args...)
}

// SolutionInvariantViolation creates a solution invariant violation error
func SolutionInvariantViolation(message string) *Error {
	return New(CodeSolutionInvariantViolation, message)
}

// SolutionInvariantViolationf creates a solution invariant violation error with formatted message
func SolutionInvariantViolationf(format string, args ...interface{}) *Error {
	return Newf(CodeSolutionInvariantViolation, format, args...)
}

// UnboundedUnexpected creates an unexpected unbounded error
func UnboundedUnexpected(message string) *Error {
	return New(CodeUnboundedUnexpected, message)
}

// UnboundedUnexpectedf creates an unexpected unbounded error with formatted message
func UnboundedUnexpectedf(format string, args ...interface{}) *Error {
	return Newf(CodeUnboundedUnexpected, format, args...)
}
