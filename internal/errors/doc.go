// Package errors provides the structured error type used across rpg-trainer.
//
// Every failure carries a Code, a user-facing message, an optional cause and
// free-form metadata. Codes cover both generic input problems and the
// planning taxonomy:
//
//   - SchemaMismatch: a tier's columns differ from the canonical attribute list
//   - EmptyTier: a tier source yielded no actions
//   - InfeasibleTarget: an attribute needs gain but no action provides any
//   - Infeasible: the solver proved no schedule exists
//   - SolverBackend: the solver could not be run or gave no usable answer
//   - SolutionInvariantViolation: a reported optimum fails the re-check
//   - UnboundedUnexpected: the solver reported an unbounded objective
//
// # Basic Usage
//
//	err := errors.SchemaMismatchf("tier %q columns differ", tier).
//	    WithMeta("tier", tier)
//
// Wrapping keeps the code of the wrapped error:
//
//	if err := loader.Load(ctx); err != nil {
//	    return errors.Wrap(err, "failed to load catalogue")
//	}
//
// # Error Checking
//
//	if errors.IsInfeasibleTarget(err) {
//	    // report which attribute can never be raised
//	}
//
//	code := errors.GetCode(err)
//	os.Exit(code.ExitCode())
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Solver == nil {
//	    vb.RequiredField("Solver")
//	}
//	return vb.Build()
//
// # Layer-Specific Guidelines
//
// Loaders and builders return planning codes with the offending tier or
// attribute in metadata. The orchestrator wraps with context and never
// downgrades SolutionInvariantViolation or UnboundedUnexpected. The CLI
// maps codes to exit statuses.
package errors
