// Package engine defines the boundary to an external integer-program solver
package engine

//go:generate mockgen -destination=mock/mock_solver.go -package=enginemock github.com/KirkDiggler/rpg-trainer/internal/engine Solver

import (
	"context"

	"github.com/KirkDiggler/rpg-trainer/internal/services/schedulemodel"
)

// Solver minimises a schedule model. Implementations wrap a MILP backend;
// they own any timeout or retry policy. A returned error means the backend
// could not answer (SolverBackend); a proof of infeasibility is a Result,
// not an error.
type Solver interface {
	Solve(ctx context.Context, model *schedulemodel.Model) (*Result, error)

	// Name identifies the backend in logs and reports
	Name() string
}
