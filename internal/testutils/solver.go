package testutils

import (
	"context"
	"sync/atomic"

	"github.com/KirkDiggler/rpg-trainer/internal/engine"
	"github.com/KirkDiggler/rpg-trainer/internal/services/schedulemodel"
)

// DefaultMaxTotal bounds the exhaustive search when MaxTotal is unset
const DefaultMaxTotal = 30

// ExhaustiveSolver is an engine.Solver for small test models. It walks every
// assignment in order of increasing total and returns the first one that
// satisfies all rows, so the first hit is optimal. Models whose optimum lies
// above MaxTotal come back infeasible.
type ExhaustiveSolver struct {
	MaxTotal int

	// Calls counts Solve invocations; safe across concurrent solves
	Calls atomic.Int64
}

var _ engine.Solver = (*ExhaustiveSolver)(nil)

// Name returns "exhaustive"
func (s *ExhaustiveSolver) Name() string {
	return "exhaustive"
}

// Solve searches totals 0..MaxTotal
func (s *ExhaustiveSolver) Solve(ctx context.Context, model *schedulemodel.Model) (*engine.Result, error) {
	s.Calls.Add(1)

	limit := s.MaxTotal
	if limit <= 0 {
		limit = DefaultMaxTotal
	}

	values := make([]int, len(model.Variables))
	for total := 0; total <= limit; total++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if found := distribute(model, values, 0, total); found {
			out := make([]float64, len(values))
			for i, v := range values {
				out[i] = float64(v)
			}
			return &engine.Result{
				Status:    engine.StatusOptimal,
				Objective: float64(total),
				Values:    out,
			}, nil
		}
	}

	return &engine.Result{Status: engine.StatusInfeasible}, nil
}

// distribute places remaining sessions over variables pos.. and reports
// whether some placement satisfies every row. values holds the hit.
func distribute(model *schedulemodel.Model, values []int, pos, remaining int) bool {
	if pos == len(values)-1 {
		values[pos] = remaining
		return satisfiesAll(model, values)
	}
	for v := remaining; v >= 0; v-- {
		values[pos] = v
		if distribute(model, values, pos+1, remaining-v) {
			return true
		}
	}
	values[pos] = 0
	return false
}

func satisfiesAll(model *schedulemodel.Model, values []int) bool {
	for _, c := range model.Constraints {
		if !c.Satisfied(values) {
			return false
		}
	}
	return true
}

// FixedSolver returns a canned result, for driving report and orchestrator
// paths the exhaustive search cannot reach (stopped, unbounded, bad values).
type FixedSolver struct {
	Result *engine.Result
	Err    error
}

var _ engine.Solver = (*FixedSolver)(nil)

// Name returns "fixed"
func (s *FixedSolver) Name() string {
	return "fixed"
}

// Solve returns the canned result
func (s *FixedSolver) Solve(_ context.Context, _ *schedulemodel.Model) (*engine.Result, error) {
	return s.Result, s.Err
}
