package engine

// Status is the terminal state reported by a solver backend
type Status string

const (
	// StatusOptimal means Values hold a proven optimum
	StatusOptimal Status = "optimal"

	// StatusInfeasible means no assignment satisfies the rows
	StatusInfeasible Status = "infeasible"

	// StatusUnbounded should never occur for schedule models; callers
	// treat it as an internal error
	StatusUnbounded Status = "unbounded"

	// StatusStopped means a time or node limit ended the search without a
	// proof of optimality
	StatusStopped Status = "stopped"
)

// Result is what a backend hands back for one model
type Result struct {
	Status Status

	// Objective as computed by the backend
	Objective float64

	// Values holds one decision value per model variable, in model order.
	// Only meaningful when Status is StatusOptimal.
	Values []float64
}
