// Package report turns a solver result into a validated training schedule,
// or into a failure report when no schedule exists.
package report

import (
	"github.com/KirkDiggler/rpg-trainer/internal/engine"
	"github.com/KirkDiggler/rpg-trainer/internal/entities/training"
	"github.com/KirkDiggler/rpg-trainer/internal/services/actionindex"
)

// Options tunes report checks
type Options struct {
	// UpperBound flags schedules longer than this many sessions; 0 disables
	// the check
	UpperBound int
}

// ActionLine is one scheduled action with its session count
type ActionLine struct {
	Action actionindex.ActionRef `json:"action"`
	Count  int                   `json:"count"`
	Gains  []int                 `json:"gains"`
}

// TierBreakdown lists the scheduled actions of one tier in source order
type TierBreakdown struct {
	Tier     string       `json:"tier"`
	Subtotal int          `json:"subtotal"`
	Actions  []ActionLine `json:"actions"`
}

// AttributeResult is the end state of one attribute
type AttributeResult struct {
	Attribute training.Attribute `json:"attribute"`
	Start     int                `json:"start"`
	Gained    int                `json:"gained"`
	Final     int                `json:"final"`

	// Overtraining is how far Final overshoots the cap
	Overtraining int `json:"overtraining"`
}

// Report is a verified optimal schedule
type Report struct {
	TotalSessions     int               `json:"total_sessions"`
	Tiers             []TierBreakdown   `json:"tiers"`
	Attributes        []AttributeResult `json:"attributes"`
	UpperBound        int               `json:"upper_bound,omitempty"`
	ExceedsUpperBound bool              `json:"exceeds_upper_bound,omitempty"`
}

// TotalOvertraining sums overtraining across attributes
func (r *Report) TotalOvertraining() int {
	total := 0
	for _, a := range r.Attributes {
		total += a.Overtraining
	}
	return total
}

// FailureReport explains why no schedule exists
type FailureReport struct {
	Status engine.Status `json:"status"`
	Reason string        `json:"reason"`
}

// Outcome holds exactly one of Report or Failure
type Outcome struct {
	Report  *Report        `json:"report,omitempty"`
	Failure *FailureReport `json:"failure,omitempty"`
}

// Feasible reports whether the outcome carries a schedule
func (o *Outcome) Feasible() bool {
	return o != nil && o.Report != nil
}
