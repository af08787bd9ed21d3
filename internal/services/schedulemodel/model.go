// Package schedulemodel turns an action index and a starting profile into
// the integer program "fewest weeks to max every attribute".
package schedulemodel

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/KirkDiggler/rpg-trainer/internal/services/actionindex"
)

// ConstraintKind tells the two constraint families apart
type ConstraintKind string

const (
	// KindTierCoverage rows require at least one session in a non-final tier
	KindTierCoverage ConstraintKind = "tier_coverage"

	// KindAttributeCompletion rows require an attribute to reach the cap
	KindAttributeCompletion ConstraintKind = "attribute_completion"
)

// Variable is a non-negative integer count of one action, unbounded above
type Variable struct {
	Name   string
	Action actionindex.ActionRef
}

// Term is one coefficient of a linear row
type Term struct {
	Var  int
	Coef int
}

// Constraint is a linear row Σ Coef×x[Var] >= RHS. Every row of this model
// is a "greater or equal" row.
type Constraint struct {
	Name string
	Kind ConstraintKind

	// Subject is the tier name or attribute name the row is about
	Subject string

	Terms []Term
	RHS   int
}

// Activity evaluates the left-hand side for the given variable values
func (c Constraint) Activity(values []int) int {
	sum := 0
	for _, t := range c.Terms {
		sum += t.Coef * values[t.Var]
	}
	return sum
}

// Satisfied reports whether values meet the row
func (c Constraint) Satisfied(values []int) bool {
	return c.Activity(values) >= c.RHS
}

// Model is a minimisation integer program. Objective coefficients are all 1
// (total sessions). A Model is immutable once built and belongs to one run.
type Model struct {
	Name        string
	Variables   []Variable
	Constraints []Constraint
}

// ObjectiveValue returns Σ values, the total number of sessions
func (m *Model) ObjectiveValue(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

// Fingerprint returns a stable hash of the model's variables and rows.
// Two builds from the same catalogue and profile share a fingerprint.
func (m *Model) Fingerprint() string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "model %q\n", m.Name)
	for i, v := range m.Variables {
		_, _ = fmt.Fprintf(h, "var %d %q %q %d\n", i, v.Name, v.Action.Tier, v.Action.Week)
	}
	for _, c := range m.Constraints {
		_, _ = fmt.Fprintf(h, "row %q %s %q >= %d:", c.Name, c.Kind, c.Subject, c.RHS)
		for _, t := range c.Terms {
			_, _ = fmt.Fprintf(h, " %d*%d", t.Coef, t.Var)
		}
		_, _ = fmt.Fprintln(h)
	}
	return hex.EncodeToString(h.Sum(nil))
}
