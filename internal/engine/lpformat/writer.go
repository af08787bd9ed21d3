// Package lpformat writes schedule models in the CPLEX LP text format read
// by CBC, HiGHS, GLPK, SCIP and most other MILP solvers.
package lpformat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/services/schedulemodel"
)

// termsPerLine keeps lines well under the 255 character limit some readers
// enforce
const termsPerLine = 8

// Names holds the LP identifiers used for a model's variables and rows
type Names struct {
	Variables   []string
	Constraints []string
}

// VariableIndex maps LP variable names back to model positions
func (n *Names) VariableIndex() map[string]int {
	idx := make(map[string]int, len(n.Variables))
	for i, name := range n.Variables {
		idx[name] = i
	}
	return idx
}

// NamesFor derives unique LP-safe identifiers from the model's names
func NamesFor(model *schedulemodel.Model) *Names {
	seen := make(map[string]bool, len(model.Variables)+len(model.Constraints))

	names := &Names{
		Variables:   make([]string, len(model.Variables)),
		Constraints: make([]string, len(model.Constraints)),
	}
	for i, v := range model.Variables {
		names.Variables[i] = unique(sanitize(v.Name, "x"), i, seen)
	}
	for i, c := range model.Constraints {
		names.Constraints[i] = unique(sanitize(c.Name, "r"), i, seen)
	}
	return names
}

// Write renders the model. Variables are general integers with the default
// [0, +inf) bounds; all rows are ">=".
func Write(w io.Writer, model *schedulemodel.Model) (*Names, error) {
	if model == nil {
		return nil, errors.InvalidArgument("model is required")
	}
	if len(model.Variables) == 0 {
		return nil, errors.InvalidArgument("model has no variables")
	}

	names := NamesFor(model)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\\ Model %s\n", model.Name)
	fmt.Fprintf(bw, "\\ %d variables, %d constraints\n", len(model.Variables), len(model.Constraints))

	fmt.Fprintln(bw, "Minimize")
	objective := make([]schedulemodel.Term, len(model.Variables))
	for i := range objective {
		objective[i] = schedulemodel.Term{Var: i, Coef: 1}
	}
	writeRow(bw, "obj", objective, names.Variables)
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Subject To")
	for i, c := range model.Constraints {
		terms := c.Terms
		if len(terms) == 0 {
			// LP rows need at least one term
			terms = []schedulemodel.Term{{Var: 0, Coef: 0}}
		}
		writeRow(bw, names.Constraints[i], terms, names.Variables)
		fmt.Fprintf(bw, " >= %d\n", c.RHS)
	}

	fmt.Fprintln(bw, "General")
	for i := 0; i < len(names.Variables); i += termsPerLine {
		end := min(i+termsPerLine, len(names.Variables))
		fmt.Fprintf(bw, " %s\n", strings.Join(names.Variables[i:end], " "))
	}
	fmt.Fprintln(bw, "End")

	if err := bw.Flush(); err != nil {
		return nil, errors.Wrap(err, "failed to write lp model")
	}
	return names, nil
}

func writeRow(w *bufio.Writer, label string, terms []schedulemodel.Term, vars []string) {
	fmt.Fprintf(w, " %s:", label)
	for i, t := range terms {
		if i > 0 && i%termsPerLine == 0 {
			fmt.Fprint(w, "\n  ")
		}
		sign := "+"
		coef := t.Coef
		if coef < 0 {
			sign = "-"
			coef = -coef
		}
		if i == 0 && sign == "+" {
			sign = ""
		}
		if sign != "" {
			fmt.Fprintf(w, " %s", sign)
		}
		if coef == 1 {
			fmt.Fprintf(w, " %s", vars[t.Var])
		} else {
			fmt.Fprintf(w, " %d %s", coef, vars[t.Var])
		}
	}
}

// sanitize keeps letters, digits and underscores. LP names may not start
// with a digit or a period.
func sanitize(name, prefix string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" || (out[0] >= '0' && out[0] <= '9') {
		out = prefix + "_" + out
	}
	return out
}

func unique(name string, pos int, seen map[string]bool) string {
	if seen[name] {
		name = fmt.Sprintf("%s_%d", name, pos)
	}
	for seen[name] {
		name += "_"
	}
	seen[name] = true
	return name
}
