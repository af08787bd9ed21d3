package cbc

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-trainer/internal/engine"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
)

// ParseSolution reads a cbc "solu" file. The first line carries the status
// and objective ("Optimal - objective value 23.00000000"); each following
// line is "<index> <name> <value> <reduced cost>", optionally prefixed by
// "**" for infeasible entries. Only non-zero columns are listed, so absent
// variables are zero.
func ParseSolution(r io.Reader, vars map[string]int, n int) (*engine.Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeSolverBackend, "failed to read solution")
		}
		return nil, errors.SolverBackend("solution file is empty")
	}

	header := strings.TrimSpace(scanner.Text())
	status, objective, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	result := &engine.Result{
		Status:    status,
		Objective: objective,
	}
	if status != engine.StatusOptimal {
		return result, nil
	}

	result.Values = make([]float64, n)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(scanner.Text()), "**"))
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, errors.SolverBackendf("malformed solution line %q", line)
		}

		pos, ok := vars[fields[1]]
		if !ok {
			return nil, errors.SolverBackendf("solution names unknown variable %s", fields[1]).
				WithMeta("variable", fields[1])
		}

		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, errors.WrapWithCodef(err, errors.CodeSolverBackend, "bad value for %s", fields[1])
		}
		result.Values[pos] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeSolverBackend, "failed to read solution")
	}

	return result, nil
}

func parseHeader(header string) (engine.Status, float64, error) {
	lower := strings.ToLower(header)

	var status engine.Status
	switch {
	case strings.HasPrefix(lower, "optimal"):
		status = engine.StatusOptimal
	case strings.HasPrefix(lower, "infeasible"), strings.HasPrefix(lower, "integer infeasible"):
		status = engine.StatusInfeasible
	case strings.HasPrefix(lower, "unbounded"):
		status = engine.StatusUnbounded
	case strings.HasPrefix(lower, "stopped"):
		status = engine.StatusStopped
	default:
		return "", 0, errors.SolverBackendf("unrecognised solution status %q", header).
			WithMeta("header", header)
	}

	const marker = "objective value"
	i := strings.Index(lower, marker)
	if i < 0 {
		return status, 0, nil
	}

	fields := strings.Fields(header[i+len(marker):])
	if len(fields) == 0 {
		return status, 0, nil
	}
	objective, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return "", 0, errors.WrapWithCodef(err, errors.CodeSolverBackend, "bad objective in %q", header)
	}
	return status, objective, nil
}
