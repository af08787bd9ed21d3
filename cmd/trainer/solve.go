package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/orchestrators/schedule"
	"github.com/KirkDiggler/rpg-trainer/internal/services/report"
)

var solveFlags struct {
	sources     sourceFlags
	jsonOutput  bool
	noCache     bool
	concurrency int
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Find the shortest schedule that maxes every attribute",
	Long: `Solve loads the starting profile and tier tables, builds the schedule model
and prints the tier-by-tier breakdown of an optimal schedule. A manifest that
lists several profiles plans them concurrently against one catalogue.`,
	RunE: runSolve,
}

func init() {
	solveFlags.sources.register(solveCmd.Flags())
	solveCmd.Flags().BoolVar(&solveFlags.jsonOutput, "json", false, "print the outcome as JSON")
	solveCmd.Flags().BoolVar(&solveFlags.noCache, "no-cache", false, "skip the report cache")
	solveCmd.Flags().IntVar(&solveFlags.concurrency, "concurrency", 0, "parallel solves when planning several profiles")
}

// solveResult is the JSON shape of one planned profile
type solveResult struct {
	Profile     string          `json:"profile"`
	RunID       string          `json:"run_id,omitempty"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	Solver      string          `json:"solver,omitempty"`
	Cached      bool            `json:"cached,omitempty"`
	Outcome     *report.Outcome `json:"outcome,omitempty"`
	Error       string          `json:"error,omitempty"`
}

func runSolve(cmd *cobra.Command, _ []string) error {
	in, err := solveFlags.sources.resolve()
	if err != nil {
		return err
	}
	in.options.SkipCache = solveFlags.noCache

	svc, cleanup, err := newOrchestrator(settings, !solveFlags.noCache)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(in.profiles) == 1 {
		res, err := svc.Plan(ctx, &schedule.PlanInput{
			Profile: in.profiles[0].Source,
			Tiers:   in.tiers,
			Options: in.options,
		})
		if err != nil {
			return err
		}
		if err := writeResults(out, []solveResult{toSolveResult(in.profiles[0].Name, res, nil)}); err != nil {
			return err
		}
		return infeasibleError(res.Outcome)
	}

	batch, err := svc.PlanBatch(ctx, &schedule.PlanBatchInput{
		Profiles:    in.profiles,
		Tiers:       in.tiers,
		Options:     in.options,
		Concurrency: solveFlags.concurrency,
	})
	if err != nil {
		return err
	}

	// A failed profile outranks an infeasible one in the exit status
	results := make([]solveResult, len(batch.Results))
	var firstErr, firstInfeasible error
	for i, r := range batch.Results {
		results[i] = toSolveResult(r.Name, r.Output, r.Err)
		switch {
		case r.Err != nil:
			if firstErr == nil {
				firstErr = errors.Wrapf(r.Err, "profile %s", r.Name)
			}
		case firstInfeasible == nil && r.Output != nil && r.Output.Outcome != nil && r.Output.Outcome.Failure != nil:
			failure := r.Output.Outcome.Failure
			firstInfeasible = errors.Infeasiblef("profile %s: %s", r.Name, failure.Reason).
				WithMeta("status", string(failure.Status)).
				WithMeta("profile", r.Name)
		}
	}
	if err := writeResults(out, results); err != nil {
		return err
	}
	if firstErr != nil {
		return firstErr
	}
	return firstInfeasible
}

func toSolveResult(name string, out *schedule.PlanOutput, err error) solveResult {
	r := solveResult{Profile: name}
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.RunID = out.RunID
	r.Fingerprint = out.Fingerprint
	r.Solver = out.Solver
	r.Cached = out.Cached
	r.Outcome = out.Outcome
	return r
}

func writeResults(w io.Writer, results []solveResult) error {
	if solveFlags.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		var v any = results
		if len(results) == 1 {
			v = results[0]
		}
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "failed to encode outcome")
		}
		return nil
	}

	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "=== %s ===\n", r.Profile)
		}
		if r.Error != "" {
			fmt.Fprintf(w, "Failed: %s\n", r.Error)
			continue
		}
		if err := report.Render(w, r.Outcome); err != nil {
			return err
		}
	}
	return nil
}

// infeasibleError turns a failure outcome into the infeasible exit status
// once the failure has been printed
func infeasibleError(outcome *report.Outcome) error {
	if outcome == nil || outcome.Failure == nil {
		return nil
	}
	return errors.Infeasible(outcome.Failure.Reason).WithMeta("status", string(outcome.Failure.Status))
}
