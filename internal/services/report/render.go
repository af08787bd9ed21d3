package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/KirkDiggler/rpg-trainer/internal/errors"
)

// Render writes a human readable breakdown of the outcome
func Render(w io.Writer, outcome *Outcome) error {
	if outcome == nil {
		return errors.InvalidArgument("outcome is required")
	}

	bw := bufio.NewWriter(w)
	if outcome.Failure != nil {
		fmt.Fprintf(bw, "No schedule found (%s): %s\n", outcome.Failure.Status, outcome.Failure.Reason)
		return flush(bw)
	}

	rep := outcome.Report
	if rep == nil {
		return errors.InvalidArgument("outcome has neither report nor failure")
	}

	fmt.Fprintf(bw, "The youngest possible max stats monster is %d weeks.\n", rep.TotalSessions)
	if rep.ExceedsUpperBound {
		fmt.Fprintf(bw, "Warning: exceeds the expected upper bound of %d weeks.\n", rep.UpperBound)
	}

	fmt.Fprintf(bw, "\nTraining programme breakdown:\n")
	for _, tier := range rep.Tiers {
		fmt.Fprintf(bw, "\n--- %s rank ---\nTotal weeks: %d\n\n", strings.ToUpper(tier.Tier), tier.Subtotal)
		for _, line := range tier.Actions {
			fmt.Fprintf(bw, "Week %d: %d\n", line.Action.Week, line.Count)
			for a, gain := range line.Gains {
				if a < len(rep.Attributes) {
					fmt.Fprintf(bw, "   %s: %d", rep.Attributes[a].Attribute, gain)
				}
			}
			fmt.Fprintln(bw)
		}
	}

	fmt.Fprintf(bw, "\nFinal attributes:\n")
	for _, a := range rep.Attributes {
		fmt.Fprintf(bw, "   %s: %d -> %d (+%d, overtrained by %d)\n", a.Attribute, a.Start, a.Final, a.Gained, a.Overtraining)
	}
	fmt.Fprintf(bw, "Total overtraining: %d\n", rep.TotalOvertraining())

	return flush(bw)
}

func flush(bw *bufio.Writer) error {
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	return nil
}
