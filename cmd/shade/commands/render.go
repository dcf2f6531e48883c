// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shade-build/shade/cmd/shade/cli"
	"github.com/shade-build/shade/lib/assemble"
	"github.com/shade-build/shade/lib/mergemetrics"
)

// writeReport renders a run report for humans.
func writeReport(w io.Writer, styles cli.Styles, report *assemble.Report) {
	if report.Committed {
		fmt.Fprintln(w, styles.Heading.Render("wrote "+report.Output))
	} else {
		fmt.Fprintln(w, styles.Failure.Render("not written: "+report.Output))
	}

	outcome := string(report.Outcome)
	switch report.Outcome {
	case mergemetrics.OutcomeSuccess:
		outcome = styles.Success.Render(outcome)
	case mergemetrics.OutcomeConflict:
		outcome = styles.Warning.Render(outcome)
	default:
		outcome = styles.Failure.Render(outcome)
	}

	duration := time.Duration(report.DurationSeconds * float64(time.Second)).Round(time.Millisecond)
	fields := [][2]string{
		{"outcome", outcome},
		{"run", report.RunID},
		{"duration", duration.String()},
		{"sources", fmt.Sprint(len(report.Sources))},
		{"candidates", fmt.Sprintf("%d (%d excluded, %d passed through)",
			report.Candidates, report.Excluded, report.PassedThrough)},
		{"entries", fmt.Sprint(report.Entries)},
	}
	for _, field := range fields {
		fmt.Fprintf(w, "  %s %s\n", styles.Label.Render(fmt.Sprintf("%-10s", field[0])), field[1])
	}

	if len(report.Transformers) == 0 {
		return
	}

	// Styles wrap whole lines after tabwriter has aligned them, so escape
	// sequences never count toward column widths.
	var table strings.Builder
	tw := tabwriter.NewWriter(&table, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TRANSFORMER\tPATHS\tCANDIDATES\tENTRIES\tDUPLICATES\tCONFLICTS")
	for _, transformer := range report.Transformers {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n",
			transformer.Transformer, transformer.Paths, transformer.Candidates,
			transformer.Entries, transformer.DuplicatesSuppressed, len(transformer.Conflicts))
	}
	tw.Flush()

	fmt.Fprintln(w)
	lines := strings.Split(strings.TrimSuffix(table.String(), "\n"), "\n")
	fmt.Fprintln(w, styles.Faint.Render(lines[0]))
	for i, line := range lines[1:] {
		if report.Transformers[i].Failed() {
			line = styles.Warning.Render(line)
		}
		fmt.Fprintln(w, line)
	}

	for _, transformer := range report.Transformers {
		if !transformer.Failed() {
			continue
		}
		heading := fmt.Sprintf("%s: %d conflicting path(s)", transformer.Transformer, len(transformer.Conflicts))
		if transformer.DontFail {
			heading += " (ignored)"
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, styles.Warning.Render(heading))
		for _, line := range strings.Split(transformer.Message, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}
