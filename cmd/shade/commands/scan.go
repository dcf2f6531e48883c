// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/shade-build/shade/cmd/shade/cli"
	"github.com/shade-build/shade/lib/assemble"
	"github.com/shade-build/shade/lib/fingerprint"
	"github.com/shade-build/shade/lib/pattern"
)

// filterFlags binds a pattern.Filter to --include, --exclude and
// --ignore-case.
type filterFlags struct {
	pattern.Filter
}

func (f *filterFlags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringSliceVar(&f.Includes, "include", nil, "glob selecting paths to report (repeatable; default: every path)")
	flagSet.StringSliceVar(&f.Excludes, "exclude", nil, "glob removing paths from the report (repeatable)")
	flagSet.BoolVar(&f.IgnoreCase, "ignore-case", false, "match globs case-insensitively")
}

type scanParams struct {
	cli.JSONOutput
	cli.Verbosity
	Sources        []string    `json:"sources" flag:"source,s" desc:"directory or archive to scan, in order (repeatable)"`
	Filter         filterFlags `json:"-"`
	Algorithm      string      `json:"algorithm" flag:"algorithm" desc:"fingerprint every copy with this digest (sha256 or blake3)"`
	Duplicates     bool        `json:"duplicates" flag:"duplicates" desc:"only report paths present in more than one source"`
	FailOnConflict bool        `json:"fail_on_conflict" flag:"fail-on-conflict" desc:"exit 1 when a path has differing copies (fingerprints with sha256 unless --algorithm is set)"`
}

func scanCommand() *cli.Command {
	var params scanParams
	return &cli.Command{
		Name:    "scan",
		Summary: "Find where paths occur across sources",
		Description: `List every occurrence of the selected paths across directories and
archives, in source order. With --algorithm each copy is fingerprinted
and the number of distinct contents is shown, which tells a merge
conflict apart from a harmless duplicate before running merge.`,
		Usage: "shade scan [flags] [SOURCE...]",
		Examples: []cli.Example{
			{
				Description: "Where do the license files come from?",
				Command:     "shade scan -s libs/a.jar -s libs/b.jar --include 'META-INF/LICENSE*' --ignore-case",
			},
			{
				Description: "Fail a CI step when two jars ship different copies of a class",
				Command:     "shade scan --duplicates --fail-on-conflict --include '**/*.class' libs/*.jar",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("scan", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			sources := append(append([]string(nil), params.Sources...), args...)
			if len(sources) == 0 {
				return fmt.Errorf("at least one source is required (--source or positional)")
			}
			for i, source := range sources {
				resolved, err := filepath.Abs(source)
				if err != nil {
					return fmt.Errorf("resolving %s: %w", source, err)
				}
				sources[i] = resolved
			}

			algorithm := params.Algorithm
			if params.FailOnConflict && algorithm == "" {
				algorithm = string(fingerprint.SHA256)
			}
			logger.Debug("scanning", "sources", len(sources), "includes", params.Filter.Includes, "algorithm", algorithm)

			results, err := assemble.Scan(ctx, sources, assemble.ScanOptions{
				Filter:    params.Filter.Filter,
				Algorithm: fingerprint.Algorithm(algorithm),
			})
			if err != nil {
				return err
			}
			if params.Duplicates {
				results = onlyDuplicated(results)
			}

			if done, err := params.EmitJSON(results); done {
				if err != nil {
					return err
				}
			} else {
				writeScan(os.Stdout, cli.NewStyles(os.Stdout), results)
			}

			if params.FailOnConflict && conflicting(results) > 0 {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

// onlyDuplicated keeps the results with more than one occurrence.
func onlyDuplicated(results []*assemble.ScanResult) []*assemble.ScanResult {
	var kept []*assemble.ScanResult
	for _, result := range results {
		if len(result.Occurrences) > 1 {
			kept = append(kept, result)
		}
	}
	return kept
}

// conflicting counts the paths with more than one distinct content.
func conflicting(results []*assemble.ScanResult) int {
	count := 0
	for _, result := range results {
		if result.Distinct > 1 {
			count++
		}
	}
	return count
}

func writeScan(w io.Writer, styles cli.Styles, results []*assemble.ScanResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, styles.Faint.Render("no matching paths"))
		return
	}
	for _, result := range results {
		summary := fmt.Sprintf("%d cop%s", len(result.Occurrences), plural(len(result.Occurrences), "y", "ies"))
		switch {
		case result.Distinct > 1:
			summary = styles.Warning.Render(fmt.Sprintf("%s, %d distinct", summary, result.Distinct))
		case result.Distinct == 1:
			summary = styles.Faint.Render(summary + ", identical")
		default:
			summary = styles.Faint.Render(summary)
		}
		fmt.Fprintf(w, "%s  %s\n", styles.Heading.Render(result.Path), summary)
		for _, occurrence := range result.Occurrences {
			if result.Distinct > 0 {
				fmt.Fprintf(w, "  %s  %s\n", styles.Label.Render(occurrence.Fingerprint.String()), occurrence.Source)
			} else {
				fmt.Fprintf(w, "  %s\n", occurrence.Source)
			}
		}
	}
	if count := conflicting(results); count > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styles.Warning.Render(fmt.Sprintf("%d path%s with differing copies", count, plural(count, "", "s"))))
	}
}

func plural(count int, one, many string) string {
	if count == 1 {
		return one
	}
	return many
}
