// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shade-build/shade/lib/fingerprint"
	"github.com/shade-build/shade/lib/pattern"
)

// DedupOptions configures a [Dedup] transformer. An empty filter is
// allowed and claims every path.
type DedupOptions struct {
	Options

	// Algorithm selects the fingerprint digest. Default SHA-256.
	Algorithm fingerprint.Algorithm
}

// Dedup keeps one entry per path when all inputs carry identical
// content and reports paths whose inputs differ.
type Dedup struct {
	name     string
	matcher  *pattern.Matcher
	dontFail bool
	logger   *slog.Logger
	hasher   *fingerprint.Hasher

	groups     pathIndex[pathGroup]
	candidates int
}

// pathGroup holds every distinct content seen at one path, in first-seen
// order.
type pathGroup struct {
	variants []*contentVariant
}

type contentVariant struct {
	fingerprint fingerprint.Fingerprint
	sources     []string
	// first is the candidate that introduced this content; it is
	// re-opened at emit time.
	first Candidate
}

// NewDedup returns a Dedup transformer.
func NewDedup(options DedupOptions) (*Dedup, error) {
	name, matcher, logger, err := options.resolve("dedup", nil, true)
	if err != nil {
		return nil, err
	}
	algorithm, err := fingerprint.ParseAlgorithm(string(options.Algorithm))
	if err != nil {
		return nil, err
	}
	return &Dedup{
		name:     name,
		matcher:  matcher,
		dontFail: options.DontFail,
		logger:   logger,
		hasher:   fingerprint.NewHasher(algorithm),
	}, nil
}

// Name implements Transformer.
func (d *Dedup) Name() string { return d.name }

// Claims implements Transformer.
func (d *Dedup) Claims(path string) bool { return d.matcher.Match(path) }

// Observe fingerprints the candidate and records it under its path.
func (d *Dedup) Observe(candidate Candidate) error {
	reader, err := candidate.Open()
	if err != nil {
		return fmt.Errorf("opening %s from %s: %w", candidate.Path, candidate.Source, err)
	}
	sum, err := d.hasher.Sum(reader)
	reader.Close()
	if err != nil {
		return fmt.Errorf("failed to read data or calculate hash for %s from %s: %w",
			candidate.Path, candidate.Source, err)
	}

	d.candidates++
	group := d.groups.get(candidate.Path, func() *pathGroup { return &pathGroup{} })
	for _, variant := range group.variants {
		if variant.fingerprint == sum {
			variant.sources = append(variant.sources, candidate.Source)
			return nil
		}
	}
	group.variants = append(group.variants, &contentVariant{
		fingerprint: sum,
		sources:     []string{candidate.Source},
		first:       candidate,
	})
	return nil
}

// interesting reports whether duplication occurred at this path.
func (g *pathGroup) interesting() bool {
	return len(g.variants) > 1 || len(g.variants[0].sources) > 1
}

// Emit writes the first-seen content of every path and reports paths
// with more than one distinct content.
func (d *Dedup) Emit(sink Sink) (*Report, error) {
	report := &Report{
		Transformer: d.name,
		DontFail:    d.dontFail,
		Paths:       d.groups.len(),
		Candidates:  d.candidates,
	}

	err := d.groups.each(func(path string, group *pathGroup) error {
		if err := group.variants[0].first.CopyTo(sink, path); err != nil {
			return err
		}
		report.Entries++

		if !group.interesting() {
			return nil
		}
		if len(group.variants) == 1 {
			skipped := len(group.variants[0].sources) - 1
			report.DuplicatesSuppressed += skipped
			d.logger.Info("skipping input files with identical content",
				"path", path,
				"skipped", skipped,
			)
			return nil
		}

		conflict := Conflict{Path: path}
		for _, variant := range group.variants {
			conflict.Sources = append(conflict.Sources, variant.sources...)
			conflict.Variants = append(conflict.Variants, Variant{
				Fingerprint: variant.fingerprint,
				Sources:     append([]string(nil), variant.sources...),
			})
		}
		report.Conflicts = append(report.Conflicts, conflict)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(report.Conflicts) > 0 {
		report.Message = describeContentConflicts(report.Conflicts)
	}
	return report, nil
}

func describeContentConflicts(conflicts []Conflict) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "found %d path duplicate(s) with different content:", len(conflicts))
	for _, conflict := range conflicts {
		fmt.Fprintf(&builder, "\n  * %s", conflict.Path)
		for _, variant := range conflict.Variants {
			for _, source := range variant.Sources {
				fmt.Fprintf(&builder, "\n    * %s (fingerprint: %s)", source, variant.Fingerprint)
			}
		}
	}
	return builder.String()
}
