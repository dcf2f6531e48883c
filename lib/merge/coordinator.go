// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// passThrough marks a path no transformer claimed.
const passThrough = -1

// Coordinator drives the collect and emit phases over a set of
// transformers. One Coordinator serves exactly one merge run.
type Coordinator struct {
	logger       *slog.Logger
	transformers []Transformer

	// owners maps each observed path to the index of the transformer
	// that claimed it, or passThrough.
	owners map[string]int

	candidates    int
	passedThrough int
	finished      bool
}

// Summary describes a finished run.
type Summary struct {
	// Candidates is the number of observed candidates.
	Candidates int `json:"candidates"`

	// PassedThrough counts candidates no transformer claimed.
	PassedThrough int `json:"passed_through"`

	// Reports holds one report per transformer, in configuration
	// order.
	Reports []*Report `json:"reports"`
}

// NewCoordinator returns a Coordinator over transformers, consulted in
// the given order. A nil logger discards.
func NewCoordinator(logger *slog.Logger, transformers ...Transformer) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{
		logger:       logger,
		transformers: transformers,
		owners:       make(map[string]int),
	}
}

// Owner returns the name of the transformer owning path, or "" if the
// path was not observed or passed through.
func (c *Coordinator) Owner(path string) string {
	index, ok := c.owners[path]
	if !ok || index == passThrough {
		return ""
	}
	return c.transformers[index].Name()
}

// Observe hands candidate to the transformer owning its path, claiming
// the path on first sight. It returns false when no transformer claims
// the path; the caller then copies the candidate unchanged.
func (c *Coordinator) Observe(candidate Candidate) (bool, error) {
	if c.finished {
		return false, errors.New("merge: Observe called after Finish")
	}
	c.candidates++

	index, ok := c.owners[candidate.Path]
	if !ok {
		index = passThrough
		for i, transformer := range c.transformers {
			if transformer.Claims(candidate.Path) {
				index = i
				break
			}
		}
		c.owners[candidate.Path] = index
	}

	if index == passThrough {
		c.passedThrough++
		return false, nil
	}

	transformer := c.transformers[index]
	if err := transformer.Observe(candidate); err != nil {
		return true, fmt.Errorf("%s: %w", transformer.Name(), err)
	}
	return true, nil
}

// Finish runs the emit phase. Every transformer emits, even after
// another one reported conflicts. The returned Summary is valid
// whenever the error is nil or a *MergeError.
func (c *Coordinator) Finish(sink Sink) (*Summary, error) {
	if c.finished {
		return nil, errors.New("merge: Finish called twice")
	}
	c.finished = true

	summary := &Summary{
		Candidates:    c.candidates,
		PassedThrough: c.passedThrough,
	}

	var failures []*Report
	for _, transformer := range c.transformers {
		report, err := transformer.Emit(sink)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", transformer.Name(), err)
		}
		summary.Reports = append(summary.Reports, report)

		if !report.Failed() {
			continue
		}
		if report.DontFail {
			c.logger.Error(report.Message,
				"transformer", report.Transformer,
				"conflicts", len(report.Conflicts),
			)
			continue
		}
		failures = append(failures, report)
	}

	if len(failures) > 0 {
		return summary, &MergeError{Failures: failures}
	}
	return summary, nil
}

// Run observes every candidate from reader, copies unclaimed ones to
// sink, then finishes the run. Cancelling ctx aborts between
// candidates.
func (c *Coordinator) Run(ctx context.Context, reader CandidateReader, sink Sink) (*Summary, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidate, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading candidates: %w", err)
		}

		claimed, err := c.Observe(candidate)
		if err != nil {
			return nil, err
		}
		if !claimed {
			if err := candidate.CopyTo(sink, candidate.Path); err != nil {
				return nil, err
			}
		}
	}

	return c.Finish(sink)
}
