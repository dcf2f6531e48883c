// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package mergemetrics

import (
	"time"

	"github.com/shade-build/shade/lib/merge"
)

// Outcome is the final status of a merge run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeConflict Outcome = "conflict"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Recorder receives run metrics.
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome Outcome)
	AddCandidates(transformer string, n int)
	AddEntries(transformer string, n int)
	AddDuplicatesSuppressed(transformer string, n int)
	AddConflicts(transformer string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are
// not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration)    {}
func (NoopRecorder) IncRunOutcome(Outcome)               {}
func (NoopRecorder) AddCandidates(string, int)           {}
func (NoopRecorder) AddEntries(string, int)              {}
func (NoopRecorder) AddDuplicatesSuppressed(string, int) {}
func (NoopRecorder) AddConflicts(string, int)            {}

// PassThrough labels candidates no transformer claimed.
const PassThrough = "pass-through"

// RecordSummary forwards the counters of a finished run.
func RecordSummary(recorder Recorder, summary *merge.Summary) {
	if summary == nil {
		return
	}
	recorder.AddCandidates(PassThrough, summary.PassedThrough)
	recorder.AddEntries(PassThrough, summary.PassedThrough)
	for _, report := range summary.Reports {
		recorder.AddCandidates(report.Transformer, report.Candidates)
		recorder.AddEntries(report.Transformer, report.Entries)
		recorder.AddDuplicatesSuppressed(report.Transformer, report.DuplicatesSuppressed)
		recorder.AddConflicts(report.Transformer, len(report.Conflicts))
	}
}
