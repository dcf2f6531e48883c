// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"fmt"
	"strings"

	"github.com/shade-build/shade/lib/fingerprint"
)

// Transformer claims output paths and resolves their content.
type Transformer interface {
	// Name identifies the transformer in logs, reports and errors.
	Name() string

	// Claims reports whether the transformer's path filter selects
	// path. It must not depend on previously observed candidates.
	Claims(path string) bool

	// Observe records a candidate whose path this transformer owns.
	// Called only during the collect phase.
	Observe(candidate Candidate) error

	// Emit writes the resolved entries to sink and reports conflicts.
	// Called once, after every candidate has been observed. An error
	// means the entries could not be produced at all (I/O); conflicts
	// are returned in the Report instead.
	Emit(sink Sink) (*Report, error)
}

// Report is what a transformer hands back to the coordinator after
// emitting.
type Report struct {
	Transformer string `json:"transformer"`

	// DontFail mirrors the transformer's policy: conflicts are logged
	// instead of failing the run.
	DontFail bool `json:"dont_fail"`

	// Paths is the number of distinct input paths the transformer
	// owned.
	Paths int `json:"paths"`

	// Candidates is the number of observed candidates.
	Candidates int `json:"candidates"`

	// Entries is the number of entries written to the sink.
	Entries int `json:"entries"`

	// DuplicatesSuppressed counts candidates dropped because an
	// identical one was already kept.
	DuplicatesSuppressed int `json:"duplicates_suppressed"`

	// Conflicts lists every path with disagreeing inputs.
	Conflicts []Conflict `json:"conflicts,omitempty"`

	// Message is the human-readable conflict description. Empty when
	// there are no conflicts.
	Message string `json:"message,omitempty"`
}

// Failed reports whether the transformer found conflicts.
func (r *Report) Failed() bool {
	return r != nil && len(r.Conflicts) > 0
}

// Conflict records the inputs disagreeing at one path.
type Conflict struct {
	Path string `json:"path"`

	// Sources lists every contributing source in observation order.
	Sources []string `json:"sources"`

	// Variants groups sources by content fingerprint (Dedup).
	Variants []Variant `json:"variants,omitempty"`

	// Keys lists the conflicting keys and all their values
	// (Properties).
	Keys []KeyConflict `json:"keys,omitempty"`
}

// Variant is one distinct content seen at a path, with every source
// that produced it.
type Variant struct {
	Fingerprint fingerprint.Fingerprint `json:"fingerprint"`
	Sources     []string                `json:"sources"`
}

// KeyConflict lists the distinct values seen for one key, in first-seen
// order.
type KeyConflict struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// MergeError is returned by [Coordinator.Finish] when at least one
// transformer without DontFail reported conflicts.
type MergeError struct {
	Failures []*Report
}

func (e *MergeError) Error() string {
	var builder strings.Builder
	paths := 0
	for _, report := range e.Failures {
		paths += len(report.Conflicts)
	}
	fmt.Fprintf(&builder, "merge failed: %d conflicting path(s) in %d transformer(s):", paths, len(e.Failures))
	for _, report := range e.Failures {
		fmt.Fprintf(&builder, "\n[%s] %s", report.Transformer, report.Message)
	}
	return builder.String()
}

// Paths returns every conflicting path, grouped by transformer in
// report order.
func (e *MergeError) Paths() []string {
	var paths []string
	for _, report := range e.Failures {
		for _, conflict := range report.Conflicts {
			paths = append(paths, conflict.Path)
		}
	}
	return paths
}
