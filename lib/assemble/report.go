// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package assemble

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shade-build/shade/lib/codec"
	"github.com/shade-build/shade/lib/merge"
	"github.com/shade-build/shade/lib/mergemetrics"
	"github.com/shade-build/shade/lib/version"
)

// Report is the persisted record of one merge run.
type Report struct {
	// RunID is a random UUID distinguishing this run in logs, metrics
	// dashboards and stored reports.
	RunID string `json:"run_id"`

	// Shade identifies the binary that performed the run.
	Shade version.Build `json:"shade"`

	Started         time.Time `json:"started"`
	Finished        time.Time `json:"finished"`
	DurationSeconds float64   `json:"duration_seconds"`

	Output string `json:"output"`

	// Committed is true when the archive was moved into place.
	Committed bool `json:"committed"`

	Outcome mergemetrics.Outcome `json:"outcome"`

	// Error is the run error, if any.
	Error string `json:"error,omitempty"`

	Sources []string `json:"sources"`

	// Candidates counts input files after global excludes.
	Candidates int `json:"candidates"`

	// Excluded counts input files dropped by global excludes.
	Excluded int `json:"excluded"`

	// PassedThrough counts input files no transformer claimed.
	PassedThrough int `json:"passed_through"`

	// Entries counts entries written to the archive.
	Entries int `json:"entries"`

	// Transformers holds one report per transformer, in configuration
	// order.
	Transformers []*merge.Report `json:"transformers"`
}

// WriteReport writes report to path, as CBOR when the path ends in
// .cbor and as indented JSON otherwise.
func WriteReport(path string, report *Report) error {
	var (
		data []byte
		err  error
	)
	if isCBOR(path) {
		data, err = codec.Marshal(report)
	} else {
		data, err = json.MarshalIndent(report, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	report := &Report{}
	if isCBOR(path) {
		err = codec.Unmarshal(data, report)
	} else {
		err = json.Unmarshal(data, report)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", path, err)
	}
	return report, nil
}

func isCBOR(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".cbor")
}
