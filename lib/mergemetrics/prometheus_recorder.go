// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package mergemetrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "shade"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry             *prom.Registry
	runs                 *prom.CounterVec
	duration             prom.Histogram
	candidates           *prom.CounterVec
	entries              *prom.CounterVec
	duplicatesSuppressed *prom.CounterVec
	conflicts            *prom.CounterVec
}

// NewPrometheusRecorder constructs the merge metrics and registers them
// with registry. A nil registry gets a private one.
func NewPrometheusRecorder(registry *prom.Registry) *PrometheusRecorder {
	if registry == nil {
		registry = prom.NewRegistry()
	}
	recorder := &PrometheusRecorder{
		registry: registry,
		runs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "merge_runs_total",
			Help:      "Merge runs by outcome",
		}, []string{"outcome"}),
		duration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "merge_duration_seconds",
			Help:      "Wall time of a merge run",
			Buckets:   prom.ExponentialBuckets(0.05, 2, 12),
		}),
		candidates: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "merge_candidates_total",
			Help:      "Input files observed, by owning transformer",
		}, []string{"transformer"}),
		entries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "merge_entries_total",
			Help:      "Entries written to the output archive, by transformer",
		}, []string{"transformer"}),
		duplicatesSuppressed: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "merge_duplicates_suppressed_total",
			Help:      "Input files dropped because identical content was already kept",
		}, []string{"transformer"}),
		conflicts: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "merge_conflicts_total",
			Help:      "Paths whose inputs disagreed, by transformer",
		}, []string{"transformer"}),
	}
	registry.MustRegister(recorder.runs, recorder.duration, recorder.candidates,
		recorder.entries, recorder.duplicatesSuppressed, recorder.conflicts)
	return recorder
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	p.duration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome Outcome) {
	p.runs.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddCandidates(transformer string, n int) {
	p.candidates.WithLabelValues(transformer).Add(float64(n))
}

func (p *PrometheusRecorder) AddEntries(transformer string, n int) {
	p.entries.WithLabelValues(transformer).Add(float64(n))
}

func (p *PrometheusRecorder) AddDuplicatesSuppressed(transformer string, n int) {
	p.duplicatesSuppressed.WithLabelValues(transformer).Add(float64(n))
}

func (p *PrometheusRecorder) AddConflicts(transformer string, n int) {
	p.conflicts.WithLabelValues(transformer).Add(float64(n))
}

// Registry returns the registry the metrics live in.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

// WriteTextfile writes every registered metric to path in the text
// exposition format, atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
