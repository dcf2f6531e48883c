// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package assemble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shade-build/shade/lib/archive"
	"github.com/shade-build/shade/lib/clock"
	"github.com/shade-build/shade/lib/config"
	"github.com/shade-build/shade/lib/merge"
	"github.com/shade-build/shade/lib/mergemetrics"
	"github.com/shade-build/shade/lib/pattern"
	"github.com/shade-build/shade/lib/version"
)

// Options carries the collaborators of a run. Every field is optional.
type Options struct {
	// Logger receives progress and conflict messages. Nil discards.
	Logger *slog.Logger

	// Recorder receives run metrics. When nil, a Prometheus recorder
	// is created if the config names a metrics file, and a no-op
	// recorder otherwise.
	Recorder mergemetrics.Recorder

	// Clock times the run and stamps entries under the build
	// timestamp policy. Nil selects the real clock.
	Clock clock.Clock
}

// Result describes a finished run.
type Result struct {
	// Report is always set once the run got past configuration, even
	// when Run returns an error.
	Report *Report

	// Summary is the coordinator's view of the run. Nil when the run
	// aborted before the emit phase.
	Summary *merge.Summary
}

// textfileWriter is implemented by recorders that can persist
// themselves.
type textfileWriter interface {
	WriteTextfile(path string) error
}

// Run performs the merge described by cfg. A *merge.MergeError is
// returned when transformers report conflicts; the Result is valid in
// that case too.
func Run(ctx context.Context, cfg *config.Config, options Options) (*Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	runClock := options.Clock
	if runClock == nil {
		runClock = clock.Real()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	transformers, err := BuildTransformers(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	writerOptions, err := buildWriterOptions(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	var exclude *pattern.Matcher
	if len(cfg.Exclude) > 0 {
		exclude, err = pattern.Filter{Includes: cfg.Exclude}.Compile("exclude")
		if err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	recorder := options.Recorder
	if recorder == nil {
		if cfg.MetricsFile != "" {
			recorder = mergemetrics.NewPrometheusRecorder(nil)
		} else {
			recorder = mergemetrics.NoopRecorder{}
		}
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Shade:   version.Current(),
		Started: runClock.Now(),
		Output:  cfg.Output.Path,
		Sources: cfg.Sources,
	}
	if cfg.Output.Timestamp == config.TimestampBuild {
		writerOptions.Modified = report.Started
	}
	logger = logger.With("run_id", report.RunID)
	logger.Info("merge started",
		"output", cfg.Output.Path,
		"sources", len(cfg.Sources),
		"transformers", len(transformers),
	)

	result := &Result{Report: report}
	runErr := execute(ctx, cfg, transformers, exclude, writerOptions, logger, result)

	report.Finished = runClock.Now()
	report.DurationSeconds = report.Finished.Sub(report.Started).Seconds()
	report.Outcome = outcomeOf(runErr)
	if runErr != nil {
		report.Error = runErr.Error()
	}
	if result.Summary != nil {
		report.PassedThrough = result.Summary.PassedThrough
		report.Transformers = result.Summary.Reports
	}

	recorder.ObserveRunDuration(report.Finished.Sub(report.Started))
	recorder.IncRunOutcome(report.Outcome)
	mergemetrics.RecordSummary(recorder, result.Summary)

	var errs []error
	if runErr != nil {
		errs = append(errs, runErr)
	}
	if cfg.Report != "" {
		if err := WriteReport(cfg.Report, report); err != nil {
			errs = append(errs, err)
		}
	}
	if cfg.MetricsFile != "" {
		if writer, ok := recorder.(textfileWriter); ok {
			if err := writer.WriteTextfile(cfg.MetricsFile); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if runErr == nil {
		logger.Info("merge complete",
			"output", cfg.Output.Path,
			"entries", report.Entries,
			"duration", report.Finished.Sub(report.Started),
		)
	}

	switch len(errs) {
	case 0:
		return result, nil
	case 1:
		return result, errs[0]
	default:
		return result, errors.Join(errs...)
	}
}

// execute does the I/O part of a run, filling result and its report.
func execute(ctx context.Context, cfg *config.Config, transformers []merge.Transformer, exclude *pattern.Matcher,
	writerOptions archive.WriterOptions, logger *slog.Logger, result *Result) error {
	sources, err := archive.Open(ctx, cfg.Sources)
	if err != nil {
		return err
	}
	defer sources.Close()

	writer, err := archive.Create(cfg.Output.Path, writerOptions)
	if err != nil {
		return err
	}
	defer writer.Abort()

	reader := &filteredReader{reader: sources, exclude: exclude, logger: logger}
	coordinator := merge.NewCoordinator(logger, transformers...)
	summary, runErr := coordinator.Run(ctx, reader, writer)

	result.Summary = summary
	result.Report.Candidates = reader.read - reader.excluded
	result.Report.Excluded = reader.excluded
	result.Report.Entries = writer.Entries()

	if runErr != nil {
		return runErr
	}
	if err := writer.Commit(); err != nil {
		return err
	}
	result.Report.Committed = true
	return nil
}

func buildWriterOptions(cfg *config.Config, logger *slog.Logger) (archive.WriterOptions, error) {
	compression, err := archive.ParseCompression(cfg.Output.Compression)
	if err != nil {
		return archive.WriterOptions{}, err
	}
	duplicates, err := archive.ParseDuplicates(cfg.Output.Duplicates)
	if err != nil {
		return archive.WriterOptions{}, err
	}
	return archive.WriterOptions{
		Compression: compression,
		Duplicates:  duplicates,
		Logger:      logger,
	}, nil
}

func outcomeOf(err error) mergemetrics.Outcome {
	var mergeError *merge.MergeError
	switch {
	case err == nil:
		return mergemetrics.OutcomeSuccess
	case errors.As(err, &mergeError):
		return mergemetrics.OutcomeConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return mergemetrics.OutcomeCanceled
	default:
		return mergemetrics.OutcomeFailed
	}
}

// filteredReader drops globally excluded paths before the coordinator
// sees them.
type filteredReader struct {
	reader   merge.CandidateReader
	exclude  *pattern.Matcher
	logger   *slog.Logger
	read     int
	excluded int
}

func (f *filteredReader) Next() (merge.Candidate, error) {
	for {
		candidate, err := f.reader.Next()
		if err != nil {
			return candidate, err
		}
		f.read++
		if f.exclude.Match(candidate.Path) {
			f.excluded++
			f.logger.Debug("excluding entry", "path", candidate.Path, "source", candidate.Source)
			continue
		}
		return candidate, nil
	}
}
