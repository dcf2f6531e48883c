// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package assemble

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/shade-build/shade/lib/config"
	"github.com/shade-build/shade/lib/fingerprint"
	"github.com/shade-build/shade/lib/merge"
	"github.com/shade-build/shade/lib/pattern"
)

// BuildTransformers constructs the configured transformers in order.
// Every misconfigured transformer is reported, not just the first.
func BuildTransformers(cfg *config.Config, logger *slog.Logger) ([]merge.Transformer, error) {
	var (
		transformers []merge.Transformer
		errs         []error
	)
	for i, transformerConfig := range cfg.Transformers {
		transformer, err := buildTransformer(transformerConfig, cfg, logger)
		if err != nil {
			errs = append(errs, fmt.Errorf("transformers[%d] (%s): %w", i, transformerConfig.Label(), err))
			continue
		}
		transformers = append(transformers, transformer)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := checkOutputPaths(transformers); err != nil {
		return nil, err
	}
	return transformers, nil
}

// documentWriter is implemented by transformers that write one
// aggregated document at a fixed path.
type documentWriter interface {
	OutputPath() string
}

// checkOutputPaths rejects orderings where an earlier transformer
// claims the path an aggregating transformer writes to. The earlier
// one would own that path and the aggregate would be written as a
// duplicate entry.
func checkOutputPaths(transformers []merge.Transformer) error {
	var errs []error
	for i, transformer := range transformers {
		document, ok := transformer.(documentWriter)
		if !ok {
			continue
		}
		path := document.OutputPath()
		for j, earlier := range transformers[:i] {
			if earlier.Claims(path) {
				errs = append(errs, fmt.Errorf("transformers[%d] (%s) claims %s, the output path of transformers[%d] (%s); "+
					"order %s first or exclude the path from %s",
					j, earlier.Name(), path, i, transformer.Name(), transformer.Name(), earlier.Name()))
				break
			}
		}
	}
	return errors.Join(errs...)
}

func buildTransformer(t config.TransformerConfig, cfg *config.Config, logger *slog.Logger) (merge.Transformer, error) {
	options := merge.Options{
		Name: t.Name,
		Filter: pattern.Filter{
			Includes:   t.Include,
			Excludes:   t.Exclude,
			IgnoreCase: t.IgnoreCase,
		},
		DontFail: t.DontFail,
		Logger:   logger,
	}

	switch t.Type {
	case config.TypeDedup:
		return merge.NewDedup(merge.DedupOptions{
			Options:   options,
			Algorithm: fingerprint.Algorithm(cfg.Fingerprint),
		})

	case config.TypeProperties:
		propertiesOptions := merge.PropertiesOptions{Options: options}
		if t.IgnoreConflicts != nil {
			propertiesOptions.IgnoreConflicts = pattern.Filter{
				Includes: t.IgnoreConflicts.Include,
				Excludes: t.IgnoreConflicts.Exclude,
			}
		}
		return merge.NewProperties(propertiesOptions)

	case config.TypeLicense:
		return merge.NewLicense(merge.LicenseOptions{
			Options:        options,
			LicenseFile:    t.LicenseFile,
			OutputPath:     t.OutputPath,
			SPDXID:         t.SPDXID,
			FirstSeparator: t.FirstSeparator,
			Separator:      t.Separator,
		})

	case config.TypeNotice:
		noticeOptions := merge.NoticeOptions{Options: options, OutputPath: t.OutputPath}
		if t.NoticeFile != "" {
			notice, err := os.ReadFile(t.NoticeFile)
			if err != nil {
				return nil, fmt.Errorf("reading project notice: %w", err)
			}
			noticeOptions.ProjectNotice = notice
		}
		return merge.NewNotice(noticeOptions)

	case config.TypeServices:
		return merge.NewServiceFiles(options)

	case config.TypeAppend:
		return merge.NewAppend(options)

	default:
		return nil, fmt.Errorf("unknown transformer type %q", t.Type)
	}
}
