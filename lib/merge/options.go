// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"log/slog"

	"github.com/shade-build/shade/lib/pattern"
)

// Options is the configuration every transformer shares.
type Options struct {
	// Name overrides the transformer's default name in logs and
	// reports. Useful when one run uses two transformers of a kind.
	Name string

	// Filter selects the paths the transformer claims.
	Filter pattern.Filter

	// DontFail downgrades conflicts to error-level log entries; the
	// run continues with first-seen content.
	DontFail bool

	// Logger receives progress and conflict messages. Nil discards.
	Logger *slog.Logger
}

// resolve fills defaults and compiles the filter. kind is the default
// name; defaults and allowEmpty describe the transformer's filter
// policy.
func (o Options) resolve(kind string, defaults []string, allowEmpty bool) (string, *pattern.Matcher, *slog.Logger, error) {
	name := o.Name
	if name == "" {
		name = kind
	}

	filter := o.Filter
	if len(filter.DefaultIncludes) == 0 {
		filter.DefaultIncludes = defaults
	}
	filter.AllowEmpty = filter.AllowEmpty || allowEmpty
	matcher, err := filter.Compile(name)
	if err != nil {
		return "", nil, nil, err
	}

	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("transformer", name)
	logger.Debug("using pattern spec",
		"includes", matcher.Includes(),
		"excludes", matcher.Excludes(),
	)
	return name, matcher, logger, nil
}
