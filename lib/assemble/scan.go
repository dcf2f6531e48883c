// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package assemble

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shade-build/shade/lib/archive"
	"github.com/shade-build/shade/lib/fingerprint"
	"github.com/shade-build/shade/lib/pattern"
)

// ScanOptions selects what Scan looks for.
type ScanOptions struct {
	// Filter selects the paths to report. An empty filter selects
	// every path.
	Filter pattern.Filter

	// Algorithm, when set, fingerprints every match so differing
	// copies of a path can be told apart.
	Algorithm fingerprint.Algorithm
}

// Occurrence is one copy of a path in one source.
type Occurrence struct {
	Source      string                  `json:"source"`
	Fingerprint fingerprint.Fingerprint `json:"fingerprint,omitempty"`
}

// ScanResult lists every occurrence of one path, in source order.
type ScanResult struct {
	Path        string       `json:"path"`
	Occurrences []Occurrence `json:"occurrences"`

	// Distinct is the number of different contents, when fingerprints
	// were computed.
	Distinct int `json:"distinct,omitempty"`
}

// Scan reports where each selected path occurs across sources. Results
// are in first-seen path order.
func Scan(ctx context.Context, sources []string, options ScanOptions) ([]*ScanResult, error) {
	filter := options.Filter
	filter.AllowEmpty = true
	matcher, err := filter.Compile("scan")
	if err != nil {
		return nil, err
	}
	var hasher *fingerprint.Hasher
	if options.Algorithm != "" {
		algorithm, err := fingerprint.ParseAlgorithm(string(options.Algorithm))
		if err != nil {
			return nil, err
		}
		hasher = fingerprint.NewHasher(algorithm)
	}

	reader, err := archive.Open(ctx, sources)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var (
		results []*ScanResult
		byPath  = make(map[string]*ScanResult)
	)
	for {
		candidate, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if !matcher.Match(candidate.Path) {
			continue
		}

		occurrence := Occurrence{Source: candidate.Source}
		if hasher != nil {
			content, err := candidate.Open()
			if err != nil {
				return nil, fmt.Errorf("opening %s: %w", candidate.Source, err)
			}
			occurrence.Fingerprint, err = hasher.Sum(content)
			content.Close()
			if err != nil {
				return nil, fmt.Errorf("fingerprinting %s: %w", candidate.Source, err)
			}
		}

		result, ok := byPath[candidate.Path]
		if !ok {
			result = &ScanResult{Path: candidate.Path}
			byPath[candidate.Path] = result
			results = append(results, result)
		}
		result.Occurrences = append(result.Occurrences, occurrence)
	}

	if hasher != nil {
		for _, result := range results {
			seen := make(map[fingerprint.Fingerprint]struct{})
			for _, occurrence := range result.Occurrences {
				seen[occurrence.Fingerprint] = struct{}{}
			}
			result.Distinct = len(seen)
		}
	}
	return results, nil
}
