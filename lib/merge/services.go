// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shade-build/shade/lib/pattern"
)

// DefaultServiceIncludes selects service provider registration files.
var DefaultServiceIncludes = []string{"META-INF/services/**"}

// ServiceFiles merges service registration files: every provider line
// of every input, in first-seen order, with comments, blank lines and
// repeated providers dropped.
type ServiceFiles struct {
	name    string
	matcher *pattern.Matcher
	logger  *slog.Logger

	files      pathIndex[orderedSet]
	candidates int
	duplicates int
}

// NewServiceFiles returns a ServiceFiles transformer.
func NewServiceFiles(options Options) (*ServiceFiles, error) {
	name, matcher, logger, err := options.resolve("services", DefaultServiceIncludes, false)
	if err != nil {
		return nil, err
	}
	return &ServiceFiles{name: name, matcher: matcher, logger: logger}, nil
}

// Name implements Transformer.
func (s *ServiceFiles) Name() string { return s.name }

// Claims implements Transformer.
func (s *ServiceFiles) Claims(path string) bool { return s.matcher.Match(path) }

// Observe adds the candidate's provider lines.
func (s *ServiceFiles) Observe(candidate Candidate) error {
	data, err := candidate.ReadAll()
	if err != nil {
		return err
	}
	s.candidates++
	providers := s.files.get(candidate.Path, func() *orderedSet { return &orderedSet{} })
	for _, line := range strings.Split(string(data), "\n") {
		if comment := strings.IndexByte(line, '#'); comment >= 0 {
			line = line[:comment]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !providers.add(line) {
			s.duplicates++
		}
	}
	return nil
}

// Emit writes one file per path.
func (s *ServiceFiles) Emit(sink Sink) (*Report, error) {
	report := &Report{
		Transformer:          s.name,
		Paths:                s.files.len(),
		Candidates:           s.candidates,
		DuplicatesSuppressed: s.duplicates,
	}
	err := s.files.each(func(path string, providers *orderedSet) error {
		content := strings.Join(providers.items, "\n")
		if content != "" {
			content += "\n"
		}
		s.logger.Debug("writing service file", "path", path, "providers", providers.len())
		if err := sink.WriteEntry(path, strings.NewReader(content)); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		report.Entries++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
