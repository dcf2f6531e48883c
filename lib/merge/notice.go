// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/shade-build/shade/lib/pattern"
)

// DefaultNoticeIncludes are matched case-insensitively.
var DefaultNoticeIncludes = []string{
	"NOTICE",
	"META-INF/NOTICE",
	"META-INF/NOTICE.txt",
	"META-INF/NOTICE.md",
}

// DefaultNoticeOutputPath is where the aggregated NOTICE is written.
const DefaultNoticeOutputPath = "META-INF/NOTICE"

// NoticeOptions configures a [Notice] transformer. Path matching is
// always case-insensitive.
type NoticeOptions struct {
	Options

	// ProjectNotice is written before the dependency notices.
	ProjectNotice []byte

	// OutputPath defaults to DefaultNoticeOutputPath.
	OutputPath string
}

// Notice aggregates distinct NOTICE texts into one file, separated by
// blank lines.
type Notice struct {
	name          string
	matcher       *pattern.Matcher
	logger        *slog.Logger
	outputPath    string
	projectNotice string

	texts      orderedSet
	paths      orderedSet
	candidates int
	duplicates int
}

// NewNotice returns a Notice transformer.
func NewNotice(options NoticeOptions) (*Notice, error) {
	options.Filter.IgnoreCase = true
	name, matcher, logger, err := options.resolve("notice", DefaultNoticeIncludes, false)
	if err != nil {
		return nil, err
	}
	notice := &Notice{
		name:          name,
		matcher:       matcher,
		logger:        logger,
		outputPath:    options.OutputPath,
		projectNotice: trimBlankLines(string(options.ProjectNotice)),
	}
	if notice.outputPath == "" {
		notice.outputPath = DefaultNoticeOutputPath
	}
	return notice, nil
}

// Name implements Transformer.
func (n *Notice) Name() string { return n.name }

// Claims implements Transformer. The output path is always claimed.
func (n *Notice) Claims(path string) bool {
	return path == n.outputPath || n.matcher.Match(path)
}

// OutputPath returns the path the NOTICE document is written to.
func (n *Notice) OutputPath() string { return n.outputPath }

// Observe records the candidate's trimmed text.
func (n *Notice) Observe(candidate Candidate) error {
	data, err := candidate.ReadAll()
	if err != nil {
		return err
	}
	n.candidates++
	n.paths.add(candidate.Path)

	text := trimBlankLines(string(data))
	if text == "" || text == n.projectNotice {
		return nil
	}
	if !n.texts.add(text) {
		n.duplicates++
	}
	return nil
}

// Emit writes the aggregated NOTICE when there is anything to write.
func (n *Notice) Emit(sink Sink) (*Report, error) {
	report := &Report{
		Transformer:          n.name,
		Paths:                n.paths.len(),
		Candidates:           n.candidates,
		DuplicatesSuppressed: n.duplicates,
	}

	parts := n.texts.items
	if n.projectNotice != "" {
		parts = append([]string{n.projectNotice}, parts...)
	}
	if len(parts) == 0 {
		return report, nil
	}

	var document bytes.Buffer
	for i, part := range parts {
		if i > 0 {
			document.WriteString("\n\n")
		}
		document.WriteString(part)
	}
	document.WriteString("\n")

	if err := sink.WriteEntry(n.outputPath, &document); err != nil {
		return nil, fmt.Errorf("writing %s: %w", n.outputPath, err)
	}
	report.Entries = 1
	return report, nil
}
