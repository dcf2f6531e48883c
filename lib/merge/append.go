// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/shade-build/shade/lib/pattern"
)

// Append concatenates every entry sharing a path, each followed by a
// newline. The include filter is mandatory.
type Append struct {
	name    string
	matcher *pattern.Matcher
	logger  *slog.Logger

	files      pathIndex[bytes.Buffer]
	candidates int
}

// NewAppend returns an Append transformer.
func NewAppend(options Options) (*Append, error) {
	name, matcher, logger, err := options.resolve("append", nil, false)
	if err != nil {
		return nil, err
	}
	return &Append{name: name, matcher: matcher, logger: logger}, nil
}

// Name implements Transformer.
func (a *Append) Name() string { return a.name }

// Claims implements Transformer.
func (a *Append) Claims(path string) bool { return a.matcher.Match(path) }

// Observe appends the candidate's content.
func (a *Append) Observe(candidate Candidate) error {
	data, err := candidate.ReadAll()
	if err != nil {
		return err
	}
	a.candidates++
	buffer := a.files.get(candidate.Path, func() *bytes.Buffer { return &bytes.Buffer{} })
	buffer.Write(data)
	buffer.WriteByte('\n')
	return nil
}

// Emit writes one concatenated entry per path.
func (a *Append) Emit(sink Sink) (*Report, error) {
	report := &Report{
		Transformer: a.name,
		Paths:       a.files.len(),
		Candidates:  a.candidates,
	}
	err := a.files.each(func(path string, buffer *bytes.Buffer) error {
		a.logger.Debug("writing appended entry", "path", path, "bytes", buffer.Len())
		if err := sink.WriteEntry(path, bytes.NewReader(buffer.Bytes())); err != nil {
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
