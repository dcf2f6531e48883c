// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"bytes"
	"fmt"
	"io"
)

// Candidate is one file from one source, considered for inclusion at
// Path in the merged archive.
type Candidate struct {
	// Path is the slash-separated output path inside the merged archive.
	Path string

	// Source identifies where the content came from (an archive member
	// such as "libs/a.jar!META-INF/LICENSE", or a file on disk). Used
	// for diagnostics only.
	Source string

	// Open returns a fresh reader over the content. It may be called
	// more than once; every call must yield the same bytes.
	Open func() (io.ReadCloser, error)
}

// NewCandidate returns a Candidate backed by an in-memory byte slice.
func NewCandidate(path, source string, content []byte) Candidate {
	return Candidate{
		Path:   path,
		Source: source,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

// ReadAll opens the candidate and reads its whole content. Errors carry
// the candidate's path and source.
func (c Candidate) ReadAll() ([]byte, error) {
	reader, err := c.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s from %s: %w", c.Path, c.Source, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading %s from %s: %w", c.Path, c.Source, err)
	}
	return data, nil
}

// CopyTo writes the candidate's content to sink at path.
func (c Candidate) CopyTo(sink Sink, path string) error {
	reader, err := c.Open()
	if err != nil {
		return fmt.Errorf("opening %s from %s: %w", c.Path, c.Source, err)
	}
	defer reader.Close()

	if err := sink.WriteEntry(path, reader); err != nil {
		return fmt.Errorf("writing %s from %s: %w", path, c.Source, err)
	}
	return nil
}

// CandidateReader yields candidates in a deterministic order. Next
// returns io.EOF after the last candidate.
type CandidateReader interface {
	Next() (Candidate, error)
}

// SliceReader is a CandidateReader over a fixed slice.
type SliceReader struct {
	candidates []Candidate
	position   int
}

// NewSliceReader returns a reader yielding candidates in slice order.
func NewSliceReader(candidates ...Candidate) *SliceReader {
	return &SliceReader{candidates: candidates}
}

// Next implements CandidateReader.
func (r *SliceReader) Next() (Candidate, error) {
	if r.position >= len(r.candidates) {
		return Candidate{}, io.EOF
	}
	candidate := r.candidates[r.position]
	r.position++
	return candidate, nil
}

// Sink receives resolved entries. Implementations write them to the
// output archive.
type Sink interface {
	WriteEntry(path string, content io.Reader) error
}
