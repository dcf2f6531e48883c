// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"io"
)

// Entry is one write recorded by a MemorySink.
type Entry struct {
	Path    string
	Content []byte
}

// MemorySink records every WriteEntry call.
type MemorySink struct {
	Entries []Entry

	// Err, when set, is returned from every WriteEntry call.
	Err error
}

// WriteEntry records path and the full content of reader.
func (s *MemorySink) WriteEntry(path string, reader io.Reader) error {
	if s.Err != nil {
		return s.Err
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.Entries = append(s.Entries, Entry{Path: path, Content: content})
	return nil
}

// Paths returns the written paths in write order.
func (s *MemorySink) Paths() []string {
	paths := make([]string, 0, len(s.Entries))
	for _, entry := range s.Entries {
		paths = append(paths, entry.Path)
	}
	return paths
}

// Count returns how many times path was written.
func (s *MemorySink) Count(path string) int {
	count := 0
	for _, entry := range s.Entries {
		if entry.Path == path {
			count++
		}
	}
	return count
}

// Content returns the content of the first write to path and whether
// there was one.
func (s *MemorySink) Content(path string) (string, bool) {
	for _, entry := range s.Entries {
		if entry.Path == path {
			return string(entry.Content), true
		}
	}
	return "", false
}
