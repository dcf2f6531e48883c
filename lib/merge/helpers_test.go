// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"
)

// bufferLogger returns a logger writing text records into the returned
// buffer.
func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buffer bytes.Buffer
	return slog.New(slog.NewTextHandler(&buffer, nil)), &buffer
}

// brokenCandidate fails on Open.
func brokenCandidate(path, source string, err error) Candidate {
	return Candidate{
		Path:   path,
		Source: source,
		Open:   func() (io.ReadCloser, error) { return nil, err },
	}
}

var errDiskGone = errors.New("disk gone")

func mustObserve(t *testing.T, transformer Transformer, candidates ...Candidate) {
	t.Helper()
	for _, candidate := range candidates {
		if err := transformer.Observe(candidate); err != nil {
			t.Fatalf("%s.Observe(%s from %s): %v", transformer.Name(), candidate.Path, candidate.Source, err)
		}
	}
}
