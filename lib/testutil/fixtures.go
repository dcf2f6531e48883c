// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"archive/tar"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// File is one fixture file.
type File struct {
	Path    string
	Content string
}

// TB is the subset of testing.TB the fixture helpers need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// create opens path for writing, creating missing parent directories.
func create(t TB, path string) *os.File {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating directory for %s: %v", path, err)
	}
	output, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	return output
}

// WriteZip creates a zip archive at path containing files in the given
// order, deflate-compressed. Missing parent directories are created.
func WriteZip(t TB, path string, files ...File) string {
	t.Helper()
	output := create(t, path)
	defer output.Close()

	writer := zip.NewWriter(output)
	for _, file := range files {
		entry, err := writer.Create(file.Path)
		if err != nil {
			t.Fatalf("adding %s to %s: %v", file.Path, path, err)
		}
		if _, err := entry.Write([]byte(file.Content)); err != nil {
			t.Fatalf("writing %s to %s: %v", file.Path, path, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing %s: %v", path, err)
	}
	return path
}

// WriteTar creates an uncompressed tar archive at path, creating
// missing parent directories.
func WriteTar(t TB, path string, files ...File) string {
	t.Helper()
	output := create(t, path)
	defer output.Close()

	writer := tar.NewWriter(output)
	for _, file := range files {
		header := &tar.Header{
			Name:     file.Path,
			Mode:     0644,
			Size:     int64(len(file.Content)),
			Typeflag: tar.TypeReg,
		}
		if err := writer.WriteHeader(header); err != nil {
			t.Fatalf("adding %s to %s: %v", file.Path, path, err)
		}
		if _, err := writer.Write([]byte(file.Content)); err != nil {
			t.Fatalf("writing %s to %s: %v", file.Path, path, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing %s: %v", path, err)
	}
	return path
}

// WriteTree writes files below root, creating directories as needed.
func WriteTree(t TB, root string, files ...File) string {
	t.Helper()
	for _, file := range files {
		target := filepath.Join(root, filepath.FromSlash(file.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", target, err)
		}
		if err := os.WriteFile(target, []byte(file.Content), 0644); err != nil {
			t.Fatalf("writing %s: %v", target, err)
		}
	}
	return root
}
