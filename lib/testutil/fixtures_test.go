// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"archive/tar"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

func TestWriteZipCreatesParents(t *testing.T) {
	path := WriteZip(t, filepath.Join(t.TempDir(), "libs", "nested", "first.jar"),
		File{Path: "a.txt", Content: "a"},
		File{Path: "b/c.txt", Content: "c"},
	)

	reader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer reader.Close()
	if len(reader.File) != 2 || reader.File[0].Name != "a.txt" || reader.File[1].Name != "b/c.txt" {
		t.Errorf("unexpected members: %d", len(reader.File))
	}
}

func TestWriteTarCreatesParents(t *testing.T) {
	path := WriteTar(t, filepath.Join(t.TempDir(), "deps", "extra.tar"),
		File{Path: "reference.conf", Content: "conf"},
	)

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer file.Close()
	reader := tar.NewReader(file)
	header, err := reader.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if header.Name != "reference.conf" || string(content) != "conf" {
		t.Errorf("member = %s %q", header.Name, content)
	}
	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected a single member, got %v", err)
	}
}

func TestWriteTree(t *testing.T) {
	root := WriteTree(t, filepath.Join(t.TempDir(), "classes"),
		File{Path: "com/example/Main.class", Content: "main"},
	)
	data, err := os.ReadFile(filepath.Join(root, "com", "example", "Main.class"))
	if err != nil || string(data) != "main" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
}
