// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// DefaultModified is the modification time written on every entry
// unless configured otherwise. Zip cannot encode dates before 1980.
var DefaultModified = time.Date(1980, time.February, 1, 0, 0, 0, 0, time.UTC)

// Duplicates is the policy for a second write to an output path.
type Duplicates uint8

const (
	// DuplicatesExclude keeps the first write and drops later ones with
	// a warning.
	DuplicatesExclude Duplicates = iota

	// DuplicatesInclude writes every entry, producing an archive with
	// repeated names. Most readers see only one of them.
	DuplicatesInclude

	// DuplicatesFail rejects the second write with ErrDuplicateEntry.
	DuplicatesFail
)

// String returns the configuration name of the policy.
func (d Duplicates) String() string {
	switch d {
	case DuplicatesExclude:
		return "exclude"
	case DuplicatesInclude:
		return "include"
	case DuplicatesFail:
		return "fail"
	default:
		return fmt.Sprintf("unknown(%d)", d)
	}
}

// ParseDuplicates parses a policy name. The empty string selects
// DuplicatesExclude.
func ParseDuplicates(name string) (Duplicates, error) {
	switch name {
	case "", "exclude":
		return DuplicatesExclude, nil
	case "include":
		return DuplicatesInclude, nil
	case "fail":
		return DuplicatesFail, nil
	default:
		return 0, fmt.Errorf("unknown duplicates strategy %q (want exclude, include or fail)", name)
	}
}

// ErrDuplicateEntry is returned under DuplicatesFail.
var ErrDuplicateEntry = errors.New("duplicate archive entry")

// WriterOptions configures [Create].
type WriterOptions struct {
	Compression Compression

	// Modified is stamped on every entry. Zero selects DefaultModified.
	Modified time.Time

	Duplicates Duplicates

	// Logger receives duplicate warnings. Nil discards.
	Logger *slog.Logger
}

// Writer writes the merged archive. It implements [merge.Sink].
type Writer struct {
	path     string
	file     *os.File
	zip      *zip.Writer
	method   uint16
	modified time.Time
	policy   Duplicates
	logger   *slog.Logger

	written    map[string]struct{}
	entries    int
	duplicates int
	done       bool
}

// Create starts an archive that will be placed at path on Commit.
func Create(path string, options WriterOptions) (*Writer, error) {
	method, err := options.Compression.method()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary output: %w", err)
	}

	modified := options.Modified
	if modified.IsZero() {
		modified = DefaultModified
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	writer := zip.NewWriter(file)
	writer.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())
	return &Writer{
		path:     path,
		file:     file,
		zip:      writer,
		method:   method,
		modified: modified.UTC(),
		policy:   options.Duplicates,
		logger:   logger,
		written:  make(map[string]struct{}),
	}, nil
}

// WriteEntry adds path with the content of reader.
func (w *Writer) WriteEntry(path string, content io.Reader) error {
	if w.done {
		return errors.New("archive: write after Commit or Abort")
	}
	if path == "" {
		return errors.New("archive: empty entry path")
	}

	if _, seen := w.written[path]; seen {
		w.duplicates++
		switch w.policy {
		case DuplicatesFail:
			return fmt.Errorf("%w: %s", ErrDuplicateEntry, path)
		case DuplicatesExclude:
			w.logger.Warn("duplicate entry skipped", "path", path)
			return nil
		}
	}
	w.written[path] = struct{}{}

	header := &zip.FileHeader{
		Name:     path,
		Method:   w.method,
		Modified: w.modified,
	}
	header.SetMode(0o644)
	entry, err := w.zip.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("adding %s: %w", path, err)
	}
	if _, err := io.Copy(entry, content); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	w.entries++
	return nil
}

// Entries returns the number of entries written.
func (w *Writer) Entries() int { return w.entries }

// Duplicates returns the number of repeated writes seen, whatever the
// policy did with them.
func (w *Writer) Duplicates() int { return w.duplicates }

// Path returns the final archive path.
func (w *Writer) Path() string { return w.path }

// Commit finishes the archive and moves it into place.
func (w *Writer) Commit() error {
	if w.done {
		return errors.New("archive: Commit after Commit or Abort")
	}
	w.done = true

	if err := w.zip.Close(); err != nil {
		w.discard()
		return fmt.Errorf("finishing %s: %w", w.path, err)
	}
	if err := w.file.Chmod(0o644); err != nil {
		w.discard()
		return fmt.Errorf("finishing %s: %w", w.path, err)
	}
	if err := w.file.Close(); err != nil {
		os.Remove(w.file.Name())
		return fmt.Errorf("finishing %s: %w", w.path, err)
	}
	if err := os.Rename(w.file.Name(), w.path); err != nil {
		os.Remove(w.file.Name())
		return fmt.Errorf("moving archive into place: %w", err)
	}
	return nil
}

// Abort discards everything written. Calling Abort after Commit is a
// no-op, so it can be deferred.
func (w *Writer) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	return w.discard()
}

func (w *Writer) discard() error {
	w.file.Close()
	if err := os.Remove(w.file.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing temporary output: %w", err)
	}
	return nil
}
