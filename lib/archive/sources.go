// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/shade-build/shade/lib/merge"
)

// Sources yields the candidates of a list of sources, one source after
// the other. It implements [merge.CandidateReader].
type Sources struct {
	ctx     context.Context
	paths   []string
	next    int
	current iterator

	// exhausted holds iterators whose candidates may still be opened.
	exhausted []iterator
}

// iterator walks the regular files of one source.
type iterator interface {
	next() (merge.Candidate, error)
	close() error
}

// Open returns a reader over paths. Every path must exist; the check
// happens up front so a typo fails before any work is done. Sources
// themselves are opened lazily, in order.
func Open(ctx context.Context, paths []string) (*Sources, error) {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", path, err)
		}
		if !info.IsDir() {
			if _, _, err := classify(path); err != nil {
				return nil, err
			}
		}
	}
	return &Sources{ctx: ctx, paths: paths}, nil
}

// Next returns the next candidate, or io.EOF after the last one.
func (s *Sources) Next() (merge.Candidate, error) {
	for {
		if err := s.ctx.Err(); err != nil {
			return merge.Candidate{}, err
		}
		if s.current == nil {
			if s.next >= len(s.paths) {
				return merge.Candidate{}, io.EOF
			}
			current, err := openSource(s.paths[s.next])
			if err != nil {
				return merge.Candidate{}, err
			}
			s.current = current
			s.next++
		}

		candidate, err := s.current.next()
		if errors.Is(err, io.EOF) {
			s.exhausted = append(s.exhausted, s.current)
			s.current = nil
			continue
		}
		return candidate, err
	}
}

// Close releases every source opened so far. Candidates from a zip
// source stay readable until Close, so a transformer may reopen them
// when it emits.
func (s *Sources) Close() error {
	var errs []error
	if s.current != nil {
		errs = append(errs, s.current.close())
		s.current = nil
	}
	for _, source := range s.exhausted {
		errs = append(errs, source.close())
	}
	s.exhausted = nil
	s.next = len(s.paths)
	return errors.Join(errs...)
}

func openSource(path string) (iterator, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", path, err)
	}
	if info.IsDir() {
		return openDirectory(path)
	}
	sourceKind, codec, err := classify(path)
	if err != nil {
		return nil, err
	}
	if sourceKind == kindZip {
		return openZip(path)
	}
	return openTar(path, codec)
}

// memberSource names an archive member in diagnostics.
func memberSource(archive, entry string) string {
	return archive + "!" + entry
}

// cleanEntryName turns an archive member name into an output path.
func cleanEntryName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "./")
	return strings.TrimLeft(name, "/")
}

type directoryIterator struct {
	root  string
	files []string
}

func openDirectory(root string) (*directoryIterator, error) {
	walker := &directoryIterator{root: root}
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.Type().IsRegular() {
			walker.files = append(walker.files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return walker, nil
}

func (d *directoryIterator) next() (merge.Candidate, error) {
	if len(d.files) == 0 {
		return merge.Candidate{}, io.EOF
	}
	path := d.files[0]
	d.files = d.files[1:]

	relative, err := filepath.Rel(d.root, path)
	if err != nil {
		return merge.Candidate{}, err
	}
	return merge.Candidate{
		Path:   filepath.ToSlash(relative),
		Source: path,
		Open:   func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

func (d *directoryIterator) close() error { return nil }

type zipIterator struct {
	path   string
	reader *zip.ReadCloser
	index  int
}

func openZip(path string) (*zipIterator, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	reader.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	return &zipIterator{path: path, reader: reader}, nil
}

func (z *zipIterator) next() (merge.Candidate, error) {
	for z.index < len(z.reader.File) {
		file := z.reader.File[z.index]
		z.index++
		if file.FileInfo().IsDir() || strings.HasSuffix(file.Name, "/") {
			continue
		}
		return merge.Candidate{
			Path:   cleanEntryName(file.Name),
			Source: memberSource(z.path, file.Name),
			Open:   file.Open,
		}, nil
	}
	return merge.Candidate{}, io.EOF
}

func (z *zipIterator) close() error { return z.reader.Close() }

// tarIterator reads a tar stream. Members cannot be re-read from the
// stream, so each one is buffered when it is reached.
type tarIterator struct {
	path    string
	file    *os.File
	release func()
	reader  *tar.Reader
}

func openTar(path string, codec streamCodec) (*tarIterator, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	stream, release, err := decompress(file, codec)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &tarIterator{path: path, file: file, release: release, reader: tar.NewReader(stream)}, nil
}

func (t *tarIterator) next() (merge.Candidate, error) {
	for {
		header, err := t.reader.Next()
		if errors.Is(err, io.EOF) {
			return merge.Candidate{}, io.EOF
		}
		if err != nil {
			return merge.Candidate{}, fmt.Errorf("reading %s: %w", t.path, err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		content, err := io.ReadAll(t.reader)
		if err != nil {
			return merge.Candidate{}, fmt.Errorf("reading %s: %w", memberSource(t.path, header.Name), err)
		}
		return merge.NewCandidate(cleanEntryName(header.Name), memberSource(t.path, header.Name), content), nil
	}
}

func (t *tarIterator) close() error {
	if t.file == nil {
		return nil
	}
	t.release()
	err := t.file.Close()
	t.file = nil
	return err
}
