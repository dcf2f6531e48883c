// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how entries are stored in the output archive.
type Compression uint8

const (
	// CompressionDeflate is the zip default, readable everywhere.
	CompressionDeflate Compression = iota

	// CompressionStore writes entries uncompressed. Useful when the
	// archive is compressed again as a whole.
	CompressionStore

	// CompressionZstd uses zip method 93. Smaller and faster than
	// deflate, but older unzip tools and JVMs cannot read it.
	CompressionZstd
)

// String returns the configuration name of the compression.
func (c Compression) String() string {
	switch c {
	case CompressionDeflate:
		return "deflate"
	case CompressionStore:
		return "store"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// ParseCompression parses a compression name. The empty string selects
// CompressionDeflate.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "deflate":
		return CompressionDeflate, nil
	case "store":
		return CompressionStore, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want store, deflate or zstd)", name)
	}
}

// method returns the zip method number.
func (c Compression) method() (uint16, error) {
	switch c {
	case CompressionDeflate:
		return zip.Deflate, nil
	case CompressionStore:
		return zip.Store, nil
	case CompressionZstd:
		return zstd.ZipMethodWinZip, nil
	default:
		return 0, fmt.Errorf("unsupported compression: %s", c)
	}
}

// kind is the container format of a source.
type kind uint8

const (
	kindDirectory kind = iota
	kindZip
	kindTar
)

// streamCodec is the whole-stream compression around a tar source.
type streamCodec uint8

const (
	codecNone streamCodec = iota
	codecGzip
	codecZstd
	codecLZ4
)

// classify picks the format of a non-directory source from its name.
func classify(path string) (kind, streamCodec, error) {
	name := strings.ToLower(path)
	switch {
	case hasAnySuffix(name, ".zip", ".jar", ".war", ".ear"):
		return kindZip, codecNone, nil
	case strings.HasSuffix(name, ".tar"):
		return kindTar, codecNone, nil
	case hasAnySuffix(name, ".tar.gz", ".tgz"):
		return kindTar, codecGzip, nil
	case hasAnySuffix(name, ".tar.zst", ".tzst"):
		return kindTar, codecZstd, nil
	case strings.HasSuffix(name, ".tar.lz4"):
		return kindTar, codecLZ4, nil
	default:
		return 0, 0, fmt.Errorf("unsupported source %s: not a directory, zip or tar archive", path)
	}
}

func hasAnySuffix(name string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// decompress wraps reader according to codec. The returned closer
// releases decoder resources; it does not close reader.
func decompress(reader io.Reader, codec streamCodec) (io.Reader, func(), error) {
	switch codec {
	case codecNone:
		return reader, func() {}, nil
	case codecGzip:
		decoder, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return decoder, func() { decoder.Close() }, nil
	case codecZstd:
		decoder, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return decoder, decoder.Close, nil
	case codecLZ4:
		return lz4.NewReader(reader), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported stream codec %d", codec)
	}
}
