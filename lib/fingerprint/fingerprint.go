// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// ChunkSize is the read buffer size used when streaming content
// through the digest.
const ChunkSize = 8192

// Fingerprint is a 64-bit content fingerprint: the leading eight bytes
// of the content digest, read big-endian.
type Fingerprint uint64

// String returns the fingerprint as 16 lowercase hex digits. This is
// the form used in logs, conflict messages and merge reports.
func (f Fingerprint) String() string {
	var buffer [8]byte
	binary.BigEndian.PutUint64(buffer[:], uint64(f))
	return hex.EncodeToString(buffer[:])
}

// MarshalText implements encoding.TextMarshaler so fingerprints encode
// as hex strings in JSON and CBOR reports.
func (f Fingerprint) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Fingerprint) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Parse parses the 16-hex-digit form produced by [Fingerprint.String].
func Parse(hexString string) (Fingerprint, error) {
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return 0, fmt.Errorf("parsing fingerprint: %w", err)
	}
	if len(decoded) != 8 {
		return 0, fmt.Errorf("fingerprint is %d bytes, want 8", len(decoded))
	}
	return Fingerprint(binary.BigEndian.Uint64(decoded)), nil
}

// Algorithm selects the digest a fingerprint is derived from.
type Algorithm string

const (
	// SHA256 truncates a SHA-256 digest. Default.
	SHA256 Algorithm = "sha256"

	// BLAKE3 truncates an unkeyed BLAKE3-256 digest.
	BLAKE3 Algorithm = "blake3"
)

// ParseAlgorithm parses an algorithm name. The empty string selects
// [SHA256].
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case "", SHA256:
		return SHA256, nil
	case BLAKE3:
		return BLAKE3, nil
	default:
		return "", fmt.Errorf("unknown fingerprint algorithm %q (want %q or %q)", name, SHA256, BLAKE3)
	}
}

func (a Algorithm) newHash() hash.Hash {
	if a == BLAKE3 {
		return blake3.New()
	}
	return sha256.New()
}

// Hasher computes fingerprints with one algorithm. The zero value uses
// SHA-256. A Hasher holds a reusable chunk buffer and is not safe for
// concurrent use.
type Hasher struct {
	algorithm Algorithm
	buffer    []byte
}

// NewHasher returns a Hasher for algorithm.
func NewHasher(algorithm Algorithm) *Hasher {
	return &Hasher{algorithm: algorithm}
}

// Algorithm returns the algorithm this Hasher uses.
func (h *Hasher) Algorithm() Algorithm {
	if h.algorithm == "" {
		return SHA256
	}
	return h.algorithm
}

// Sum streams reader to EOF in [ChunkSize] chunks and returns its
// fingerprint. A read error is returned as is; the caller adds the
// identity of the content being read.
func (h *Hasher) Sum(reader io.Reader) (Fingerprint, error) {
	if h.buffer == nil {
		h.buffer = make([]byte, ChunkSize)
	}
	digest := h.Algorithm().newHash()
	if _, err := io.CopyBuffer(onlyWriter{digest}, onlyReader{reader}, h.buffer); err != nil {
		return 0, err
	}
	return truncate(digest.Sum(nil)), nil
}

// Bytes returns the fingerprint of data.
func (h *Hasher) Bytes(data []byte) Fingerprint {
	digest := h.Algorithm().newHash()
	digest.Write(data)
	return truncate(digest.Sum(nil))
}

// Sum returns the SHA-256 fingerprint of reader's content.
func Sum(reader io.Reader) (Fingerprint, error) {
	return NewHasher(SHA256).Sum(reader)
}

// Bytes returns the SHA-256 fingerprint of data.
func Bytes(data []byte) Fingerprint {
	return NewHasher(SHA256).Bytes(data)
}

// File returns the fingerprint of the file at path.
func (h *Hasher) File(path string) (Fingerprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	result, err := h.Sum(file)
	if err != nil {
		return 0, fmt.Errorf("hashing %s: %w", path, err)
	}
	return result, nil
}

func truncate(digest []byte) Fingerprint {
	return Fingerprint(binary.BigEndian.Uint64(digest[:8]))
}

// onlyReader and onlyWriter hide ReaderFrom/WriterTo so io.CopyBuffer
// really reads through the bounded buffer.
type onlyReader struct{ io.Reader }

type onlyWriter struct{ io.Writer }
