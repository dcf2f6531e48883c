// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint computes the content fingerprints used to decide
// whether two archive entries carry the same bytes.
//
// A [Fingerprint] is the first eight bytes (big-endian) of a
// cryptographic digest of the content. The default algorithm is
// SHA-256; BLAKE3 is available for callers that prefer it. Content is
// streamed through the hash in fixed-size chunks ([ChunkSize]), so
// arbitrarily large entries hash in constant memory and the result does
// not depend on how the reader splits its data.
//
// Truncating to 64 bits means two different blobs can, in theory,
// share a fingerprint. Merge runs treat equal fingerprints as equal
// content and accept that birthday-collision risk; callers that need
// byte-exact comparison must compare contents themselves.
//
// This package depends on no other Shade packages.
package fingerprint
