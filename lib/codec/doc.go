// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides shade's CBOR encoding configuration.
//
// Merge reports are written as JSON for people and CI logs, or as CBOR
// when a build system wants a compact, byte-stable record to store next
// to the archive. Report types carry `json` struct tags only;
// fxamacker/cbor reads them as a fallback, so one tag set controls
// field names in both formats.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same report always produces the same bytes.
//
//	data, err := codec.Marshal(report)
//	err = codec.Unmarshal(data, &report)
package codec
