// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Shade packages.
//
// [MemorySink] records the entries a merge run writes, in order, so
// tests can assert on output paths and bytes without creating an
// archive. It satisfies the merge package's Sink interface
// structurally and therefore does not import it.
//
// [WriteZip], [WriteTar] and [WriteTree] build source fixtures on disk
// from [File] lists, keeping entry order exactly as given so ordering
// rules can be tested.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
