// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

// Package assemble performs one merge run end to end: it turns a
// [config.Config] into transformers, reads every source, drives the
// merge coordinator into the output archive, and records what happened
// in a report and in metrics.
//
// The output archive appears only when the run succeeds. On conflicts,
// I/O errors or cancellation the partial archive is removed, while the
// report (if configured) is still written so the failure can be
// inspected.
//
// [Scan] is the read-only counterpart: it lists where a set of paths
// occurs across the sources without writing anything.
package assemble
