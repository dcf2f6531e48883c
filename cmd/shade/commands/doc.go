// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the shade CLI command tree: merge, scan,
// fingerprint, report and version. Each command is a thin layer over
// lib/assemble and lib/fingerprint; the text renderers live here and
// write to an io.Writer so they can be tested without a terminal.
package commands
