// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the shade CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in cmd/shade/commands
// and dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// Parameter structs declare their flags with struct tags and are bound
// by [FlagsFromParams]. Embedding [JSONOutput] adds --json, and
// embedding [Verbosity] adds --verbose, which [Command.Execute] reads
// when it builds the logger handed to Run.
//
// Human-readable output goes through [Styles], which degrades to plain
// text when stdout is not a terminal.
package cli
