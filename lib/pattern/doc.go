// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

// Package pattern decides which archive paths a merge transformer is
// responsible for.
//
// A [Filter] is the declarative form: ordered include and exclude glob
// patterns, a set of default includes used only when the caller
// configured none, and an AllowEmpty switch. [Filter.Compile] resolves
// the defaults, validates every pattern, and returns an immutable
// [Matcher]. Compilation fails with a [*ConfigError] wrapping
// [ErrNoPatterns] when no include pattern is left and empty filters are
// not allowed, so misconfiguration surfaces before any archive entry is
// read.
//
// Patterns use doublestar syntax on slash-separated paths: "*" matches
// within one path segment, "**" matches across segments. As in Ant and
// Gradle pattern sets, a pattern ending in "/" matches everything below
// that directory. Exclude patterns always win over include patterns.
//
// Each transformer compiles its own Matcher; matchers share no state.
package pattern
