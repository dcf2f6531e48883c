// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the description of a merge run.
//
// Configuration is loaded from a single file specified by:
//   - SHADE_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. YAML files (.yaml,
// .yml) are parsed directly; JSON files (.json, .jsonc) may carry
// comments and trailing commas.
//
// Path fields support ${VAR} and ${VAR:-default} expansion. Relative
// paths are resolved against the directory holding the config file, so
// a config checked into a repository works from any working directory.
package config
