// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

// Package merge decides what ends up at each path of an archive built
// from many source archives.
//
// The caller feeds [Candidate] entries (one per source archive member)
// into a [Coordinator] in a fixed, deterministic order. For every
// candidate the coordinator asks its transformers, in configuration
// order, whether they claim the candidate's path; the first claimer
// owns that path for the rest of the run and records the candidate in
// its own state. Unclaimed candidates pass through to the [Sink]
// unchanged.
//
// Once all candidates are observed, [Coordinator.Finish] lets every
// transformer write its resolved entries to the sink and collects the
// transformers' [Report]s. Conflicts reported by a transformer
// configured with DontFail are logged at error level; all others are
// composed into a single [*MergeError] enumerating every offending path
// grouped by transformer, so one run surfaces every problem.
//
// Transformers:
//
//   - [Dedup] collapses identical-content entries sharing a path and
//     reports different-content entries as conflicts.
//   - [Properties] merges key=value files, keeping the raw concatenated
//     text and reporting keys whose values disagree.
//   - [License] writes one license document: the project's license
//     followed by every distinct dependency license text.
//   - [Notice] does the same for NOTICE files, without a header.
//   - [ServiceFiles] unions provider lines of service registration
//     files.
//   - [Append] concatenates every entry sharing a path.
//
// All state belongs to the transformer instances of one run. Build new
// transformers and a new Coordinator for every run; none of the types
// in this package are safe for concurrent use.
package merge
