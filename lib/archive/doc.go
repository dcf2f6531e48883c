// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive reads merge candidates out of source archives and
// directories and writes the merged output archive.
//
// [Open] walks a list of sources in declared order and yields every
// regular file as a [merge.Candidate]. Supported sources:
//
//   - directories, walked in lexical order
//   - zip archives (.zip, .jar, .war, .ear), in central-directory
//     order, including entries compressed with zstd (method 93)
//   - tar archives (.tar, .tar.gz, .tgz, .tar.zst, .tzst, .tar.lz4), in
//     stream order
//
// [Create] opens the output archive. Entries go to a temporary file
// next to the destination; [Writer.Commit] renames it into place and
// [Writer.Abort] removes it, so a failed merge never leaves a partial
// archive behind. Every entry carries the same modification time
// ([DefaultModified] unless configured), which keeps output archives
// byte-for-byte reproducible.
package archive
