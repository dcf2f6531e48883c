// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/shade-build/shade/cmd/shade/cli"
	"github.com/shade-build/shade/lib/fingerprint"
)

type fingerprintParams struct {
	cli.JSONOutput
	Algorithm string `json:"algorithm" flag:"algorithm,a" desc:"digest the fingerprint is truncated from (sha256 or blake3)" default:"sha256"`
}

// fingerprintEntry is one line of fingerprint output.
type fingerprintEntry struct {
	Path        string                  `json:"path"`
	Algorithm   fingerprint.Algorithm   `json:"algorithm"`
	Fingerprint fingerprint.Fingerprint `json:"fingerprint"`
}

func fingerprintCommand() *cli.Command {
	var params fingerprintParams
	return &cli.Command{
		Name:    "fingerprint",
		Summary: "Print content fingerprints of files",
		Description: `Print the content fingerprint merge uses to decide whether two copies
of a path are identical. "-" reads standard input.`,
		Usage: "shade fingerprint [flags] FILE...",
		Examples: []cli.Example{
			{
				Description: "Compare two extracted copies of a resource",
				Command:     "shade fingerprint a/META-INF/LICENSE b/META-INF/LICENSE",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("fingerprint", &params)
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) == 0 {
				return fmt.Errorf("at least one FILE is required")
			}
			algorithm, err := fingerprint.ParseAlgorithm(params.Algorithm)
			if err != nil {
				return err
			}

			entries, err := fingerprintFiles(fingerprint.NewHasher(algorithm), args, os.Stdin)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(entries); done {
				return err
			}
			writeFingerprints(os.Stdout, entries)
			return nil
		},
	}
}

// fingerprintFiles fingerprints every path, reading stdin for "-".
func fingerprintFiles(hasher *fingerprint.Hasher, paths []string, stdin io.Reader) ([]fingerprintEntry, error) {
	entries := make([]fingerprintEntry, 0, len(paths))
	for _, path := range paths {
		var value fingerprint.Fingerprint
		var err error
		if path == "-" {
			value, err = hasher.Sum(stdin)
		} else {
			value, err = hasher.File(path)
		}
		if err != nil {
			return nil, fmt.Errorf("fingerprinting %s: %w", path, err)
		}
		entries = append(entries, fingerprintEntry{
			Path:        path,
			Algorithm:   hasher.Algorithm(),
			Fingerprint: value,
		})
	}
	return entries, nil
}

// writeFingerprints prints entries in the "digest  path" layout of
// sha256sum.
func writeFingerprints(w io.Writer, entries []fingerprintEntry) {
	for _, entry := range entries {
		fmt.Fprintf(w, "%s  %s\n", entry.Fingerprint, entry.Path)
	}
}
