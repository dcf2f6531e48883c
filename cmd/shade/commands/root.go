// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/shade-build/shade/cmd/shade/cli"
	"github.com/shade-build/shade/lib/version"
)

// Root builds and returns the complete shade CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "shade",
		Description: `shade: merge directories and archives into one archive.

Resources that would collide in the output (licenses, NOTICE files,
service registrations, properties files) are merged by configurable
transformers; everything else is copied through with duplicates
collapsed.`,
		Subcommands: []*cli.Command{
			mergeCommand(),
			scanCommand(),
			fingerprintCommand(),
			reportCommand(),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Merge with a config file",
				Command:     "shade merge --config shade.yaml",
			},
			{
				Description: "Merge without a config file",
				Command:     "shade merge -o build/app.jar -s build/classes -s libs/a.jar -s libs/b.jar --license-file LICENSE",
			},
			{
				Description: "Find every copy of a resource and whether they differ",
				Command:     "shade scan -s libs/a.jar -s libs/b.jar --include 'META-INF/LICENSE*' --algorithm sha256",
			},
			{
				Description: "Show a stored run report",
				Command:     "shade report build/merge-report.cbor",
			},
		},
	}
}

type versionParams struct {
	cli.JSONOutput
}

func versionCommand() *cli.Command {
	var params versionParams
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("version", &params)
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			if done, err := params.EmitJSON(version.Current()); done {
				return err
			}
			fmt.Fprintf(os.Stdout, "shade %s\n", version.Full())
			return nil
		},
	}
}
