// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/shade-build/shade/cmd/shade/cli"
	"github.com/shade-build/shade/lib/assemble"
	"github.com/shade-build/shade/lib/codec"
)

type reportParams struct {
	cli.JSONOutput
	Diagnostic bool `json:"diagnostic" flag:"diagnostic" desc:"print a CBOR report in diagnostic notation"`
}

func reportCommand() *cli.Command {
	var params reportParams
	return &cli.Command{
		Name:    "report",
		Summary: "Show a stored run report",
		Description: `Show a run report written by "shade merge --report". JSON and CBOR
reports are both accepted; --json converts either to JSON.`,
		Usage: "shade report [flags] FILE",
		Examples: []cli.Example{
			{
				Description: "Convert a CBOR report to JSON",
				Command:     "shade report --json build/merge.cbor",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("report", &params)
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one report FILE is required")
			}
			path := args[0]

			if params.Diagnostic {
				if strings.ToLower(filepath.Ext(path)) != ".cbor" {
					return fmt.Errorf("--diagnostic needs a .cbor report, got %s", path)
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				diagnostic, err := codec.Diagnose(data)
				if err != nil {
					return fmt.Errorf("decoding %s: %w", path, err)
				}
				fmt.Fprintln(os.Stdout, diagnostic)
				return nil
			}

			report, err := assemble.ReadReport(path)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(report); done {
				return err
			}
			writeReport(os.Stdout, cli.NewStyles(os.Stdout), report)
			return nil
		},
	}
}
