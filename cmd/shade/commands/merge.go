// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/shade-build/shade/cmd/shade/cli"
	"github.com/shade-build/shade/lib/assemble"
	"github.com/shade-build/shade/lib/config"
)

type mergeParams struct {
	cli.JSONOutput
	cli.Verbosity
	Config      string   `json:"config" flag:"config,c" desc:"merge configuration file (default: $SHADE_CONFIG if set)"`
	Output      string   `json:"output" flag:"output,o" desc:"archive to write (overrides output.path)"`
	Sources     []string `json:"sources" flag:"source,s" desc:"directory or archive to merge, in order (repeatable; overrides sources)"`
	LicenseFile string   `json:"license_file" flag:"license-file" desc:"project license; enables license aggregation"`
	DontFail    bool     `json:"dont_fail" flag:"dont-fail" desc:"log conflicts instead of failing the merge"`
	Report      string   `json:"report" flag:"report" desc:"write the run report (.json or .cbor)"`
	MetricsFile string   `json:"metrics_file" flag:"metrics-file" desc:"write run metrics as a Prometheus textfile"`
}

func mergeCommand() *cli.Command {
	var params mergeParams
	return &cli.Command{
		Name:    "merge",
		Summary: "Merge sources into one archive",
		Description: `Merge directories and archives into one archive.

Configuration comes from --config, else from $SHADE_CONFIG, else from
the built-in defaults (service files and NOTICE files merged, all
other duplicates collapsed when identical). Flags override the loaded
configuration.

The archive is written to a temporary file and moved into place only
when no transformer reports a conflict.`,
		Usage: "shade merge [flags]",
		Examples: []cli.Example{
			{
				Description: "Merge with a config file and keep a CBOR report",
				Command:     "shade merge --config shade.yaml --report build/merge.cbor",
			},
			{
				Description: "Merge a class directory with two jars, aggregating licenses",
				Command:     "shade merge -o build/app.jar -s build/classes -s libs/a.jar -s libs/b.jar --license-file LICENSE",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("merge", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q (sources are given with --source)", args[0])
			}
			cfg, err := loadMergeConfig(&params)
			if err != nil {
				return err
			}

			result, err := assemble.Run(ctx, cfg, assemble.Options{Logger: logger})
			if result == nil {
				return err
			}
			if done, emitErr := params.EmitJSON(result.Report); done {
				if emitErr != nil {
					return emitErr
				}
				return err
			}
			writeReport(os.Stdout, cli.NewStyles(os.Stdout), result.Report)
			return err
		},
	}
}

// loadMergeConfig loads the configuration named by params and applies
// the flag overrides. Relative flag paths resolve against the working
// directory.
func loadMergeConfig(params *mergeParams) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case params.Config != "":
		cfg, err = config.LoadFile(params.Config)
	case os.Getenv("SHADE_CONFIG") != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}

	absolute := func(path string) (string, error) {
		resolved, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", path, err)
		}
		return resolved, nil
	}

	if params.Output != "" {
		if cfg.Output.Path, err = absolute(params.Output); err != nil {
			return nil, err
		}
	}
	if len(params.Sources) > 0 {
		cfg.Sources = make([]string, len(params.Sources))
		for i, source := range params.Sources {
			if cfg.Sources[i], err = absolute(source); err != nil {
				return nil, err
			}
		}
	}
	if params.Report != "" {
		if cfg.Report, err = absolute(params.Report); err != nil {
			return nil, err
		}
	}
	if params.MetricsFile != "" {
		if cfg.MetricsFile, err = absolute(params.MetricsFile); err != nil {
			return nil, err
		}
	}
	if params.LicenseFile != "" {
		licenseFile, err := absolute(params.LicenseFile)
		if err != nil {
			return nil, err
		}
		setLicenseFile(cfg, licenseFile)
	}
	if params.DontFail {
		for i := range cfg.Transformers {
			switch cfg.Transformers[i].Type {
			case config.TypeDedup, config.TypeProperties:
				cfg.Transformers[i].DontFail = true
			}
		}
	}
	return cfg, nil
}

// setLicenseFile points every license transformer at path, adding one
// in front when the configuration has none.
func setLicenseFile(cfg *config.Config, path string) {
	found := false
	for i := range cfg.Transformers {
		if cfg.Transformers[i].Type == config.TypeLicense {
			cfg.Transformers[i].LicenseFile = path
			found = true
		}
	}
	if !found {
		license := config.TransformerConfig{Type: config.TypeLicense, LicenseFile: path}
		cfg.Transformers = append([]config.TransformerConfig{license}, cfg.Transformers...)
	}
}
