// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package assemble

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/shade-build/shade/lib/config"
	"github.com/shade-build/shade/lib/testutil"
)

func TestBuildTransformersOutputPaths(t *testing.T) {
	license := config.TransformerConfig{Type: config.TypeLicense, Name: "license"}
	tests := []struct {
		name         string
		transformers []config.TransformerConfig
		wantErr      string
	}{
		{"defaults", config.Default().Transformers, ""},
		{"license first", []config.TransformerConfig{license, {Type: config.TypeDedup}}, ""},
		{"dedup excludes the output", []config.TransformerConfig{
			{Type: config.TypeDedup, Exclude: []string{"META-INF/LICENSE"}}, license,
		}, ""},
		{"dedup before license", []config.TransformerConfig{
			{Type: config.TypeDedup}, license,
		}, "transformers[0] (dedup) claims META-INF/LICENSE, the output path of transformers[1] (license)"},
		{"dedup before notice", []config.TransformerConfig{
			{Type: config.TypeDedup}, {Type: config.TypeNotice},
		}, "claims META-INF/NOTICE"},
		{"two licenses on one path", []config.TransformerConfig{
			license, {Type: config.TypeLicense, Name: "more-licenses", Include: []string{"licenses/**"}},
		}, "transformers[0] (license) claims META-INF/LICENSE"},
	}

	licenseFile := filepath.Join(testutil.WriteTree(t, t.TempDir(), testutil.File{Path: "LICENSE", Content: "P"}), "LICENSE")
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Transformers = test.transformers
			for i := range cfg.Transformers {
				if cfg.Transformers[i].Type == config.TypeLicense {
					cfg.Transformers[i].LicenseFile = licenseFile
				}
			}

			transformers, err := BuildTransformers(cfg, nil)
			if test.wantErr == "" {
				if err != nil {
					t.Fatalf("BuildTransformers: %v", err)
				}
				if len(transformers) != len(test.transformers) {
					t.Errorf("built %d transformers, want %d", len(transformers), len(test.transformers))
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Fatalf("BuildTransformers error = %v, want one containing %q", err, test.wantErr)
			}
		})
	}
}
