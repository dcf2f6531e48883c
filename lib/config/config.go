// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Transformer types.
const (
	TypeDedup      = "dedup"
	TypeProperties = "properties"
	TypeLicense    = "license"
	TypeNotice     = "notice"
	TypeServices   = "services"
	TypeAppend     = "append"
)

// Entry timestamp policies.
const (
	// TimestampConstant stamps every entry with the fixed archive
	// epoch.
	TimestampConstant = "constant"

	// TimestampBuild stamps every entry with the run's start time.
	TimestampBuild = "build"
)

// Config describes one merge run.
type Config struct {
	// Output configures the merged archive.
	Output OutputConfig `yaml:"output"`

	// Sources are directories and archives, read in order. Order
	// decides which content is "first seen".
	Sources []string `yaml:"sources"`

	// Exclude drops matching paths before any transformer sees them.
	// Default: META-INF/jandex.idx
	Exclude []string `yaml:"exclude"`

	// Fingerprint selects the content digest: sha256 or blake3.
	// Default: sha256
	Fingerprint string `yaml:"fingerprint"`

	// Report is an optional path for the run report. The extension
	// picks the format: .json or .cbor.
	Report string `yaml:"report"`

	// MetricsFile is an optional path for a Prometheus textfile with
	// the run's metrics.
	MetricsFile string `yaml:"metrics_file"`

	// Transformers are consulted in order; the first one whose
	// patterns select a path owns it.
	// Default: services, notice, dedup
	Transformers []TransformerConfig `yaml:"transformers"`
}

// OutputConfig configures the merged archive.
type OutputConfig struct {
	// Path is where the archive is written. Required.
	Path string `yaml:"path"`

	// Compression is store, deflate or zstd.
	// Default: deflate
	Compression string `yaml:"compression"`

	// Timestamp is constant or build.
	// Default: constant
	Timestamp string `yaml:"timestamp"`

	// Duplicates decides what happens when two entries share a path
	// after merging: exclude, include or fail.
	// Default: exclude
	Duplicates string `yaml:"duplicates"`
}

// PatternConfig is an include/exclude glob pair.
type PatternConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// TransformerConfig configures one transformer. Fields beyond the
// common ones apply to specific types only.
type TransformerConfig struct {
	// Type is dedup, properties, license, notice, services or append.
	Type string `yaml:"type"`

	// Name overrides the type as the transformer's name in logs and
	// reports.
	Name string `yaml:"name"`

	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	// IgnoreCase matches paths case-insensitively.
	IgnoreCase bool `yaml:"ignore_case"`

	// DontFail logs conflicts instead of failing the run.
	DontFail bool `yaml:"dont_fail"`

	// IgnoreConflicts selects properties files whose conflicts are not
	// reported (properties).
	IgnoreConflicts *PatternConfig `yaml:"ignore_conflicts"`

	// LicenseFile is the project's own license (license, required).
	LicenseFile string `yaml:"license_file"`

	// SPDXID is written at the top of the license. Unset selects
	// Apache-2.0; an empty string omits the header (license).
	SPDXID *string `yaml:"spdx_id"`

	// FirstSeparator and Separator override the license separators
	// (license).
	FirstSeparator string `yaml:"first_separator"`
	Separator      string `yaml:"separator"`

	// NoticeFile is the project's own NOTICE (notice).
	NoticeFile string `yaml:"notice_file"`

	// OutputPath is where the aggregated document is written (license,
	// notice).
	OutputPath string `yaml:"output_path"`
}

// Label names the transformer in validation errors.
func (t TransformerConfig) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Type
}

// Default returns the configuration every file is loaded over.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Compression: "deflate",
			Timestamp:   TimestampConstant,
			Duplicates:  "exclude",
		},
		Exclude:     []string{"META-INF/jandex.idx"},
		Fingerprint: "sha256",
		Transformers: []TransformerConfig{
			{Type: TypeServices},
			{Type: TypeNotice},
			{Type: TypeDedup},
		},
	}
}

// Load loads configuration from the SHADE_CONFIG environment variable.
// There is no fallback: if SHADE_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("SHADE_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("SHADE_CONFIG environment variable not set; " +
			"set it to the path of your shade.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. The result
// is not validated; call Validate before use.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolving config directory: %w", err)
	}
	cfg.expandVariables(base)
	cfg.ResolvePaths(base)

	return cfg, nil
}

// loadFile decodes one file over the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables(configDir string) {
	vars := map[string]string{
		"CONFIG_DIR": configDir,
		"HOME":       os.Getenv("HOME"),
	}

	c.eachPath(func(path *string) {
		*path = expandVars(*path, vars)
	})
}

// ResolvePaths makes every relative path field absolute against base.
func (c *Config) ResolvePaths(base string) {
	c.eachPath(func(path *string) {
		if *path != "" && !filepath.IsAbs(*path) {
			*path = filepath.Join(base, *path)
		}
	})
}

func (c *Config) eachPath(visit func(*string)) {
	visit(&c.Output.Path)
	for i := range c.Sources {
		visit(&c.Sources[i])
	}
	visit(&c.Report)
	visit(&c.MetricsFile)
	for i := range c.Transformers {
		visit(&c.Transformers[i].LicenseFile)
		visit(&c.Transformers[i].NoticeFile)
	}
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. Every problem found is
// reported, not just the first.
func (c *Config) Validate() error {
	var errs []error

	if c.Output.Path == "" {
		errs = append(errs, fmt.Errorf("output.path is required"))
	}
	if len(c.Sources) == 0 {
		errs = append(errs, fmt.Errorf("at least one source is required"))
	}

	compressions := []string{"store", "deflate", "zstd"}
	if !slices.Contains(compressions, c.Output.Compression) {
		errs = append(errs, fmt.Errorf("output.compression must be one of: %v", compressions))
	}
	timestamps := []string{TimestampConstant, TimestampBuild}
	if !slices.Contains(timestamps, c.Output.Timestamp) {
		errs = append(errs, fmt.Errorf("output.timestamp must be one of: %v", timestamps))
	}
	duplicates := []string{"exclude", "include", "fail"}
	if !slices.Contains(duplicates, c.Output.Duplicates) {
		errs = append(errs, fmt.Errorf("output.duplicates must be one of: %v", duplicates))
	}
	fingerprints := []string{"sha256", "blake3"}
	if !slices.Contains(fingerprints, c.Fingerprint) {
		errs = append(errs, fmt.Errorf("fingerprint must be one of: %v", fingerprints))
	}
	if c.Report != "" {
		switch strings.ToLower(filepath.Ext(c.Report)) {
		case ".json", ".cbor":
		default:
			errs = append(errs, fmt.Errorf("report must end in .json or .cbor: %s", c.Report))
		}
	}

	if len(c.Transformers) == 0 {
		errs = append(errs, fmt.Errorf("at least one transformer is required"))
	}
	names := make(map[string]int)
	for i, transformer := range c.Transformers {
		errs = append(errs, transformer.validate(i)...)
		if previous, ok := names[transformer.Label()]; ok {
			errs = append(errs, fmt.Errorf("transformers[%d] and transformers[%d] are both named %q; set name on one of them",
				previous, i, transformer.Label()))
		}
		names[transformer.Label()] = i
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (t TransformerConfig) validate(index int) []error {
	var errs []error
	fail := func(format string, args ...any) {
		prefix := fmt.Sprintf("transformers[%d] (%s): ", index, t.Label())
		errs = append(errs, fmt.Errorf(prefix+format, args...))
	}

	types := []string{TypeDedup, TypeProperties, TypeLicense, TypeNotice, TypeServices, TypeAppend}
	if !slices.Contains(types, t.Type) {
		fail("type must be one of: %v", types)
		return errs
	}

	switch t.Type {
	case TypeProperties, TypeAppend:
		if len(t.Include) == 0 {
			fail("include is required")
		}
	case TypeLicense:
		if t.LicenseFile == "" {
			fail("license_file is required")
		}
	}

	only := func(field string, set bool, allowed ...string) {
		if set && !slices.Contains(allowed, t.Type) {
			fail("%s applies only to %s", field, strings.Join(allowed, ", "))
		}
	}
	only("ignore_conflicts", t.IgnoreConflicts != nil, TypeProperties)
	only("license_file", t.LicenseFile != "", TypeLicense)
	only("spdx_id", t.SPDXID != nil, TypeLicense)
	only("first_separator", t.FirstSeparator != "", TypeLicense)
	only("separator", t.Separator != "", TypeLicense)
	only("notice_file", t.NoticeFile != "", TypeNotice)
	only("output_path", t.OutputPath != "", TypeLicense, TypeNotice)
	only("dont_fail", t.DontFail, TypeDedup, TypeProperties)

	return errs
}
