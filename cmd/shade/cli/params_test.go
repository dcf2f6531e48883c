// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Output   string   `flag:"output" desc:"output path"`
		DontFail bool     `flag:"dont-fail" desc:"log conflicts"`
		Sources  []string `flag:"source" desc:"inputs"`
		Untagged string   // no flag tag, skipped
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	err := flagSet.Parse([]string{
		"--output", "/out/app.jar",
		"--dont-fail",
		"--source", "a.jar,b.jar",
		"--source", "classes",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Output != "/out/app.jar" {
		t.Errorf("Output = %q, want %q", p.Output, "/out/app.jar")
	}
	if !p.DontFail {
		t.Error("DontFail = false, want true")
	}
	if got := strings.Join(p.Sources, " "); got != "a.jar b.jar classes" {
		t.Errorf("Sources = %v, want [a.jar b.jar classes]", p.Sources)
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		Algorithm string   `flag:"algorithm" default:"sha256"`
		Strict    bool     `flag:"strict" default:"true"`
		Include   []string `flag:"include" default:"META-INF/**,*.properties"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Algorithm != "sha256" {
		t.Errorf("Algorithm = %q, want %q", p.Algorithm, "sha256")
	}
	if !p.Strict {
		t.Error("Strict = false, want true")
	}
	if len(p.Include) != 2 || p.Include[1] != "*.properties" {
		t.Errorf("Include = %v", p.Include)
	}
}

// patternBinder binds a pair of flags by hand.
type patternBinder struct {
	Include []string
	Exclude []string
}

func (b *patternBinder) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringSliceVar(&b.Include, "include", nil, "include globs")
	flagSet.StringSliceVar(&b.Exclude, "exclude", nil, "exclude globs")
}

func TestBindFlags_NamedFlagBinder(t *testing.T) {
	type params struct {
		Patterns patternBinder
		Extra    string `flag:"extra" desc:"extra flag"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse([]string{"--include", "META-INF/**", "--exclude", "*.SF", "--extra", "x"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(p.Patterns.Include) != 1 || p.Patterns.Include[0] != "META-INF/**" {
		t.Errorf("Patterns.Include = %v", p.Patterns.Include)
	}
	if len(p.Patterns.Exclude) != 1 || p.Patterns.Exclude[0] != "*.SF" {
		t.Errorf("Patterns.Exclude = %v", p.Patterns.Exclude)
	}
	if p.Extra != "x" {
		t.Errorf("Extra = %q, want %q", p.Extra, "x")
	}
}

func TestBindFlags_EmbeddedStructRecursion(t *testing.T) {
	type params struct {
		JSONOutput
		Verbosity
		Output string `flag:"output,o" desc:"output path"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse([]string{"--json", "-v", "-o", "/tmp/out.jar"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !p.OutputJSON {
		t.Error("OutputJSON = false, want true")
	}
	if !p.Verbose {
		t.Error("Verbose = false, want true")
	}
	if p.Output != "/tmp/out.jar" {
		t.Errorf("Output = %q, want %q", p.Output, "/tmp/out.jar")
	}
}

func TestBindFlags_ErrorNotPointer(t *testing.T) {
	type params struct {
		Name string `flag:"name"`
	}
	var p params
	err := BindFlags(p, pflag.NewFlagSet("test", pflag.ContinueOnError))
	if err == nil {
		t.Fatal("expected error for non-pointer, got nil")
	}
	if want := "params must be a pointer to a struct"; !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want substring %q", err.Error(), want)
	}
}

func TestBindFlags_ErrorNotStruct(t *testing.T) {
	s := "not a struct"
	if err := BindFlags(&s, pflag.NewFlagSet("test", pflag.ContinueOnError)); err == nil {
		t.Fatal("expected error for non-struct, got nil")
	}
}

func TestBindFlags_ErrorBadDefault(t *testing.T) {
	type params struct {
		Strict bool `flag:"strict" default:"sometimes"`
	}
	var p params
	if err := BindFlags(&p, pflag.NewFlagSet("test", pflag.ContinueOnError)); err == nil {
		t.Fatal("expected error for bad default, got nil")
	}
}

func TestBindFlags_ErrorUnsupportedType(t *testing.T) {
	type params struct {
		Count int `flag:"count"`
	}
	var p params
	err := BindFlags(&p, pflag.NewFlagSet("test", pflag.ContinueOnError))
	if err == nil || !strings.Contains(err.Error(), "unsupported type int") {
		t.Fatalf("expected unsupported type error, got %v", err)
	}
}

func TestFlagsFromParams_DefaultUsedWhenNotParsed(t *testing.T) {
	type params struct {
		Algorithm string `flag:"algorithm" default:"sha256"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)

	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Algorithm != "sha256" {
		t.Errorf("Algorithm = %q, want %q", p.Algorithm, "sha256")
	}
}

func TestFlagsFromParams_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil input, got none")
		}
	}()
	FlagsFromParams("test", nil)
}

func TestBindFlags_PositionalArgsRemain(t *testing.T) {
	type params struct {
		Algorithm string `flag:"algorithm" default:"sha256"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse([]string{"--algorithm", "blake3", "a.jar", "b.jar"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	remaining := flagSet.Args()
	if len(remaining) != 2 || remaining[0] != "a.jar" {
		t.Errorf("remaining args = %v, want [a.jar b.jar]", remaining)
	}
	if p.Algorithm != "blake3" {
		t.Errorf("Algorithm = %q, want %q", p.Algorithm, "blake3")
	}
}
