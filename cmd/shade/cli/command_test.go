// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "shade",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "merge",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "merge"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"merge"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "merge" {
		t.Errorf("dispatched to %q, want %q", called, "merge")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "shade",
		Subcommands: []*Command{
			{
				Name: "report",
				Subcommands: []*Command{
					{
						Name: "show",
						Run: func(_ context.Context, args []string, _ *slog.Logger) error {
							called = "report show"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"report", "show", "run.cbor"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "report show" {
		t.Errorf("dispatched to %q, want %q", called, "report show")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "run.cbor" {
		t.Errorf("args = %v, want [run.cbor]", receivedArgs)
	}
}

func TestCommand_Execute_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "value")

	var got any
	command := &Command{
		Name: "merge",
		Run: func(ctx context.Context, _ []string, _ *slog.Logger) error {
			got = ctx.Value(key{})
			return nil
		},
	}
	if err := command.Execute(ctx, nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got != "value" {
		t.Errorf("context value = %v, want %q", got, "value")
	}
}

func TestCommand_Execute_ReturnsRunError(t *testing.T) {
	want := errors.New("boom")
	command := &Command{
		Name: "merge",
		Run:  func(context.Context, []string, *slog.Logger) error { return want },
	}
	if err := command.Execute(context.Background(), nil); !errors.Is(err, want) {
		t.Fatalf("Execute() error = %v, want %v", err, want)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var output string
	var target string

	command := &Command{
		Name: "merge",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("merge", pflag.ContinueOnError)
			flagSet.StringVar(&output, "output", "app.jar", "output path")
			return flagSet
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"--output", "/out/all.jar", "extra"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if output != "/out/all.jar" {
		t.Errorf("output = %q, want %q", output, "/out/all.jar")
	}
	if target != "extra" {
		t.Errorf("target = %q, want %q", target, "extra")
	}
}

func TestCommand_Execute_VerboseLowersLogLevel(t *testing.T) {
	for _, test := range []struct {
		args  []string
		debug bool
	}{
		{nil, false},
		{[]string{"--verbose"}, true},
		{[]string{"-v"}, true},
	} {
		var params struct {
			Verbosity
		}
		var debug bool
		command := &Command{
			Name:  "scan",
			Flags: func() *pflag.FlagSet { return FlagsFromParams("scan", &params) },
			Run: func(ctx context.Context, _ []string, logger *slog.Logger) error {
				debug = logger.Enabled(ctx, slog.LevelDebug)
				return nil
			},
		}
		if err := command.Execute(context.Background(), test.args); err != nil {
			t.Fatalf("Execute(%v) error: %v", test.args, err)
		}
		if debug != test.debug {
			t.Errorf("Execute(%v): debug enabled = %v, want %v", test.args, debug, test.debug)
		}
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "merge",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("merge", pflag.ContinueOnError)
			flagSet.Bool("dont-fail", false, "log conflicts instead of failing")
			flagSet.String("output", "", "output path")
			return flagSet
		},
		Run: func(context.Context, []string, *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--dont-fial"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --dont-fail") {
		t.Errorf("error = %q, want suggestion for '--dont-fail'", errStr)
	}
	if !strings.Contains(errStr, "dont-fial") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "merge",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("merge", pflag.ContinueOnError)
			flagSet.Bool("dont-fail", false, "log conflicts instead of failing")
			return flagSet
		},
		Run: func(context.Context, []string, *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "shade",
		Subcommands: []*Command{
			{Name: "merge"},
			{Name: "scan"},
			{Name: "version"},
		},
	}

	err := root.Execute(context.Background(), []string{"mrege"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"merge\"") {
		t.Errorf("error = %q, want suggestion for 'merge'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "shade",
		Subcommands: []*Command{
			{Name: "merge"},
			{Name: "scan"},
		},
	}

	err := root.Execute(context.Background(), []string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "shade",
				Summary: "Merge archives into one",
				Subcommands: []*Command{
					{Name: "merge", Summary: "Merge sources into an archive"},
				},
			}

			if err := root.Execute(context.Background(), []string{helpArg}); err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "shade",
		Subcommands: []*Command{
			{Name: "merge", Summary: "Merge sources into an archive"},
		},
	}

	err := root.Execute(context.Background(), []string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "shade",
		Description: "Merge directories and archives into one archive.",
		Subcommands: []*Command{
			{Name: "merge", Summary: "Merge sources into an archive"},
			{Name: "scan", Summary: "Find where paths occur across sources"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Merge with a config file",
				Command:     "shade merge --config shade.yaml",
			},
			{
				Description: "Find every copy of a license",
				Command:     "shade scan --source libs/a.jar --include 'META-INF/LICENSE*'",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Merge directories and archives into one archive.",
		"Usage:",
		"shade <command> [flags]",
		"Commands:",
		"merge",
		"Merge sources into an archive",
		"scan",
		"Find where paths occur across sources",
		"Examples:",
		"shade merge --config shade.yaml",
		"shade scan --source",
		"Run 'shade <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithFlags(t *testing.T) {
	command := &Command{
		Name:    "fingerprint",
		Summary: "Print content fingerprints",
		Usage:   "shade fingerprint [flags] FILE...",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("fingerprint", pflag.ContinueOnError)
			flagSet.String("algorithm", "sha256", "digest to truncate")
			flagSet.Bool("json", false, "output as JSON")
			return flagSet
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"shade fingerprint [flags] FILE...",
		"Flags:",
		"algorithm",
		"json",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "shade"}
	report := &Command{Name: "report", parent: root}
	show := &Command{Name: "show", parent: report}

	if got := root.fullName(); got != "shade" {
		t.Errorf("root.fullName() = %q, want %q", got, "shade")
	}
	if got := report.fullName(); got != "shade report" {
		t.Errorf("report.fullName() = %q, want %q", got, "shade report")
	}
	if got := show.fullName(); got != "shade report show" {
		t.Errorf("show.fullName() = %q, want %q", got, "shade report show")
	}
	if got := show.commandPath(); got != "report/show" {
		t.Errorf("show.commandPath() = %q, want %q", got, "report/show")
	}
}
