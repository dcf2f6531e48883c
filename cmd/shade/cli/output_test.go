// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeJSON_Indents(t *testing.T) {
	var buffer bytes.Buffer
	if err := EncodeJSON(&buffer, map[string]int{"entries": 3}); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	if got := buffer.String(); got != "{\n  \"entries\": 3\n}\n" {
		t.Errorf("EncodeJSON = %q", got)
	}
}

func TestEmitJSON_NotRequested(t *testing.T) {
	var output JSONOutput
	done, err := output.EmitJSON([]string{"a"})
	if done || err != nil {
		t.Errorf("EmitJSON without --json = (%v, %v), want (false, nil)", done, err)
	}
}

func TestNormalizeNilSlice(t *testing.T) {
	var nilSlice []string
	var buffer bytes.Buffer
	if err := EncodeJSON(&buffer, normalizeNilSlice(nilSlice)); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	if got := strings.TrimSpace(buffer.String()); got != "[]" {
		t.Errorf("nil slice encoded as %s, want []", got)
	}
	if got := normalizeNilSlice(42); got != 42 {
		t.Errorf("non-slice changed: %v", got)
	}
}

func TestNewStyles_PlainWhenNotTerminal(t *testing.T) {
	var buffer bytes.Buffer
	styles := NewStyles(&buffer)

	for name, rendered := range map[string]string{
		"heading": styles.Heading.Render("merged"),
		"label":   styles.Label.Render("merged"),
		"faint":   styles.Faint.Render("merged"),
		"success": styles.Success.Render("merged"),
		"warning": styles.Warning.Render("merged"),
		"failure": styles.Failure.Render("merged"),
	} {
		if rendered != "merged" {
			t.Errorf("%s style rendered %q, want plain text", name, rendered)
		}
	}
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 3}
	if err.ExitCode() != 3 || err.Error() != "exit code 3" {
		t.Errorf("ExitError = (%d, %q)", err.ExitCode(), err.Error())
	}
}
