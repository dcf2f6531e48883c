// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package pattern

import (
	"errors"
	"testing"
)

func TestMatcherIncludesAndExcludes(t *testing.T) {
	matcher, err := Filter{
		Includes: []string{"META-INF/*.properties", "config/**"},
		Excludes: []string{"config/private/**"},
	}.Compile("test")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"META-INF/build.properties", true},
		{"META-INF/nested/build.properties", false},
		{"config/app.yaml", true},
		{"config/a/b/c.yaml", true},
		{"config/private/key.pem", false},
		{"other/file.txt", false},
		{"/META-INF/build.properties", true},
	}
	for _, test := range tests {
		if got := matcher.Match(test.path); got != test.want {
			t.Errorf("Match(%q) = %v, want %v", test.path, got, test.want)
		}
	}
}

func TestExcludeOverridesIncludeForSamePath(t *testing.T) {
	matcher, err := Filter{
		Includes: []string{"LICENSE"},
		Excludes: []string{"LICENSE"},
	}.Compile("test")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if matcher.Match("LICENSE") {
		t.Error("excluded path matched")
	}
}

func TestDefaultIncludesUsedOnlyWhenNoneConfigured(t *testing.T) {
	defaults := []string{"LICENSE", "META-INF/LICENSE"}

	matcher, err := Filter{DefaultIncludes: defaults}.Compile("license")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !matcher.Match("META-INF/LICENSE") {
		t.Error("default include META-INF/LICENSE not matched")
	}

	matcher, err = Filter{Includes: []string{"COPYING"}, DefaultIncludes: defaults}.Compile("license")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if matcher.Match("META-INF/LICENSE") {
		t.Error("default include applied although includes were configured")
	}
	if !matcher.Match("COPYING") {
		t.Error("configured include COPYING not matched")
	}
}

func TestEmptyFilter(t *testing.T) {
	_, err := Filter{}.Compile("properties")
	if !errors.Is(err, ErrNoPatterns) {
		t.Fatalf("Compile(empty) error = %v, want ErrNoPatterns", err)
	}
	var configError *ConfigError
	if !errors.As(err, &configError) || configError.Owner != "properties" {
		t.Fatalf("error %v is not a ConfigError owned by properties", err)
	}

	matcher, err := Filter{AllowEmpty: true}.Compile("dedup")
	if err != nil {
		t.Fatalf("Compile(allow empty): %v", err)
	}
	if !matcher.Empty() {
		t.Error("Empty() = false for a matcher without patterns")
	}
	if !matcher.Match("any/path/at/all.class") {
		t.Error("empty allowed matcher should match every path")
	}
}

func TestTrailingSlashMatchesSubtree(t *testing.T) {
	matcher, err := Filter{Includes: []string{"META-INF/services/"}}.Compile("services")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !matcher.Match("META-INF/services/java.sql.Driver") {
		t.Error("trailing slash pattern did not match file below directory")
	}
}

func TestIgnoreCase(t *testing.T) {
	matcher, err := Filter{Includes: []string{"META-INF/NOTICE*"}, IgnoreCase: true}.Compile("notice")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, path := range []string{"META-INF/NOTICE", "meta-inf/notice.txt", "META-INF/Notice.md"} {
		if !matcher.Match(path) {
			t.Errorf("Match(%q) = false, want true", path)
		}
	}
}

func TestInvalidPattern(t *testing.T) {
	_, err := Filter{Includes: []string{"[unterminated"}}.Compile("test")
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
	var configError *ConfigError
	if !errors.As(err, &configError) {
		t.Fatalf("error %v is not a ConfigError", err)
	}
}

func TestNilMatcherMatchesNothing(t *testing.T) {
	var matcher *Matcher
	if matcher.Match("anything") {
		t.Error("nil matcher matched")
	}
	if !matcher.Empty() {
		t.Error("nil matcher not empty")
	}
}
