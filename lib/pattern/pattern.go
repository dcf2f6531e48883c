// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package pattern

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoPatterns is returned (wrapped in a [*ConfigError]) when a filter
// that must not be empty ends up without any include pattern.
var ErrNoPatterns = errors.New("no path patterns specified")

// ConfigError reports an invalid filter configuration. Owner names the
// component the filter belongs to so the message points at the right
// configuration block.
type ConfigError struct {
	Owner string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Owner == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Owner, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Filter is the declarative include/exclude configuration of one
// transformer.
type Filter struct {
	// Includes are the patterns a path must match (any of them) to be
	// in scope. When empty, DefaultIncludes are used instead.
	Includes []string

	// Excludes take precedence over Includes for the same path.
	Excludes []string

	// DefaultIncludes apply only when Includes is empty.
	DefaultIncludes []string

	// AllowEmpty permits a filter with no include patterns at all. Such
	// a filter matches every path that is not excluded.
	AllowEmpty bool

	// IgnoreCase compares paths and patterns case-insensitively.
	IgnoreCase bool
}

// Matcher is a compiled [Filter]. It is immutable and safe for
// concurrent use.
type Matcher struct {
	includes   []string
	excludes   []string
	ignoreCase bool
}

// Compile resolves default includes, validates every pattern and
// returns the resulting Matcher. owner is used in error messages only.
func (f Filter) Compile(owner string) (*Matcher, error) {
	includes := f.Includes
	if len(includes) == 0 {
		includes = f.DefaultIncludes
	}
	if len(includes) == 0 && !f.AllowEmpty {
		return nil, &ConfigError{Owner: owner, Err: ErrNoPatterns}
	}

	matcher := &Matcher{ignoreCase: f.IgnoreCase}

	var errs []error
	for _, raw := range includes {
		normalized, err := normalize(raw, f.IgnoreCase)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		matcher.includes = append(matcher.includes, normalized)
	}
	for _, raw := range f.Excludes {
		normalized, err := normalize(raw, f.IgnoreCase)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		matcher.excludes = append(matcher.excludes, normalized)
	}
	if len(errs) > 0 {
		return nil, &ConfigError{Owner: owner, Err: errors.Join(errs...)}
	}

	return matcher, nil
}

// MustCompile is like Compile but panics on error. Intended for
// package-level defaults built from literal patterns.
func (f Filter) MustCompile(owner string) *Matcher {
	matcher, err := f.Compile(owner)
	if err != nil {
		panic(err)
	}
	return matcher
}

// normalize converts an Ant-style pattern into the doublestar form and
// validates it.
func normalize(raw string, ignoreCase bool) (string, error) {
	pattern := strings.TrimPrefix(strings.ReplaceAll(raw, "\\", "/"), "/")
	if pattern == "" {
		return "", fmt.Errorf("empty pattern")
	}
	if strings.HasSuffix(pattern, "/") {
		pattern += "**"
	}
	if ignoreCase {
		pattern = strings.ToLower(pattern)
	}
	if !doublestar.ValidatePattern(pattern) {
		return "", fmt.Errorf("invalid pattern %q", raw)
	}
	return pattern, nil
}

// Match reports whether path is in scope: not excluded, and either
// matched by an include pattern or the matcher has no includes.
func (m *Matcher) Match(path string) bool {
	if m == nil {
		return false
	}
	path = strings.TrimPrefix(path, "/")
	if m.ignoreCase {
		path = strings.ToLower(path)
	}

	for _, exclude := range m.excludes {
		if doublestar.MatchUnvalidated(exclude, path) {
			return false
		}
	}
	if len(m.includes) == 0 {
		return true
	}
	for _, include := range m.includes {
		if doublestar.MatchUnvalidated(include, path) {
			return true
		}
	}
	return false
}

// Empty reports whether the matcher was compiled without any include or
// exclude pattern.
func (m *Matcher) Empty() bool {
	return m == nil || (len(m.includes) == 0 && len(m.excludes) == 0)
}

// Includes returns the effective include patterns (after default
// resolution and normalization).
func (m *Matcher) Includes() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.includes)
}

// Excludes returns the normalized exclude patterns.
func (m *Matcher) Excludes() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.excludes)
}
