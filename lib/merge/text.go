// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package merge

import "strings"

// trimBlankLines removes whitespace-only lines from both ends of text.
// Inner content, including indentation of the first kept line, is left
// untouched.
func trimBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start == end {
		return ""
	}
	return strings.TrimRight(strings.Join(lines[start:end], "\n"), "\r")
}

// orderedSet is a set of strings that remembers insertion order.
type orderedSet struct {
	items []string
	index map[string]struct{}
}

// add inserts value and reports whether it was new.
func (s *orderedSet) add(value string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[value]; ok {
		return false
	}
	s.index[value] = struct{}{}
	s.items = append(s.items, value)
	return true
}

func (s *orderedSet) len() int { return len(s.items) }

// pathIndex keeps per-path state in first-seen order.
type pathIndex[T any] struct {
	order []string
	items map[string]*T
}

// get returns the state for path, creating it with create on first use.
func (p *pathIndex[T]) get(path string, create func() *T) *T {
	if p.items == nil {
		p.items = make(map[string]*T)
	}
	item, ok := p.items[path]
	if !ok {
		item = create()
		p.items[path] = item
		p.order = append(p.order, path)
	}
	return item
}

func (p *pathIndex[T]) lookup(path string) (*T, bool) {
	item, ok := p.items[path]
	return item, ok
}

// each visits every path in first-seen order.
func (p *pathIndex[T]) each(visit func(path string, item *T) error) error {
	for _, path := range p.order {
		if err := visit(path, p.items[path]); err != nil {
			return err
		}
	}
	return nil
}

func (p *pathIndex[T]) len() int { return len(p.order) }
