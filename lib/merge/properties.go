// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/magiconair/properties"

	"github.com/shade-build/shade/lib/pattern"
)

// PropertiesOptions configures a [Properties] transformer. The include
// filter is mandatory.
type PropertiesOptions struct {
	Options

	// IgnoreConflicts selects properties files whose conflicting values
	// are merged without being reported. An empty filter selects none.
	IgnoreConflicts pattern.Filter
}

// Properties merges key=value files that share an output path. The
// written file is the concatenation of all inputs in observation order;
// the parsed keys are used only to detect conflicting values.
type Properties struct {
	name     string
	matcher  *pattern.Matcher
	ignore   *pattern.Matcher
	dontFail bool
	logger   *slog.Logger

	files      pathIndex[propertiesFile]
	candidates int
}

type propertiesFile struct {
	ignoreConflicts bool
	content         strings.Builder
	sources         []string

	// values is the merged key/value view, last writer wins; keys keeps
	// first-insertion order.
	values map[string]string
	keys   []string

	// conflicts holds every distinct value of a conflicting key.
	conflicts    map[string]*orderedSet
	conflictKeys []string
}

// NewProperties returns a Properties transformer.
func NewProperties(options PropertiesOptions) (*Properties, error) {
	name, matcher, logger, err := options.resolve("properties", nil, false)
	if err != nil {
		return nil, err
	}
	ignoreFilter := options.IgnoreConflicts
	ignoreFilter.AllowEmpty = true
	ignore, err := ignoreFilter.Compile(name + " ignore_conflicts")
	if err != nil {
		return nil, err
	}
	return &Properties{
		name:     name,
		matcher:  matcher,
		ignore:   ignore,
		dontFail: options.DontFail,
		logger:   logger,
	}, nil
}

// Name implements Transformer.
func (p *Properties) Name() string { return p.name }

// Claims implements Transformer.
func (p *Properties) Claims(path string) bool { return p.matcher.Match(path) }

// Observe parses the candidate and folds its keys into the aggregate
// for its path.
func (p *Properties) Observe(candidate Candidate) error {
	p.logger.Info("processing properties", "path", candidate.Path, "source", candidate.Source)

	data, err := candidate.ReadAll()
	if err != nil {
		return err
	}
	text := strings.Trim(string(data), "\n\r")

	loader := properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	parsed, err := loader.LoadBytes([]byte(text))
	if err != nil {
		return fmt.Errorf("failed to load properties for %s from %s: %w", candidate.Path, candidate.Source, err)
	}

	p.candidates++
	file := p.files.get(candidate.Path, func() *propertiesFile {
		return &propertiesFile{
			ignoreConflicts: !p.ignore.Empty() && p.ignore.Match(candidate.Path),
			values:          make(map[string]string),
			conflicts:       make(map[string]*orderedSet),
		}
	})
	file.sources = append(file.sources, candidate.Source)
	file.content.WriteString(text)
	file.content.WriteString("\n")

	for _, key := range parsed.Keys() {
		value, _ := parsed.Get(key)
		file.fold(key, value)
	}
	return nil
}

func (f *propertiesFile) fold(key, value string) {
	existing, known := f.values[key]
	if !known {
		f.keys = append(f.keys, key)
	} else if existing != value {
		set, ok := f.conflicts[key]
		if !ok {
			set = &orderedSet{}
			set.add(existing)
			f.conflicts[key] = set
			f.conflictKeys = append(f.conflictKeys, key)
		}
		set.add(value)
	}
	f.values[key] = value
}

// Merged returns a copy of the merged key/value view for path, or nil
// if the path was not observed.
func (p *Properties) Merged(path string) map[string]string {
	file, ok := p.files.lookup(path)
	if !ok {
		return nil
	}
	return maps.Clone(file.values)
}

// Emit reports conflicting values and writes every merged file.
func (p *Properties) Emit(sink Sink) (*Report, error) {
	report := &Report{
		Transformer: p.name,
		DontFail:    p.dontFail,
		Paths:       p.files.len(),
		Candidates:  p.candidates,
	}

	err := p.files.each(func(path string, file *propertiesFile) error {
		if conflict, ok := file.conflict(path); ok {
			report.Conflicts = append(report.Conflicts, conflict)
		}

		p.logger.Info("adding properties", "path", path, "sources", len(file.sources))
		if err := sink.WriteEntry(path, strings.NewReader(file.content.String())); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		report.Entries++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(report.Conflicts) > 0 {
		report.Message = describeValueConflicts(report.Conflicts)
	}
	return report, nil
}

// conflict returns the keys of path with more than one value, unless
// the file ignores conflicts or has none.
func (f *propertiesFile) conflict(path string) (Conflict, bool) {
	if f.ignoreConflicts || len(f.conflictKeys) == 0 {
		return Conflict{}, false
	}
	conflict := Conflict{Path: path, Sources: append([]string(nil), f.sources...)}
	for _, key := range f.conflictKeys {
		conflict.Keys = append(conflict.Keys, KeyConflict{
			Key:    key,
			Values: append([]string(nil), f.conflicts[key].items...),
		})
	}
	return conflict, true
}

func describeValueConflicts(conflicts []Conflict) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%d properties file(s) to merge have conflicts:", len(conflicts))
	for _, conflict := range conflicts {
		fmt.Fprintf(&builder, "\n* properties file %s merged with conflicting properties. Sources:", conflict.Path)
		for _, source := range conflict.Sources {
			fmt.Fprintf(&builder, "\n  * %s", source)
		}
		builder.WriteString("\n  Conflicting property values:")
		for _, key := range conflict.Keys {
			fmt.Fprintf(&builder, "\n    * %s -> [%s]", key.Key, strings.Join(key.Values, ", "))
		}
	}
	return builder.String()
}
