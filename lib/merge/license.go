// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shade-build/shade/lib/pattern"
)

// DefaultLicenseIncludes are the paths a [License] transformer claims
// when no include pattern is configured.
var DefaultLicenseIncludes = []string{
	"META-INF/LICENSE",
	"META-INF/LICENSE.txt",
	"META-INF/LICENSE.md",
	"LICENSE",
	"LICENSE.txt",
	"LICENSE.md",
}

const (
	// DefaultLicenseOutputPath is where the aggregated license is
	// written unless configured otherwise.
	DefaultLicenseOutputPath = "META-INF/LICENSE"

	// DefaultSPDXID is the license identifier written in the header
	// unless configured otherwise.
	DefaultSPDXID = "Apache-2.0"
)

var (
	// DefaultLicenseFirstSeparator separates the project license from
	// the first dependency license.
	DefaultLicenseFirstSeparator = "\n" + strings.Repeat("-", 120) + "\n\n" +
		"This archive includes dependencies with the following licenses:\n" +
		strings.Repeat("-", 64) + "\n"

	// DefaultLicenseSeparator separates dependency licenses.
	DefaultLicenseSeparator = "\n\n" + strings.Repeat("-", 120) + "\n\n"
)

// ErrNoProjectLicense is returned when a License transformer is built
// without the project's own license text.
var ErrNoProjectLicense = errors.New("project license text is not configured")

// LicenseOptions configures a [License] transformer.
type LicenseOptions struct {
	Options

	// LicenseText is the project's own license. Takes precedence over
	// LicenseFile. One of the two is mandatory.
	LicenseText []byte

	// LicenseFile is read when LicenseText is empty.
	LicenseFile string

	// OutputPath defaults to DefaultLicenseOutputPath.
	OutputPath string

	// SPDXID is written as "SPDX-License-Identifier: <id>" at the top of
	// the document. Nil selects DefaultSPDXID; a pointer to "" omits the
	// header.
	SPDXID *string

	// FirstSeparator and Separator default to
	// DefaultLicenseFirstSeparator and DefaultLicenseSeparator.
	FirstSeparator string
	Separator      string
}

// License aggregates the project license and every distinct dependency
// license text into one document. It never reports conflicts.
type License struct {
	name           string
	matcher        *pattern.Matcher
	logger         *slog.Logger
	outputPath     string
	spdxID         string
	projectLicense []byte
	firstSeparator string
	separator      string

	texts      orderedSet
	paths      orderedSet
	candidates int
	duplicates int
}

// NewLicense returns a License transformer. It fails when no project
// license is configured or the license file cannot be read.
func NewLicense(options LicenseOptions) (*License, error) {
	name, matcher, logger, err := options.resolve("license", DefaultLicenseIncludes, false)
	if err != nil {
		return nil, err
	}

	projectLicense := options.LicenseText
	if len(projectLicense) == 0 {
		if options.LicenseFile == "" {
			return nil, fmt.Errorf("%s: %w", name, ErrNoProjectLicense)
		}
		projectLicense, err = os.ReadFile(options.LicenseFile)
		if err != nil {
			return nil, fmt.Errorf("%s: reading project license: %w", name, err)
		}
	}

	license := &License{
		name:           name,
		matcher:        matcher,
		logger:         logger,
		outputPath:     options.OutputPath,
		spdxID:         DefaultSPDXID,
		projectLicense: projectLicense,
		firstSeparator: options.FirstSeparator,
		separator:      options.Separator,
	}
	if options.SPDXID != nil {
		license.spdxID = strings.TrimSpace(*options.SPDXID)
	}
	if license.outputPath == "" {
		license.outputPath = DefaultLicenseOutputPath
	}
	if license.firstSeparator == "" {
		license.firstSeparator = DefaultLicenseFirstSeparator
	}
	if license.separator == "" {
		license.separator = DefaultLicenseSeparator
	}
	return license, nil
}

// Name implements Transformer.
func (l *License) Name() string { return l.name }

// Claims implements Transformer. The output path is always claimed,
// so a source entry there joins the aggregate instead of colliding
// with it.
func (l *License) Claims(path string) bool {
	return path == l.outputPath || l.matcher.Match(path)
}

// OutputPath returns the path the license document is written to.
func (l *License) OutputPath() string { return l.outputPath }

// Observe adds the candidate's trimmed text unless it is empty or
// already known.
func (l *License) Observe(candidate Candidate) error {
	data, err := candidate.ReadAll()
	if err != nil {
		return err
	}
	l.candidates++
	l.paths.add(candidate.Path)

	text := trimBlankLines(string(data))
	if text == "" {
		return nil
	}
	if !l.texts.add(text) {
		l.duplicates++
	}
	return nil
}

// Emit writes the license document. It is written even when no
// dependency license was found, since the project license alone is
// still required in the archive.
func (l *License) Emit(sink Sink) (*Report, error) {
	var document bytes.Buffer
	if l.spdxID != "" {
		fmt.Fprintf(&document, "SPDX-License-Identifier: %s\n", l.spdxID)
	}
	document.Write(l.projectLicense)

	if l.texts.len() > 0 {
		document.WriteString(l.firstSeparator)
		document.WriteString("\n")
		for i, text := range l.texts.items {
			if i > 0 {
				document.WriteString(l.separator)
				document.WriteString("\n")
			}
			document.WriteString(text)
		}
	}

	l.logger.Info("writing aggregated license",
		"path", l.outputPath,
		"dependency_licenses", l.texts.len(),
	)
	if err := sink.WriteEntry(l.outputPath, &document); err != nil {
		return nil, fmt.Errorf("writing %s: %w", l.outputPath, err)
	}

	return &Report{
		Transformer:          l.name,
		Paths:                l.paths.len(),
		Candidates:           l.candidates,
		Entries:              1,
		DuplicatesSuppressed: l.duplicates,
	}, nil
}
