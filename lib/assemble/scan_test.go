// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package assemble

import (
	"path/filepath"
	"testing"

	"github.com/shade-build/shade/lib/fingerprint"
	"github.com/shade-build/shade/lib/pattern"
	"github.com/shade-build/shade/lib/testutil"
)

func TestScan(t *testing.T) {
	directory := t.TempDir()
	first := testutil.WriteZip(t, filepath.Join(directory, "first.jar"),
		testutil.File{Path: "META-INF/LICENSE", Content: "A"},
		testutil.File{Path: "com/A.class", Content: "a"},
	)
	second := testutil.WriteZip(t, filepath.Join(directory, "second.jar"),
		testutil.File{Path: "com/A.class", Content: "a"},
		testutil.File{Path: "META-INF/LICENSE", Content: "B"},
	)

	results, err := Scan(t.Context(), []string{first, second}, ScanOptions{
		Filter:    pattern.Filter{Includes: []string{"META-INF/**", "com/**"}},
		Algorithm: fingerprint.SHA256,
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	license := results[0]
	if license.Path != "META-INF/LICENSE" || len(license.Occurrences) != 2 || license.Distinct != 2 {
		t.Errorf("license result = %+v", license)
	}
	if license.Occurrences[0].Source != first+"!META-INF/LICENSE" {
		t.Errorf("first occurrence = %s", license.Occurrences[0].Source)
	}
	if license.Occurrences[0].Fingerprint != fingerprint.Bytes([]byte("A")) {
		t.Errorf("fingerprint = %s", license.Occurrences[0].Fingerprint)
	}
	if class := results[1]; class.Distinct != 1 {
		t.Errorf("identical copies reported as %d distinct contents", class.Distinct)
	}
}

func TestScanFilterAndNoFingerprints(t *testing.T) {
	jar := testutil.WriteZip(t, filepath.Join(t.TempDir(), "a.jar"),
		testutil.File{Path: "META-INF/LICENSE", Content: "A"},
		testutil.File{Path: "com/A.class", Content: "a"},
	)
	results, err := Scan(t.Context(), []string{jar}, ScanOptions{
		Filter: pattern.Filter{Excludes: []string{"**/*.class"}},
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(results) != 1 || results[0].Path != "META-INF/LICENSE" {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Distinct != 0 || results[0].Occurrences[0].Fingerprint != 0 {
		t.Errorf("fingerprints computed without an algorithm: %+v", results[0])
	}
}

func TestScanInvalidPattern(t *testing.T) {
	if _, err := Scan(t.Context(), nil, ScanOptions{Filter: pattern.Filter{Includes: []string{"[unclosed"}}}); err == nil {
		t.Error("Scan accepted an invalid pattern")
	}
}
