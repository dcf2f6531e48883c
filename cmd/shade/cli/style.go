// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Styles renders human-readable command output. Colors use ANSI
// 256-color codes; on anything other than a terminal every style
// renders plain text.
type Styles struct {
	Heading lipgloss.Style
	Label   lipgloss.Style
	Faint   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Failure lipgloss.Style
}

// NewStyles returns styles for output written to w.
func NewStyles(w io.Writer) Styles {
	renderer := lipgloss.NewRenderer(w)
	if !isTerminal(w) {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return Styles{
		Heading: renderer.NewStyle().Bold(true),
		Label:   renderer.NewStyle().Foreground(lipgloss.Color("75")),
		Faint:   renderer.NewStyle().Foreground(lipgloss.Color("245")),
		Success: renderer.NewStyle().Foreground(lipgloss.Color("114")),
		Warning: renderer.NewStyle().Foreground(lipgloss.Color("214")),
		Failure: renderer.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
