package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	tncerror "github.com/msto63/tnc/foundation/core/error"
)

var (
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Emerald
	colorAccent  = lipgloss.Color("#F59E0B") // Amber
	colorMuted   = lipgloss.Color("#94A3B8") // Slate 400
)

// styles groups the terminal styles of diagnostic output
type styles struct {
	Error   lipgloss.Style
	Success lipgloss.Style
	File    lipgloss.Style
	Near    lipgloss.Style
	Muted   lipgloss.Style
}

// newStyles returns colored styles, or plain ones when color is off
func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{Error: plain, Success: plain, File: plain, Near: plain, Muted: plain}
	}
	return styles{
		Error:   lipgloss.NewStyle().Foreground(colorError).Bold(true),
		Success: lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		File:    lipgloss.NewStyle().Bold(true),
		Near:    lipgloss.NewStyle().Foreground(colorAccent),
		Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// renderDiagnostic prints d in the diagnostics layout with styling applied.
// Errors without a source line render as a single line.
func renderDiagnostic(d *tncerror.Error, st styles) string {
	if d.Line() == 0 {
		return fmt.Sprintf("%s %s\n", st.Error.Render("error:"), d.Error())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Error in file: %s\n", st.File.Render(d.File()))
	fmt.Fprintf(&b, "%s near line %d: %s\n",
		st.Error.Render(d.Code().Prefix()+" error"), d.Line(), d.Message())
	if d.Near() != "" {
		fmt.Fprintf(&b, "Found near: %s\n", st.Near.Render(d.Near()))
	}
	return b.String()
}
