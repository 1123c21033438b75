package renderers

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/sachi/sachi-go/internal/report"
)

// Severity colors
var (
	colorError   = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
	colorOK      = lipgloss.Color("#8BC34A")
	colorMuted   = lipgloss.Color("#8a8f98")
)

// TextRenderer prints failed checks for humans, one per line, followed by a summary
type TextRenderer struct {
	// Color enables lipgloss styling
	Color bool
}

func (f *TextRenderer) Render(r *report.Report, w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, warn := range r.Warnings() {
		fmt.Fprintf(bw, "%s %s %s %s %s\n",
			f.style(lipgloss.NewStyle().Bold(true), fmt.Sprintf("%s:%d:%d", warn.Target, warn.Lineno, warn.Col)),
			warn.Rule,
			f.severity(warn.Severity()),
			warn.Message(),
			f.style(lipgloss.NewStyle().Foreground(colorMuted), "["+warn.Scope+"]"),
		)
	}

	for _, e := range r.Errors {
		fmt.Fprintf(bw, "%s %s %s\n",
			f.style(lipgloss.NewStyle().Bold(true), e.Target),
			f.severity(report.SeverityError),
			e.Err.Error())
	}

	s := r.Summary()
	line := fmt.Sprintf("%d targets, %d classes, %d functions, %d checks, %d warnings, %d errors",
		s.Targets, s.Classes, s.Functions, s.Checks, s.Warnings, s.Errors)
	if s.Cached > 0 {
		line += fmt.Sprintf(" (%d cached)", s.Cached)
	}
	if s.Warnings == 0 && s.Errors == 0 {
		line = f.style(lipgloss.NewStyle().Foreground(colorOK), "✓ "+line)
	}
	fmt.Fprintln(bw, line)

	return bw.Flush()
}

func (f *TextRenderer) severity(s report.Severity) string {
	style := lipgloss.NewStyle().Bold(true)
	switch s {
	case report.SeverityError:
		style = style.Foreground(colorError)
	case report.SeverityWarning:
		style = style.Foreground(colorWarning)
	case report.SeverityInfo:
		style = style.Foreground(colorInfo)
	default:
		style = style.Foreground(colorOK)
	}
	return f.style(style, string(s))
}

func (f *TextRenderer) style(s lipgloss.Style, text string) string {
	if !f.Color {
		return text
	}
	return s.Render(text)
}
