package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/tsvcheck/internal/check"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	fileStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BD93F9"))

	reasonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BE9FD"))

	contentsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	okStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#50FA7B"))

	mutedStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6272A4"))
)

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Printer writes failures in their plaintext form, one blank line apart.
type Printer struct {
	w      io.Writer
	styled bool
}

// NewPrinter returns a Printer writing to w. Styling is applied only when
// styled is set; pass IsTerminal(w) to decide automatically.
func NewPrinter(w io.Writer, styled bool) *Printer {
	return &Printer{w: w, styled: styled}
}

func (p *Printer) apply(style lipgloss.Style, text string) string {
	if p.styled {
		return style.Render(text)
	}
	return text
}

// WriteFailure prints file as a header line followed by the failure
// message. Unstyled, the message is exactly f.PlaintextMessage().
func (p *Printer) WriteFailure(file string, f check.Failure) error {
	var b strings.Builder
	if file != "" {
		b.WriteString(p.apply(fileStyle, file))
		b.WriteString(":\n")
	}

	switch f := f.(type) {
	case *check.CellFailure:
		for _, sf := range f.SubFailures() {
			b.WriteString(p.apply(reasonStyle, sf.Reason))
			b.WriteByte('\n')
		}
		b.WriteString("  in cell ")
		b.WriteString(p.apply(locationStyle, f.Location().String()))
		b.WriteString("\n  contents: ")
		b.WriteString(p.apply(contentsStyle, check.RenderContents(f.Contents())))
	default:
		b.WriteString(p.apply(reasonStyle, f.PlaintextMessage()))
	}
	b.WriteString("\n\n")

	_, err := io.WriteString(p.w, b.String())
	return err
}

// WriteSummary prints a one-line summary such as
//
//	data.tsv: 12 rows, 36 cells, 2 failures
func (p *Printer) WriteSummary(s Summary) error {
	name := s.File
	if name == "" {
		name = "<stdin>"
	}

	counts := fmt.Sprintf("%d rows, %d cells, ", s.Rows, s.Cells)
	var result string
	switch s.Failures {
	case 0:
		result = p.apply(okStyle, "no failures")
	case 1:
		result = p.apply(reasonStyle, "1 failure")
	default:
		result = p.apply(reasonStyle, fmt.Sprintf("%d failures", s.Failures))
	}

	line := p.apply(fileStyle, name) + ": " + counts + result
	if s.Truncated {
		line += " " + p.apply(mutedStyle, "(stopped at failure limit)")
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}
