// pkg/ui/table.go

package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	stylePass = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFail = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleDim  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Row is one line of a check table.
type Row struct {
	Label  string
	OK     bool
	Warn   bool
	Detail string
}

// RenderTable writes aligned check results, one row per probe. Labels are
// padded to the widest entry so the markers line up.
func RenderTable(w io.Writer, rows []Row, colour bool) {
	width := 0
	for _, r := range rows {
		if len(r.Label) > width {
			width = len(r.Label)
		}
	}
	for _, r := range rows {
		marker := mark(r, colour)
		detail := r.Detail
		if detail != "" {
			if colour {
				detail = styleDim.Render(detail)
			}
			detail = "  " + detail
		}
		fmt.Fprintf(w, "  %s %-*s%s\n", marker, width, r.Label, detail)
	}
}

func mark(r Row, colour bool) string {
	switch {
	case r.OK:
		if colour {
			return stylePass.Render("✓")
		}
		return "✓"
	case r.Warn:
		if colour {
			return styleWarn.Render("!")
		}
		return "!"
	default:
		if colour {
			return styleFail.Render("✗")
		}
		return "✗"
	}
}

// Banner renders a single emphasised line, used for section headers.
func Banner(w io.Writer, text string, colour bool) {
	line := strings.Repeat("─", len(text))
	if colour {
		text = lipgloss.NewStyle().Bold(true).Render(text)
	}
	fmt.Fprintf(w, "%s\n%s\n", text, line)
}
