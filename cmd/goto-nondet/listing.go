package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/goto-nondet/program"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	numberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	kindStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))

	branchStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// listing renders function bodies with location numbers. Styling is
// applied only when styled is set.
type listing struct {
	styled bool
}

func (l listing) render(s lipgloss.Style, text string) string {
	if !l.styled {
		return text
	}
	return s.Render(text)
}

func (l listing) title(text string) string {
	if !l.styled {
		return "== " + text + " =="
	}
	return titleStyle.Render(text)
}

func (l listing) program(p *program.Program, only string) string {
	var b strings.Builder
	first := true
	for _, f := range p.Functions() {
		if only != "" && f.Name != only {
			continue
		}
		if !first {
			b.WriteByte('\n')
		}
		first = false
		b.WriteString(l.title(f.Name))
		b.WriteByte('\n')
		b.WriteString(l.body(f.Body))
	}
	return b.String()
}

func (l listing) body(body *program.Body) string {
	var b strings.Builder
	for _, in := range body.Instructions() {
		for _, lbl := range in.Labels {
			b.WriteString(l.render(labelStyle, lbl+":"))
			b.WriteByte('\n')
		}
		num := "   -"
		if in.LocationNumber != program.Unnumbered {
			num = fmt.Sprintf("%4d", in.LocationNumber)
		}
		b.WriteString(l.render(numberStyle, num))
		b.WriteString("  ")
		b.WriteString(l.instruction(in))
		b.WriteByte('\n')
	}
	return b.String()
}

func (l listing) instruction(in *program.Instruction) string {
	text := in.String()
	kind := in.Kind.String()
	rest := strings.TrimPrefix(text, kind)
	style := kindStyle
	if in.IsGoto() {
		style = branchStyle
	}
	return l.render(style, kind) + rest
}
