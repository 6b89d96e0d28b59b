package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wippyai/goto-nondet/nondet"
	"github.com/wippyai/goto-nondet/program"
)

type browseState int

const (
	stateSelectFunc browseState = iota
	stateViewBody
)

// browseModel lists functions and shows each body before and after the
// pass.
type browseModel struct {
	filename  string
	original  *program.Program
	rewritten *program.Program
	report    *nondet.Report
	funcs     []string
	view      viewport.Model
	listing   listing
	selected  int
	width     int
	height    int
	state     browseState
	after     bool
}

func newBrowseModel(filename string, original, rewritten *program.Program, report *nondet.Report) *browseModel {
	m := &browseModel{
		filename:  filename,
		original:  original,
		rewritten: rewritten,
		report:    report,
		listing:   listing{styled: true},
		view:      viewport.New(80, 20),
		width:     80,
		height:    24,
		after:     true,
	}
	for _, f := range rewritten.Functions() {
		m.funcs = append(m.funcs, f.Name)
	}
	return m
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-4, 1)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectFunc {
				if m.selected > 0 {
					m.selected--
				}
				return m, nil
			}

		case "down", "j":
			if m.state == stateSelectFunc {
				if m.selected < len(m.funcs)-1 {
					m.selected++
				}
				return m, nil
			}

		case "enter":
			if m.state == stateSelectFunc && len(m.funcs) > 0 {
				m.state = stateViewBody
				m.refresh()
				m.view.GotoTop()
				return m, nil
			}

		case "tab":
			if m.state == stateViewBody {
				m.after = !m.after
				m.refresh()
				return m, nil
			}

		case "esc":
			if m.state == stateViewBody {
				m.state = stateSelectFunc
				return m, nil
			}
		}
	}

	if m.state == stateViewBody {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}
	return m, nil
}

// refresh loads the selected body into the viewport.
func (m *browseModel) refresh() {
	p := m.original
	if m.after {
		p = m.rewritten
	}
	f, ok := p.Function(m.funcs[m.selected])
	if !ok {
		m.view.SetContent(errorStyle.Render("function not found"))
		return
	}
	m.view.SetContent(m.listing.body(f.Body))
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("goto-nondet"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectFunc:
		if len(m.funcs) == 0 {
			b.WriteString("No functions.\n")
		}
		for i, name := range m.funcs {
			line := fmt.Sprintf("%s (%d rewritten)", name, m.report.Count(name))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • q quit"))

	case stateViewBody:
		which := "original"
		if m.after {
			which = "rewritten"
		}
		b.WriteString(fmt.Sprintf("%s [%s]\n", kindStyle.Render(m.funcs[m.selected]), which))
		b.WriteString(m.view.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab original/rewritten • ↑/↓ scroll • esc back • q quit"))
	}

	return b.String()
}

func (a *app) browseCmd() *cobra.Command {
	var flags passFlags
	cmd := &cobra.Command{
		Use:   "browse <file>",
		Short: "Interactively compare function bodies before and after the pass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(cmd, a.cfg)
			if err != nil {
				return err
			}
			_, p, st, err := a.load(args[0], flags.mode)
			if err != nil {
				return err
			}
			original := p.Clone()
			report, err := a.pass(p, st, cfg)
			if err != nil {
				return err
			}
			prog := tea.NewProgram(newBrowseModel(args[0], original, p, report), tea.WithAltScreen())
			_, err = prog.Run()
			return err
		},
	}
	flags.register(cmd)
	return cmd
}
