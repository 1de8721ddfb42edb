package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/wippyai/npdmgen/npdm"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	dumpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	tableHeight = 16
	dumpWidth   = 80
)

type inspectorModel struct {
	desc     *npdm.Descriptor
	filename string
	entries  []layoutEntry
	table    table.Model
	dump     viewport.Model
	selected int
}

func newInspectorModel(filename string, desc *npdm.Descriptor) *inspectorModel {
	entries := layoutEntries(desc.Layout)

	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{e.label(), hexOffset(e.offset), humanize.IBytes(uint64(e.size))}
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Region", Width: 26},
			{Title: "Offset", Width: 10},
			{Title: "Size", Width: 10},
		}),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(tableHeight),
	)
	styles := table.DefaultStyles()
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	t.SetStyles(styles)

	m := &inspectorModel{
		desc:     desc,
		filename: filename,
		entries:  entries,
		table:    t,
		dump:     viewport.New(dumpWidth, tableHeight),
		selected: -1,
	}
	m.refresh()
	return m
}

func (m *inspectorModel) Init() tea.Cmd {
	return nil
}

// refresh loads the dump pane for the selected row when it changed.
func (m *inspectorModel) refresh() {
	cur := m.table.Cursor()
	if cur == m.selected || cur < 0 || cur >= len(m.entries) {
		return
	}
	m.selected = cur
	e := m.entries[cur]

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s..%s\n\n",
		sectionStyle.Render(e.section+" "+strings.TrimSpace(e.label())),
		hexOffset(e.offset), hexOffset(e.offset+e.size))
	if e.nested && e.name == npdm.TableKernelCaps {
		b.WriteString(capabilityLines(m.desc.Layout.Capabilities))
		b.WriteString("\n")
	}
	if e.size == 0 {
		b.WriteString(helpStyle.Render("(empty)"))
	} else {
		b.WriteString(hexDump(m.desc.Bytes[e.offset:e.offset+e.size], e.offset))
	}

	m.dump.SetContent(b.String())
	m.dump.GotoTop()
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.dump, cmd = m.dump.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.dump.Width = max(msg.Width-m.tableWidth()-4, 20)
		m.dump.Height = max(msg.Height-6, 4)
		m.table.SetHeight(max(msg.Height-6, 4))
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	cmds = append(cmds, cmd)
	m.refresh()

	return m, tea.Batch(cmds...)
}

func (m *inspectorModel) tableWidth() int {
	w := 0
	for _, c := range m.table.Columns() {
		w += c.Width + 2
	}
	return w
}

func (m *inspectorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("NPDM Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(" ")
	b.WriteString(helpStyle.Render(fmt.Sprintf("(%s, %d capability words)",
		humanize.IBytes(uint64(m.desc.Layout.Size)), len(m.desc.Layout.Capabilities))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.table.View(),
		"  ",
		dumpStyle.Render(m.dump.View()),
	))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓ select • pgup/pgdown scroll dump • q quit"))

	return b.String()
}

func runInspector(filename string, desc *npdm.Descriptor) error {
	p := tea.NewProgram(newInspectorModel(filename, desc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
