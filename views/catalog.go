package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sickscan/sickscan-tui/internal/session"
	"github.com/sickscan/sickscan-tui/internal/symptom"
	"github.com/sickscan/sickscan-tui/internal/theme"
)

// CatalogModel lists every catalog symptom and adds the highlighted one.
type CatalogModel struct {
	sess   *session.Session
	table  table.Model
	ids    []symptom.ID
	keys   catalogKeyMap
	help   help.Model
	width  int
	height int
	status string
}

func NewCatalogModel(sess *session.Session) CatalogModel {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorderInactive).
		BorderBottom(true).
		Bold(true).
		Foreground(theme.ColorAccent)
	s.Selected = s.Selected.
		Foreground(theme.ColorBackground).
		Background(theme.ColorAccent).
		Bold(true)
	t.SetStyles(s)

	m := CatalogModel{
		sess:  sess,
		table: t,
		keys:  defaultCatalogKeyMap(),
		help:  help.New(),
		width: 80,
	}
	m.updateTable()
	return m
}

func (m CatalogModel) Init() tea.Cmd {
	return nil
}

func (m *CatalogModel) updateTable() {
	available := m.width - 4
	nameWidth := available - 10 - 4 - 4
	if nameWidth < 16 {
		nameWidth = 16
	}
	m.table.SetColumns([]table.Column{
		{Title: "ID", Width: 10},
		{Title: "Name", Width: nameWidth},
		{Title: "", Width: 4},
	})

	catalog := m.sess.Catalog()
	rows := make([]table.Row, 0, len(catalog))
	m.ids = make([]symptom.ID, 0, len(catalog))
	for _, s := range catalog {
		mark := ""
		if m.sess.Has(s.ID) {
			mark = theme.IconSuccess
		}
		rows = append(rows, table.Row{s.ID.String(), s.Name, mark})
		m.ids = append(m.ids, s.ID)
	}
	m.table.SetRows(rows)

	if m.height > 0 {
		m.table.SetHeight(max(m.height-8, 5))
	}
}

func (m CatalogModel) Update(msg tea.Msg) (CatalogModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateTable()
		return m, nil

	case string:
		if msg == CatalogView {
			m.status = ""
			m.updateTable()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			return m, navigate(CheckerView)
		case key.Matches(msg, m.keys.Select):
			return m, m.selectCurrent()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *CatalogModel) selectCurrent() tea.Cmd {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.ids) {
		return nil
	}
	e, added, err := m.sess.Select(m.ids[i], symptom.SourceCatalog)
	if err != nil {
		n, surfaced := m.sess.Report("add from catalog", err)
		if !surfaced {
			return nil
		}
		return tea.Sequence(navigate(CheckerView), func() tea.Msg { return noticeMsg{notice: n} })
	}
	if added {
		m.status = theme.RenderStatus("success", fmt.Sprintf("Added %s", e.Name))
	} else {
		m.status = theme.RenderStatus("info", fmt.Sprintf("%s is already selected", e.Name))
	}
	m.updateTable()
	return nil
}

func (m CatalogModel) View() string {
	var b strings.Builder
	b.WriteString(theme.RenderTitle(theme.IconCatalog, fmt.Sprintf("Symptom catalog (%d)", len(m.ids))))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
