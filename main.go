package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sickscan/sickscan-tui/internal/session"
	"github.com/sickscan/sickscan-tui/views"
)

const Version = "0.3.0"

type model struct {
	currentView string
	checkerView views.CheckerModel
	catalogView *views.CatalogModel
	sess        *session.Session
	width       int
	height      int
}

func initialModel(sess *session.Session, serviceURL string) model {
	return model{
		currentView: views.CheckerView,
		checkerView: views.NewCheckerModel(sess, serviceURL),
		sess:        sess,
	}
}

func (m model) Init() tea.Cmd {
	return m.checkerView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		// both screens keep their layout current
		var cmd tea.Cmd
		m.checkerView, cmd = m.checkerView.Update(msg)
		if m.catalogView != nil {
			*m.catalogView, _ = m.catalogView.Update(msg)
		}
		return m, cmd
	}

	if strMsg, ok := msg.(string); ok {
		switch strMsg {
		case views.CheckerView:
			m.currentView = views.CheckerView
		case views.CatalogView:
			m.currentView = views.CatalogView
			if m.catalogView == nil {
				catalog := views.NewCatalogModel(m.sess)
				m.catalogView = &catalog
				*m.catalogView, _ = m.catalogView.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
				return m, m.catalogView.Init()
			}
		}
	}

	var cmd tea.Cmd
	if m.currentView == views.CatalogView && m.catalogView != nil {
		switch msg.(type) {
		case tea.KeyMsg, string:
			*m.catalogView, cmd = m.catalogView.Update(msg)
			return m, cmd
		}
	}

	// the checker owns request results and spinner ticks on every screen
	m.checkerView, cmd = m.checkerView.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.currentView == views.CatalogView && m.catalogView != nil {
		return m.catalogView.View()
	}
	return m.checkerView.View()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
