package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sickscan/sickscan-tui/internal/session"
	"github.com/sickscan/sickscan-tui/internal/symptom"
)

func (m CheckerModel) Update(msg tea.Msg) (CheckerModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case string:
		// returning from the catalog browser
		if msg == CheckerView {
			m.syncSelection()
		}
		return m, nil

	case noticeMsg:
		m.notice = &msg.notice
		return m, nil

	case catalogLoadedMsg:
		m.loadingCatalog = false
		if msg.err != nil {
			m.keys.Reload.SetEnabled(true)
			m.showNotice(m.sess.Report("load catalog", msg.err))
			return m, nil
		}
		m.keys.Reload.SetEnabled(false)
		m.manual.SetSuggestions(m.sess.CatalogNames())
		m.refreshSuggestions()
		return m, nil

	case analyzeDoneMsg:
		if msg.seq == m.analyzeSeq {
			m.analyzing = false
		}
		if msg.err != nil {
			m.showNotice(m.sess.Report("analyze", msg.err))
			return m, nil
		}
		m.showTags = true
		m.syncSelection()
		return m, nil

	case predictDoneMsg:
		if msg.seq == m.predictSeq {
			m.predicting = false
		}
		if msg.err != nil {
			m.showNotice(m.sess.Report("predict", msg.err))
			return m, nil
		}
		m.setPredictions(msg.preds)
		return m, nil

	case tea.KeyMsg:
		if m.notice != nil {
			if key.Matches(msg, m.keys.Dismiss) {
				m.notice = nil
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Analyze):
			return m, m.startAnalyze()

		case key.Matches(msg, m.keys.Predict):
			return m, m.startPredict()

		case key.Matches(msg, m.keys.Reset):
			m.reset()
			return m, nil

		case key.Matches(msg, m.keys.Catalog):
			if !m.sess.CatalogLoaded() {
				m.showNotice(m.sess.Report("browse catalog", symptom.ErrCatalogUnavailable))
				return m, nil
			}
			return m, navigate(CatalogView)

		case key.Matches(msg, m.keys.Reload):
			if m.loadingCatalog {
				return m, nil
			}
			m.loadingCatalog = true
			return m, loadCatalogCmd(m.sess)

		case key.Matches(msg, m.keys.Tab):
			m.cycleFocus(1)
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.cycleFocus(-1)
			return m, nil
		}

		switch m.activePanel {
		case ManualPanel:
			if key.Matches(msg, m.keys.Add) {
				m.addManual()
				return m, nil
			}
		case TagsPanel:
			m.handleTagKeys(msg)
			return m, nil
		case ResultsPanel:
			return m, m.handleResultsKeys(msg)
		}
	}

	switch m.activePanel {
	case TextPanel:
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	case ManualPanel:
		var cmd tea.Cmd
		m.manual, cmd = m.manual.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// startAnalyze sends the free text for analysis. A second trigger while the
// first is in flight is ignored.
func (m *CheckerModel) startAnalyze() tea.Cmd {
	if m.analyzing {
		return nil
	}
	text := strings.TrimSpace(m.textarea.Value())
	if text == "" {
		return nil
	}
	m.analyzing = true
	m.analyzeSeq++
	return tea.Batch(analyzeCmd(m.sess, m.analyzeSeq, text), m.spinner.Tick)
}

func (m *CheckerModel) startPredict() tea.Cmd {
	if m.predicting {
		return nil
	}
	if m.sess.Size() == 0 {
		m.showNotice(m.sess.Report("predict", session.ErrNoSymptoms))
		return nil
	}
	m.predicting = true
	m.predictSeq++
	return tea.Batch(predictCmd(m.sess, m.predictSeq), m.spinner.Tick)
}

func (m *CheckerModel) addManual() {
	_, _, err := m.sess.AddManual(m.manual.Value())
	if err != nil {
		m.showNotice(m.sess.Report("add symptom", err))
		return
	}
	m.manual.Reset()
	m.showTags = true
	m.syncSelection()
}

func (m *CheckerModel) handleTagKeys(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.tags.Left()
	case key.Matches(msg, m.keys.Right):
		m.tags.Right()
	case key.Matches(msg, m.keys.Remove):
		e, ok := m.tags.Current()
		if !ok {
			return
		}
		m.sess.Remove(e.ID)
		m.syncSelection()
		if m.tags.Len() == 0 {
			m.focus(ManualPanel)
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
}

func (m *CheckerModel) handleResultsKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.suggestions.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.suggestions.MoveDown()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
	case key.Matches(msg, m.keys.Select):
		item, ok := m.suggestions.Current()
		if !ok {
			return nil
		}
		if _, _, err := m.sess.Select(item.Value, symptom.SourceSuggestion); err != nil {
			m.showNotice(m.sess.Report("add suggestion", err))
			return nil
		}
		m.syncSelection()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}
