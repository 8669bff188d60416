package views

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sickscan/sickscan-tui/internal/components"
	"github.com/sickscan/sickscan-tui/internal/session"
	"github.com/sickscan/sickscan-tui/internal/symptom"
	"github.com/sickscan/sickscan-tui/internal/theme"
)

type Panel int

const (
	TextPanel Panel = iota
	ManualPanel
	TagsPanel
	ResultsPanel
)

// CheckerModel is the main screen: free text, manual entry, the tag strip
// and the diagnosis results.
type CheckerModel struct {
	sess       *session.Session
	serviceURL string

	width       int
	height      int
	activePanel Panel
	keys        keyMap
	help        help.Model

	textarea    textarea.Model
	manual      textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model
	tags        *components.TagStrip
	suggestions *components.ListSelector

	showTags    bool
	showResults bool
	predictions []symptom.Prediction
	notice      *session.Notice

	analyzing      bool
	predicting     bool
	loadingCatalog bool
	analyzeSeq     uint64
	predictSeq     uint64
}

func NewCheckerModel(sess *session.Session, serviceURL string) CheckerModel {
	ta := textarea.New()
	ta.Placeholder = "Describe how you feel, e.g. \"I have a fever and a bad cough\""
	ta.CharLimit = 5000
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "Type a symptom name"
	ti.Prompt = theme.IconCursor + " "
	ti.CharLimit = 120
	ti.ShowSuggestions = true

	keys := defaultKeyMap()
	ti.KeyMap.AcceptSuggestion = keys.Accept

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorAccent)

	vp := viewport.New(76, 10)

	return CheckerModel{
		sess:        sess,
		serviceURL:  serviceURL,
		width:       80,
		height:      40,
		activePanel: TextPanel,
		keys:        keys,
		help:        help.New(),
		textarea:    ta,
		manual:      ti,
		viewport:    vp,
		spinner:     s,
		tags:        components.NewTagStrip(),
		suggestions: components.NewListSelector("You may also have"),

		// the catalog fetch starts in Init
		loadingCatalog: true,
	}
}

func (m CheckerModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick, loadCatalogCmd(m.sess))
}

// busy reports whether any request is in flight.
func (m CheckerModel) busy() bool {
	return m.analyzing || m.predicting || m.loadingCatalog
}

// syncSelection mirrors the session selection into the tag strip and
// recomputes suggestions.
func (m *CheckerModel) syncSelection() {
	m.tags.SetTags(m.sess.Entries())
	if m.sess.Size() > 0 {
		m.showTags = true
	}
	m.refreshSuggestions()
}

func (m *CheckerModel) refreshSuggestions() {
	syms := m.sess.Suggestions(m.predictions)
	items := make([]components.ListItem, 0, len(syms))
	for _, s := range syms {
		items = append(items, components.ListItem{Label: s.Name, Value: s.ID})
	}
	m.suggestions.SetItems(items)
}

func (m *CheckerModel) setPredictions(preds []symptom.Prediction) {
	m.predictions = preds
	m.showResults = true
	m.viewport.SetContent(renderPredictions(preds, m.viewport.Width))
	m.viewport.GotoTop()
	m.refreshSuggestions()
}

func (m *CheckerModel) showNotice(n session.Notice, surfaced bool) {
	if !surfaced {
		return
	}
	m.notice = &n
}

// reset returns the screen to its initial state. The catalog survives.
func (m *CheckerModel) reset() {
	m.sess.Reset()

	m.textarea.Reset()
	m.manual.Reset()
	m.tags.SetTags(nil)
	m.predictions = nil
	m.suggestions.SetItems(nil)
	m.viewport.SetContent("")
	m.viewport.GotoTop()

	m.showTags = false
	m.showResults = false
	m.analyzing = false
	m.predicting = false
	m.focus(TextPanel)
}

func (m *CheckerModel) focus(p Panel) {
	m.activePanel = p
	m.textarea.Blur()
	m.manual.Blur()
	switch p {
	case TextPanel:
		m.textarea.Focus()
	case ManualPanel:
		m.manual.Focus()
	}
}

// panels lists the focusable panels in tab order. Hidden areas are skipped.
func (m CheckerModel) panels() []Panel {
	ps := []Panel{TextPanel, ManualPanel}
	if m.showTags && m.tags.Len() > 0 {
		ps = append(ps, TagsPanel)
	}
	if m.showResults {
		ps = append(ps, ResultsPanel)
	}
	return ps
}

func (m *CheckerModel) cycleFocus(step int) {
	ps := m.panels()
	cur := 0
	for i, p := range ps {
		if p == m.activePanel {
			cur = i
			break
		}
	}
	next := (cur + step + len(ps)) % len(ps)
	m.focus(ps[next])
}

func (m *CheckerModel) resize(width, height int) {
	m.width = width
	m.height = height

	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	m.textarea.SetWidth(inner)
	m.manual.Width = inner - 2
	m.tags.SetWidth(inner)
	m.suggestions.SetSize(inner, 6)
	m.help.Width = width

	m.viewport.Width = inner
	vh := height - 28
	if vh < 5 {
		vh = 5
	}
	m.viewport.Height = vh
	if m.showResults {
		m.viewport.SetContent(renderPredictions(m.predictions, m.viewport.Width))
	}
}
