package views

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sickscan/sickscan-tui/internal/session"
	"github.com/sickscan/sickscan-tui/internal/symptom"
)

// Screen names routed by the root model.
const (
	CheckerView = "checker_view"
	CatalogView = "catalog_view"
)

type catalogLoadedMsg struct {
	count int
	err   error
}

type analyzeDoneMsg struct {
	seq   uint64
	added []symptom.Entry
	err   error
}

type predictDoneMsg struct {
	seq   uint64
	preds []symptom.Prediction
	err   error
}

// noticeMsg carries a failure from another screen to the checker.
type noticeMsg struct {
	notice session.Notice
}

func navigate(view string) tea.Cmd {
	return func() tea.Msg {
		return view
	}
}

func loadCatalogCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		n, err := sess.LoadCatalog(context.Background())
		return catalogLoadedMsg{count: n, err: err}
	}
}

func analyzeCmd(sess *session.Session, seq uint64, text string) tea.Cmd {
	return func() tea.Msg {
		added, err := sess.Analyze(context.Background(), text)
		return analyzeDoneMsg{seq: seq, added: added, err: err}
	}
}

func predictCmd(sess *session.Session, seq uint64) tea.Cmd {
	return func() tea.Msg {
		preds, err := sess.Predict(context.Background())
		return predictDoneMsg{seq: seq, preds: preds, err: err}
	}
}
