package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sickscan/sickscan-tui/internal/components"
	"github.com/sickscan/sickscan-tui/internal/symptom"
	"github.com/sickscan/sickscan-tui/internal/theme"
	"github.com/sickscan/sickscan-tui/internal/utils"
)

func (m CheckerModel) View() string {
	if m.notice != nil {
		return m.renderNotice()
	}

	inner := m.width - 4
	sections := []string{
		theme.RenderTitle(theme.IconDiagnosis, "Symptom Checker"),
		m.renderTextPanel(inner),
		m.renderManualPanel(inner),
	}

	if m.showTags {
		sections = append(sections, m.renderTagsPanel(inner))
	}

	sections = append(sections, m.renderPredictButton())

	if m.showResults {
		sections = append(sections, m.renderResultsPanel(inner))
	}

	sections = append(sections, m.renderStatusBar(), m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m CheckerModel) renderTextPanel(width int) string {
	var b strings.Builder
	b.WriteString(theme.RenderTitle(theme.IconAnalyze, "Describe your symptoms"))
	b.WriteString("\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	if m.analyzing {
		b.WriteString(theme.ButtonBusyStyle.Render(m.spinner.View() + " Analyzing..."))
	} else {
		b.WriteString(theme.ButtonStyle.Render("Analyze  ctrl+a"))
	}
	return theme.RenderPanel(b.String(), width, m.activePanel == TextPanel)
}

func (m CheckerModel) renderManualPanel(width int) string {
	var b strings.Builder
	b.WriteString(theme.RenderTitle(theme.IconSymptom, "Add a symptom"))
	b.WriteString("\n")
	b.WriteString(m.manual.View())
	return theme.RenderPanel(b.String(), width, m.activePanel == ManualPanel)
}

func (m CheckerModel) renderTagsPanel(width int) string {
	header := theme.RenderTitle("", fmt.Sprintf("Detected Symptoms (%d)", m.tags.Len()))
	body := m.tags.Render(m.activePanel == TagsPanel)
	return theme.RenderPanel(header+"\n"+body, width, m.activePanel == TagsPanel)
}

func (m CheckerModel) renderPredictButton() string {
	if m.predicting {
		return theme.ButtonBusyStyle.Render(m.spinner.View() + " Diagnosing...")
	}
	return theme.ButtonStyle.Render("Get Diagnosis  ctrl+g")
}

func (m CheckerModel) renderResultsPanel(width int) string {
	var b strings.Builder
	b.WriteString(theme.RenderTitle(theme.IconDiagnosis, "Possible conditions"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	if m.suggestions.Len() > 0 {
		b.WriteString("\n")
		b.WriteString(m.suggestions.Render(m.activePanel == ResultsPanel))
	}
	return theme.RenderPanel(b.String(), width, m.activePanel == ResultsPanel)
}

func (m CheckerModel) renderStatusBar() string {
	catalog := "symptoms: loading"
	switch {
	case m.sess.CatalogLoaded():
		catalog = fmt.Sprintf("symptoms: %d", len(m.sess.Catalog()))
	case !m.loadingCatalog && m.sess.CatalogErr() != nil:
		catalog = "symptoms: unavailable (ctrl+l)"
	}

	items := []string{
		m.serviceURL,
		catalog,
		fmt.Sprintf("selected: %d", m.sess.Size()),
	}
	if m.busy() {
		var busy []string
		if m.loadingCatalog {
			busy = append(busy, "catalog")
		}
		if m.analyzing {
			busy = append(busy, "analyze")
		}
		if m.predicting {
			busy = append(busy, "predict")
		}
		items = append(items, theme.StatusBusyStyle.Render(m.spinner.View()+" "+strings.Join(busy, ", ")))
	}
	return theme.RenderStatusBar(m.width, items...)
}

func (m CheckerModel) renderNotice() string {
	n := m.notice
	body := theme.RenderStatus("error", n.Message) + "\n\n" +
		theme.RenderTextDim("enter/esc to dismiss")
	box := theme.NoticeStyle.Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderPredictions draws one card per prediction in the order received.
func renderPredictions(preds []symptom.Prediction, width int) string {
	if len(preds) == 0 {
		return theme.RenderTextDim("No matching conditions.")
	}

	cardWidth := width - 2
	if cardWidth < 24 {
		cardWidth = 24
	}
	barWidth := utils.Clamp(cardWidth-12, 10, 30)

	cards := make([]string, 0, len(preds))
	for _, p := range preds {
		bar := components.NewConfidenceBar(p.Confidence).
			SetWidth(barWidth).
			SetShowPercent(false)

		common := "Common Symptoms: " + utils.JoinOr(p.CommonSymptoms, ", ", "N/A")
		lines := []string{
			theme.DiseaseStyle.Render(p.Disease),
			theme.ConfidenceStyle.Render(components.FormatPercent(p.Confidence)) + " " + bar.Render(),
		}
		for _, l := range utils.WrapText(common, cardWidth-4) {
			lines = append(lines, theme.TextDimStyle.Render(l))
		}
		cards = append(cards, theme.CardStyle.Width(cardWidth).Render(strings.Join(lines, "\n")))
	}
	return strings.Join(cards, "\n")
}
