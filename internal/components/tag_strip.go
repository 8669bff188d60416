package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sickscan/sickscan-tui/internal/symptom"
	"github.com/sickscan/sickscan-tui/internal/theme"
	"github.com/sickscan/sickscan-tui/internal/utils"
)

// TagStrip shows the selected symptoms as removable tags, wrapped to width.
type TagStrip struct {
	tags   []symptom.Entry
	cursor int
	width  int
}

func NewTagStrip() *TagStrip {
	return &TagStrip{width: 60}
}

func (ts *TagStrip) SetWidth(width int) {
	ts.width = width
}

// SetTags mirrors the selection. The cursor stays on the same index when
// possible so repeated removals walk left.
func (ts *TagStrip) SetTags(entries []symptom.Entry) {
	ts.tags = entries
	ts.cursor = utils.Clamp(ts.cursor, 0, max(len(entries)-1, 0))
}

func (ts *TagStrip) Len() int {
	return len(ts.tags)
}

func (ts *TagStrip) Left() {
	if ts.cursor > 0 {
		ts.cursor--
	}
}

func (ts *TagStrip) Right() {
	if ts.cursor < len(ts.tags)-1 {
		ts.cursor++
	}
}

// Current is the tag under the cursor.
func (ts *TagStrip) Current() (symptom.Entry, bool) {
	if ts.cursor < 0 || ts.cursor >= len(ts.tags) {
		return symptom.Entry{}, false
	}
	return ts.tags[ts.cursor], true
}

func (ts *TagStrip) Render(focused bool) string {
	if len(ts.tags) == 0 {
		return theme.RenderTextDim("No symptoms selected")
	}

	var rows []string
	var row []string
	rowWidth := 0

	for i, e := range ts.tags {
		label := e.Name
		if e.Source == symptom.SourceAnalysis && e.Confidence > 0 {
			label += " " + FormatPercent(e.Confidence)
		}
		label += " " + theme.IconRemove
		style := theme.TagStyle
		if focused && i == ts.cursor {
			style = theme.TagFocusedStyle
		}
		tag := style.Render(label)
		w := lipgloss.Width(tag)

		if rowWidth > 0 && rowWidth+w > ts.width {
			rows = append(rows, strings.Join(row, ""))
			row, rowWidth = nil, 0
		}
		row = append(row, tag)
		rowWidth += w
	}
	rows = append(rows, strings.Join(row, ""))

	return strings.Join(rows, "\n")
}
