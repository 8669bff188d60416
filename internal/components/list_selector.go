package components

import (
	"strings"

	"github.com/sickscan/sickscan-tui/internal/symptom"
	"github.com/sickscan/sickscan-tui/internal/theme"
	"github.com/sickscan/sickscan-tui/internal/utils"
)

// ListSelector is a single-select scrolling list of symptoms.
type ListSelector struct {
	items      []ListItem
	cursor     int
	startIndex int

	title  string
	width  int
	height int
}

type ListItem struct {
	Label string
	Value symptom.ID
}

func NewListSelector(title string) *ListSelector {
	return &ListSelector{
		title:  title,
		width:  40,
		height: 8,
	}
}

func (ls *ListSelector) SetSize(width, height int) *ListSelector {
	ls.width = width
	ls.height = height
	ls.updateScrollPosition()
	return ls
}

// SetItems replaces the list, keeping the cursor in range.
func (ls *ListSelector) SetItems(items []ListItem) *ListSelector {
	ls.items = items
	ls.cursor = utils.Clamp(ls.cursor, 0, max(len(items)-1, 0))
	ls.updateScrollPosition()
	return ls
}

func (ls *ListSelector) Len() int {
	return len(ls.items)
}

func (ls *ListSelector) Cursor() int {
	return ls.cursor
}

func (ls *ListSelector) MoveUp() {
	if ls.cursor > 0 {
		ls.cursor--
		ls.updateScrollPosition()
	}
}

func (ls *ListSelector) MoveDown() {
	if ls.cursor < len(ls.items)-1 {
		ls.cursor++
		ls.updateScrollPosition()
	}
}

func (ls *ListSelector) visibleHeight() int {
	h := ls.height
	if ls.title != "" {
		h--
	}
	return max(h, 1)
}

func (ls *ListSelector) updateScrollPosition() {
	visible := ls.visibleHeight()

	if ls.cursor < ls.startIndex {
		ls.startIndex = ls.cursor
	} else if ls.cursor >= ls.startIndex+visible {
		ls.startIndex = ls.cursor - visible + 1
	}

	maxStart := max(len(ls.items)-visible, 0)
	if ls.startIndex > maxStart {
		ls.startIndex = maxStart
	}
}

// Current returns the item under the cursor. ok is false for an empty list.
func (ls *ListSelector) Current() (ListItem, bool) {
	if ls.cursor < 0 || ls.cursor >= len(ls.items) {
		return ListItem{}, false
	}
	item := ls.items[ls.cursor]
	return item, true
}

func (ls *ListSelector) Render(focused bool) string {
	lines := make([]string, 0, ls.height)

	if ls.title != "" {
		lines = append(lines, theme.RenderTitle(theme.IconSymptom, ls.title))
	}

	if len(ls.items) == 0 {
		lines = append(lines, theme.RenderTextDim("No suggestions"))
		return strings.Join(lines, "\n")
	}

	end := min(ls.startIndex+ls.visibleHeight(), len(ls.items))
	for i := ls.startIndex; i < end; i++ {
		lines = append(lines, ls.renderListItem(ls.items[i], focused && i == ls.cursor))
	}

	return strings.Join(lines, "\n")
}

func (ls *ListSelector) renderListItem(item ListItem, focused bool) string {
	prefix := "  "
	if focused {
		prefix = theme.IconCursor + " "
	}

	content := utils.TruncateString(prefix+item.Label, ls.width)
	if focused {
		return theme.SelectionStyle.Render(content)
	}
	return theme.TextStyle.Render(content)
}
