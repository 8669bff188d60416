package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sickscan/sickscan-tui/internal/theme"
)

// ConfidenceBar renders a 0-100 percentage as a fill bar.
type ConfidenceBar struct {
	percentage  float64
	width       int
	showPercent bool
}

func NewConfidenceBar(percentage float64) *ConfidenceBar {
	cb := &ConfidenceBar{width: 20, showPercent: true}
	return cb.SetPercentage(percentage)
}

func (cb *ConfidenceBar) SetWidth(width int) *ConfidenceBar {
	cb.width = width
	return cb
}

func (cb *ConfidenceBar) SetShowPercent(show bool) *ConfidenceBar {
	cb.showPercent = show
	return cb
}

func (cb *ConfidenceBar) SetPercentage(percentage float64) *ConfidenceBar {
	switch {
	case math.IsNaN(percentage) || percentage < 0:
		percentage = 0
	case percentage > 100:
		percentage = 100
	}
	cb.percentage = percentage
	return cb
}

func (cb *ConfidenceBar) Percentage() float64 {
	return cb.percentage
}

// Filled is the number of cells drawn with the fill character.
func (cb *ConfidenceBar) Filled() int {
	if cb.width <= 0 {
		return 0
	}
	return int(math.Round(cb.percentage / 100 * float64(cb.width)))
}

func (cb *ConfidenceBar) Render() string {
	filled := cb.Filled()
	bar := strings.Repeat(theme.IconBarFill, filled) +
		strings.Repeat(theme.IconBarEmpty, cb.width-filled)

	out := lipgloss.NewStyle().
		Foreground(theme.ConfidenceColor(cb.percentage)).
		Render(bar)

	if cb.showPercent {
		out += " " + FormatPercent(cb.percentage)
	}
	return out
}

// FormatPercent drops trailing zeros: 80 -> "80%", 66.67 -> "66.67%".
func FormatPercent(p float64) string {
	s := fmt.Sprintf("%.2f", p)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s + "%"
}
