package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Clinic palette - calm teal on charcoal
	ColorBackground        = lipgloss.Color("#1F2427") // Charcoal
	ColorBackgroundDarker  = lipgloss.Color("#171B1D") // Deep charcoal
	ColorBackgroundLighter = lipgloss.Color("#2E3538") // Slate

	// Text colors
	ColorForeground       = lipgloss.Color("#E6F2F0") // Off-white
	ColorForegroundDim    = lipgloss.Color("#8FA5A2") // Muted sage
	ColorForegroundBright = lipgloss.Color("#FFFFFF")

	// Border colors
	ColorBorderInactive = lipgloss.Color("#4A5A5C")
	ColorBorderActive   = lipgloss.Color("#4FD1C5") // Teal
	ColorBorderFocused  = lipgloss.Color("#81E6D9") // Light teal

	// Accents
	ColorAccent    = lipgloss.Color("#4FD1C5") // Teal
	ColorSecondary = lipgloss.Color("#A3BFFA") // Periwinkle
	ColorSuccess   = lipgloss.Color("#9AE6B4") // Mint
	ColorWarning   = lipgloss.Color("#FBD38D") // Apricot
	ColorError     = lipgloss.Color("#FEB2B2") // Soft red
	ColorInfo      = lipgloss.Color("#BEE3F8") // Pale blue

	// Confidence bands
	ColorConfidenceHigh = lipgloss.Color("#F56565")
	ColorConfidenceMid  = lipgloss.Color("#ED8936")
	ColorConfidenceLow  = lipgloss.Color("#68D391")
)

// Icons
var (
	IconAnalyze   = "◎"
	IconSymptom   = "◆"
	IconDiagnosis = "✚"
	IconCatalog   = "▦"
	IconRemove    = "✗"
	IconSuccess   = "✓"
	IconError     = "✗"
	IconWarning   = "!"
	IconInfo      = "•"
	IconCursor    = "›"
	IconDot       = "•"
	IconBarFill   = "█"
	IconBarEmpty  = "░"
)

// Base styles
var (
	PanelStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderInactive).
			Padding(0, 1)

	PanelActiveStyle = PanelStyle.Copy().
				BorderForeground(ColorBorderActive)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorForegroundDim).
			Italic(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(ColorForeground)

	TextDimStyle = lipgloss.NewStyle().
			Foreground(ColorForegroundDim)

	TextBoldStyle = lipgloss.NewStyle().
			Foreground(ColorForegroundBright).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	// Symptom tags
	TagStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(ColorBackgroundLighter).
			Padding(0, 1).
			MarginRight(1)

	TagFocusedStyle = TagStyle.Copy().
			Foreground(ColorBackground).
			Background(ColorAccent).
			Bold(true)

	// Result cards
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderInactive).
			Padding(0, 1).
			MarginBottom(1)

	DiseaseStyle = lipgloss.NewStyle().
			Foreground(ColorForegroundBright).
			Bold(true)

	ConfidenceStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// Status bar
	StatusStyle = lipgloss.NewStyle().
			Background(ColorBackgroundDarker).
			Foreground(ColorForeground).
			Padding(0, 1)

	StatusBusyStyle = StatusStyle.Copy().
			Foreground(ColorWarning)

	// Buttons
	ButtonStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(ColorBackgroundLighter).
			Padding(0, 2)

	ButtonBusyStyle = ButtonStyle.Copy().
			Foreground(ColorForegroundDim)

	// Blocking notice
	NoticeStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorError).
			Padding(1, 2).
			Width(60)

	SelectionStyle = lipgloss.NewStyle().
			Background(ColorBackgroundLighter).
			Foreground(ColorSecondary).
			Bold(true)
)

var asciiMode bool

// SetASCII swaps icons and borders for plain ASCII.
func SetASCII(on bool) {
	if !on || asciiMode {
		return
	}
	asciiMode = true

	IconAnalyze = "*"
	IconSymptom = "+"
	IconDiagnosis = "+"
	IconCatalog = "#"
	IconRemove = "x"
	IconSuccess = "v"
	IconError = "x"
	IconCursor = ">"
	IconDot = "*"
	IconBarFill = "#"
	IconBarEmpty = "-"

	PanelStyle = PanelStyle.Copy().Border(lipgloss.NormalBorder())
	PanelActiveStyle = PanelActiveStyle.Copy().Border(lipgloss.NormalBorder())
	CardStyle = CardStyle.Copy().Border(lipgloss.NormalBorder())
	NoticeStyle = NoticeStyle.Copy().Border(lipgloss.NormalBorder())
}

func ASCII() bool {
	return asciiMode
}

// Helper functions
func RenderTitle(icon, text string) string {
	if icon != "" {
		return TitleStyle.Render(icon + " " + text)
	}
	return TitleStyle.Render(text)
}

func RenderPanel(content string, width int, active bool) string {
	style := PanelStyle
	if active {
		style = PanelActiveStyle
	}
	if width > 0 {
		return style.Width(width).Render(content)
	}
	return style.Render(content)
}

func RenderTextDim(text string) string {
	return TextDimStyle.Render(text)
}

// RenderStatus renders a message with the icon and colour for its type.
func RenderStatus(msgType, text string) string {
	icon := IconInfo
	style := InfoStyle

	switch msgType {
	case "success":
		icon = IconSuccess
		style = SuccessStyle
	case "error":
		icon = IconError
		style = ErrorStyle
	case "warning":
		icon = IconWarning
		style = WarningStyle
	}

	return style.Render(icon + " " + text)
}

func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	ch := "─"
	if asciiMode {
		ch = "-"
	}
	return TextDimStyle.Render(strings.Repeat(ch, width))
}

func RenderStatusBar(width int, items ...string) string {
	return StatusStyle.Width(width).Render(strings.Join(items, "  │  "))
}

// ConfidenceColor picks a colour band for a 0-100 confidence value.
func ConfidenceColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 60:
		return ColorConfidenceHigh
	case percent >= 30:
		return ColorConfidenceMid
	default:
		return ColorConfidenceLow
	}
}
