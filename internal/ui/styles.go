package ui

import "github.com/charmbracelet/lipgloss"

// Colors that do not follow the theme.
var (
	ColorRed     = lipgloss.Color("#FF5555")
	ColorGreen   = lipgloss.Color("#22C55E")
	ColorYellow  = lipgloss.Color("#FACC15")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
)

// Base styles reused by UI components.
var (
	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	PlayingDotStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	IdleDotStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	TextStyle = lipgloss.NewStyle()

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(ColorDimGray)
)

// Styles are the theme-dependent styles. Rebuild them when the theme changes.
type Styles struct {
	Theme Theme

	Title            lipgloss.Style
	PanelTitleActive lipgloss.Style
	Accent           lipgloss.Style
	FooterKey        lipgloss.Style
	ProgressFull     lipgloss.Style
	Spinner          lipgloss.Style
	UserLabel        lipgloss.Style
	AssistantLabel   lipgloss.Style
	Badge            lipgloss.Style
}

// NewStyles derives the styles for t.
func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		PanelTitleActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Accent: lipgloss.NewStyle().
			Foreground(t.Secondary),
		FooterKey: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),
		ProgressFull: lipgloss.NewStyle().
			Foreground(t.Primary),
		Spinner: lipgloss.NewStyle().
			Foreground(t.Secondary),
		UserLabel: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
		AssistantLabel: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),
		Badge: lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(t.Primary).
			Padding(0, 1),
	}
}
