package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named pair of color tokens.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
}

// Themes are the presets in cycle order. The first is the default.
var Themes = []Theme{
	{Name: "Teal & Orange", Primary: "#14b8a6", Secondary: "#f97316"},
	{Name: "Blue & Purple", Primary: "#3b82f6", Secondary: "#8b5cf6"},
	{Name: "Green & Pink", Primary: "#10b981", Secondary: "#ec4899"},
	{Name: "Red & Yellow", Primary: "#ef4444", Secondary: "#f59e0b"},
	{Name: "Indigo & Rose", Primary: "#6366f1", Secondary: "#f43f5e"},
	{Name: "Cyan & Amber", Primary: "#06b6d4", Secondary: "#f59e0b"},
	{Name: "Gray & Black", Primary: "#374151", Secondary: "#111827"},
}

// DefaultTheme returns the first preset.
func DefaultTheme() Theme { return Themes[0] }

// ThemeByName looks a preset up case-insensitively.
func ThemeByName(name string) (Theme, bool) {
	for _, t := range Themes {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Theme{}, false
}

// NextTheme returns the preset after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return DefaultTheme()
}
