// Package ui holds the lipgloss style sets and the chart rendering
// helpers for the monitor TUI.
package ui

import "github.com/charmbracelet/lipgloss"

// Theme names as persisted in the settings store.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme bundles the style set for one palette.
type Theme struct {
	Name string

	Title      lipgloss.Style
	Dim        lipgloss.Style
	Divider    lipgloss.Style
	PanelTitle lipgloss.Style
	PanelFocus lipgloss.Style
	Selected   lipgloss.Style

	OK     lipgloss.Style
	Warn   lipgloss.Style
	Danger lipgloss.Style

	RiskLow      lipgloss.Style
	RiskMedium   lipgloss.Style
	RiskCritical lipgloss.Style

	UserMsg      lipgloss.Style
	AssistantMsg lipgloss.Style
	Typing       lipgloss.Style
	Timestamp    lipgloss.Style

	Error     lipgloss.Style
	ErrorText lipgloss.Style
	FooterKey lipgloss.Style
	FooterDsc lipgloss.Style
	Spinner   lipgloss.Style
	Spark     lipgloss.Style
	LiveBadge lipgloss.Style
}

// Dark is the default palette.
func Dark() Theme {
	var (
		red     = lipgloss.Color("#FF5555")
		green   = lipgloss.Color("#50FA7B")
		yellow  = lipgloss.Color("#F1FA8C")
		orange  = lipgloss.Color("#FFB86C")
		cyan    = lipgloss.Color("#8BE9FD")
		gray    = lipgloss.Color("#666666")
		dimGray = lipgloss.Color("#444444")
		white   = lipgloss.Color("#F8F8F2")
		magenta = lipgloss.Color("#FF79C6")
	)

	return Theme{
		Name: ThemeDark,

		Title:      lipgloss.NewStyle().Bold(true).Foreground(cyan),
		Dim:        lipgloss.NewStyle().Foreground(gray),
		Divider:    lipgloss.NewStyle().Foreground(dimGray),
		PanelTitle: lipgloss.NewStyle().Bold(true).Foreground(white),
		PanelFocus: lipgloss.NewStyle().Bold(true).Foreground(cyan),
		Selected:   lipgloss.NewStyle().Bold(true).Foreground(cyan),

		OK:     lipgloss.NewStyle().Foreground(green),
		Warn:   lipgloss.NewStyle().Bold(true).Foreground(orange),
		Danger: lipgloss.NewStyle().Bold(true).Foreground(red),

		RiskLow:      lipgloss.NewStyle().Bold(true).Foreground(green),
		RiskMedium:   lipgloss.NewStyle().Bold(true).Foreground(yellow),
		RiskCritical: lipgloss.NewStyle().Bold(true).Foreground(red).Blink(true),

		UserMsg:      lipgloss.NewStyle().Foreground(white),
		AssistantMsg: lipgloss.NewStyle().Foreground(cyan),
		Typing:       lipgloss.NewStyle().Foreground(yellow),
		Timestamp:    lipgloss.NewStyle().Foreground(gray),

		Error:     lipgloss.NewStyle().Bold(true).Foreground(red),
		ErrorText: lipgloss.NewStyle().Foreground(red),
		FooterKey: lipgloss.NewStyle().Bold(true).Foreground(yellow),
		FooterDsc: lipgloss.NewStyle().Foreground(gray),
		Spinner:   lipgloss.NewStyle().Foreground(magenta),
		Spark:     lipgloss.NewStyle().Foreground(cyan),
		LiveBadge: lipgloss.NewStyle().Bold(true).Foreground(green),
	}
}

// Light adjusts foregrounds for light terminal backgrounds.
func Light() Theme {
	var (
		red    = lipgloss.Color("#C62828")
		green  = lipgloss.Color("#2E7D32")
		yellow = lipgloss.Color("#B58900")
		orange = lipgloss.Color("#D2691E")
		blue   = lipgloss.Color("#1565C0")
		gray   = lipgloss.Color("#888888")
		black  = lipgloss.Color("#1A1A1A")
	)

	t := Dark()
	t.Name = ThemeLight
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(blue)
	t.Dim = lipgloss.NewStyle().Foreground(gray)
	t.Divider = lipgloss.NewStyle().Foreground(gray)
	t.PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(black)
	t.PanelFocus = lipgloss.NewStyle().Bold(true).Foreground(blue)
	t.Selected = lipgloss.NewStyle().Bold(true).Foreground(blue)
	t.OK = lipgloss.NewStyle().Foreground(green)
	t.Warn = lipgloss.NewStyle().Bold(true).Foreground(orange)
	t.Danger = lipgloss.NewStyle().Bold(true).Foreground(red)
	t.RiskLow = lipgloss.NewStyle().Bold(true).Foreground(green)
	t.RiskMedium = lipgloss.NewStyle().Bold(true).Foreground(yellow)
	t.RiskCritical = lipgloss.NewStyle().Bold(true).Foreground(red).Blink(true)
	t.UserMsg = lipgloss.NewStyle().Foreground(black)
	t.AssistantMsg = lipgloss.NewStyle().Foreground(blue)
	t.Typing = lipgloss.NewStyle().Foreground(yellow)
	t.Timestamp = lipgloss.NewStyle().Foreground(gray)
	t.Error = lipgloss.NewStyle().Bold(true).Foreground(red)
	t.ErrorText = lipgloss.NewStyle().Foreground(red)
	t.FooterKey = lipgloss.NewStyle().Bold(true).Foreground(blue)
	t.FooterDsc = lipgloss.NewStyle().Foreground(gray)
	t.Spark = lipgloss.NewStyle().Foreground(blue)
	t.LiveBadge = lipgloss.NewStyle().Bold(true).Foreground(green)
	return t
}

// ByName returns the theme for a persisted name, defaulting to dark.
func ByName(name string) Theme {
	if name == ThemeLight {
		return Light()
	}
	return Dark()
}
