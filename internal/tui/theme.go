package tui

import (
	"github.com/charmbracelet/lipgloss"
)

type ThemeName string

const (
	ThemeLight ThemeName = "light"
	ThemeDark  ThemeName = "dark"
)

type Theme struct {
	Name ThemeName

	// Colors
	TextPrimary lipgloss.Color
	TextMuted   lipgloss.Color
	TextFaint   lipgloss.Color

	Accent  lipgloss.Color
	Success lipgloss.Color
	Warn    lipgloss.Color
	Error   lipgloss.Color
	Border  lipgloss.Color

	// Styles
	TopBar      lipgloss.Style
	TopBarTitle lipgloss.Style
	TopBarBadge lipgloss.Style

	Pane      lipgloss.Style
	PaneTitle lipgloss.Style
	Footer    lipgloss.Style
	InputBox  lipgloss.Style
	Spinner   lipgloss.Style

	RoleYou lipgloss.Style
	RoleAI  lipgloss.Style
	RoleSys lipgloss.Style
	RoleErr lipgloss.Style
}

// NewTheme builds the palette for name, defaulting to dark for anything
// unrecognized.
func NewTheme(name ThemeName) Theme {
	switch name {
	case ThemeLight:
		return newLightTheme()
	default:
		return newDarkTheme()
	}
}

// Toggle flips between the two themes.
func (n ThemeName) Toggle() ThemeName {
	if n == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func newDarkTheme() Theme {
	t := Theme{
		Name:        ThemeDark,
		TextPrimary: lipgloss.Color("#f2f2f2"),
		TextMuted:   lipgloss.Color("#c7c7c7"),
		TextFaint:   lipgloss.Color("#9aa0a6"),

		Accent:  lipgloss.Color("#7aa2ff"),
		Success: lipgloss.Color("#46d1b7"),
		Warn:    lipgloss.Color("#f4b27d"),
		Error:   lipgloss.Color("#ff7a7a"),
		Border:  lipgloss.Color("#3a3a3a"),
	}
	return t.buildStyles()
}

func newLightTheme() Theme {
	t := Theme{
		Name:        ThemeLight,
		TextPrimary: lipgloss.Color("#1d2433"),
		TextMuted:   lipgloss.Color("#4a5568"),
		TextFaint:   lipgloss.Color("#718096"),

		Accent:  lipgloss.Color("#1f6feb"),
		Success: lipgloss.Color("#0f766e"),
		Warn:    lipgloss.Color("#b45309"),
		Error:   lipgloss.Color("#b42318"),
		Border:  lipgloss.Color("#cbd5e0"),
	}
	return t.buildStyles()
}

func (t Theme) buildStyles() Theme {
	t.TopBar = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TopBarTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.TopBarBadge = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)

	t.Pane = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.PaneTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextMuted)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextFaint)
	t.InputBox = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.Spinner = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)

	t.RoleYou = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.RoleAI = lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	t.RoleSys = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.RoleErr = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
	return t
}
