package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background behind crumbs.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme holds the colors and pre-built styles of the panel.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	// Crumb chips. Every crumb style has the same horizontal padding so
	// changing style never changes a crumb's width.
	Crumb         lipgloss.Style
	CrumbDimmed   lipgloss.Style
	CrumbSelected lipgloss.Style
	CrumbHover    lipgloss.Style
	CrumbCollapse lipgloss.Style
	Separator     lipgloss.Style

	// Children list and status line
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	ItemKind     lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style
}

// DefaultTheme returns the Dracula-inspired adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Error:     lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	chip := r.NewStyle().Padding(0, 1)

	t.Crumb = chip.Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})
	t.CrumbDimmed = chip.Foreground(t.Muted)
	t.CrumbSelected = chip.
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true)
	t.CrumbHover = chip.Background(t.Highlight).Foreground(t.Primary)
	t.CrumbCollapse = chip.Foreground(t.Secondary)
	t.Separator = r.NewStyle().Foreground(t.Border)

	t.Item = r.NewStyle().Foreground(t.Subtext).PaddingLeft(2)
	t.ItemSelected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)
	t.ItemKind = r.NewStyle().Foreground(t.Secondary)
	t.Status = r.NewStyle().Foreground(t.Muted)
	t.StatusError = r.NewStyle().Foreground(t.Error).Bold(true)

	return t
}

// ThemeFor builds the theme named by the ui.theme setting. "dark" and
// "light" pin the adaptive colors; anything else follows the terminal.
func ThemeFor(w io.Writer, name string) Theme {
	r := lipgloss.NewRenderer(w)
	switch name {
	case "dark":
		r.SetHasDarkBackground(true)
	case "light":
		r.SetHasDarkBackground(false)
	}
	return DefaultTheme(r)
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
