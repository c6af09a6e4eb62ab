package ui

import (
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
// background instead of a down-converted approximation.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// Theme holds the colors and pre-computed styles of the accordion view.
type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Header   lipgloss.Style
	Question lipgloss.Style // collapsed trigger
	Open     lipgloss.Style // trigger of the expanded item
	Marked   lipgloss.Style // trigger under the keyboard cursor
	Icon     lipgloss.Style
	IconOpen lipgloss.Style
	Answer   lipgloss.Style
	Divider  lipgloss.Style
	Error    lipgloss.Style
	Hint     lipgloss.Style
}

// markedBgHex is the cursor row background on TrueColor terminals.
const markedBgHex = "#44475A"

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer:  r,
		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Subtext:   ColorSubtext,
		Border:    ColorBorder,
		Muted:     ColorMuted,
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Question = r.NewStyle().Foreground(ColorText)
	t.Open = r.NewStyle().Foreground(t.Primary).Bold(true)

	// Low-color terminals reverse the row instead of approximating the tint.
	t.Marked = r.NewStyle().Foreground(ColorText).Bold(true)
	if bg := ThemeBg(markedBgHex); bg == (lipgloss.NoColor{}) {
		t.Marked = t.Marked.Reverse(true)
	} else {
		t.Marked = t.Marked.Background(bg)
	}

	t.Icon = r.NewStyle().Foreground(t.Secondary).Bold(true)
	t.IconOpen = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Answer = r.NewStyle().Foreground(t.Subtext).PaddingLeft(SpaceMD)
	t.Divider = r.NewStyle().Foreground(t.Border)
	t.Error = r.NewStyle().Foreground(ColorDanger).Bold(true)
	t.Hint = r.NewStyle().Foreground(t.Muted)

	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
