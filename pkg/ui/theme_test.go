package ui

import (
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

func TestDefaultTheme(t *testing.T) {
	renderer := lipgloss.NewRenderer(nil)
	theme := DefaultTheme(renderer)

	if theme.Renderer != renderer {
		t.Error("DefaultTheme renderer mismatch")
	}
	if isColorEmpty(theme.Primary) {
		t.Error("DefaultTheme Primary color is empty")
	}
	if isColorEmpty(theme.Muted) {
		t.Error("DefaultTheme Muted color is empty")
	}
}

func isColorEmpty(c lipgloss.AdaptiveColor) bool {
	return c.Light == "" && c.Dark == ""
}

func TestThemeStylesDistinguishState(t *testing.T) {
	theme := DefaultTheme(lipgloss.NewRenderer(nil))

	if theme.Open.GetBold() == theme.Question.GetBold() &&
		theme.Open.GetForeground() == theme.Question.GetForeground() {
		t.Error("open question should look different from a collapsed one")
	}
	if theme.Answer.GetPaddingLeft() != SpaceMD {
		t.Errorf("answer indent = %d, want %d", theme.Answer.GetPaddingLeft(), SpaceMD)
	}
}

func TestThemeBgByProfile(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	tests := []struct {
		profile colorprofile.Profile
		noColor bool
	}{
		{colorprofile.TrueColor, false},
		{colorprofile.ANSI256, true},
		{colorprofile.ANSI, true},
		{colorprofile.NoTTY, true},
	}
	for _, tt := range tests {
		TermProfile = tt.profile
		_, isNo := ThemeBg(markedBgHex).(lipgloss.NoColor)
		if isNo != tt.noColor {
			t.Errorf("profile %v: ThemeBg NoColor = %v, want %v", tt.profile, isNo, tt.noColor)
		}
	}
}

func TestMarkedStyleFollowsProfile(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	TermProfile = colorprofile.ANSI
	if !DefaultTheme(lipgloss.NewRenderer(nil)).Marked.GetReverse() {
		t.Error("low-color terminals should reverse the cursor row")
	}

	TermProfile = colorprofile.TrueColor
	m := DefaultTheme(lipgloss.NewRenderer(nil)).Marked
	if m.GetReverse() {
		t.Error("TrueColor terminals should tint the cursor row, not reverse it")
	}
	if _, ok := m.GetBackground().(lipgloss.NoColor); ok {
		t.Error("TrueColor cursor row has no background")
	}
}
