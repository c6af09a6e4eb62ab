package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/faqview/pkg/accordion"
	"github.com/vanderheijden86/faqview/pkg/surface"
)

// Glyphs maps the two accordion glyphs to display strings.
type Glyphs struct {
	Collapsed string
	Expanded  string
}

// DefaultGlyphs are the plus/minus icons.
var DefaultGlyphs = Glyphs{Collapsed: "+", Expanded: "−"}

func (g Glyphs) For(glyph accordion.Glyph) string {
	if glyph == accordion.GlyphExpanded {
		return g.Expanded
	}
	return g.Collapsed
}

// AnswerRenderer turns an answer into display lines no wider than width.
type AnswerRenderer func(answer string, width int) []string

// PlainAnswers word-wraps answers without markdown styling.
func PlainAnswers(answer string, width int) []string {
	return wrapPlain(answer, width)
}

// listView is the rendered accordion plus the hit map the mouse handler
// uses: hits[line] is the trigger index drawn on that line, or
// accordion.NoTarget for dividers and answer text.
type listView struct {
	lines       []string
	hits        []int
	triggerLine []int
	panelEnd    []int // last line of each item, answer included
}

func (v listView) content() string {
	return strings.Join(v.lines, "\n")
}

// renderList draws document blocks at width.
func renderList(blocks []surface.Block, width int, theme Theme, glyphs Glyphs, answers AnswerRenderer) listView {
	if width < 8 {
		width = 8
	}
	if answers == nil {
		answers = PlainAnswers
	}

	var v listView
	add := func(line string, hit int) {
		v.lines = append(v.lines, line)
		v.hits = append(v.hits, hit)
	}

	iconWidth := max(runewidth.StringWidth(glyphs.Collapsed), runewidth.StringWidth(glyphs.Expanded))
	textWidth := width - iconWidth - SpaceSM

	for _, b := range blocks {
		if b.Divider {
			add(theme.Divider.Render(strings.Repeat("─", width)), accordion.NoTarget)
			continue
		}

		idx := b.Item.Index
		for len(v.triggerLine) <= idx {
			v.triggerLine = append(v.triggerLine, -1)
			v.panelEnd = append(v.panelEnd, -1)
		}

		iconStyle, textStyle := theme.Icon, theme.Question
		if b.Expanded {
			iconStyle, textStyle = theme.IconOpen, theme.Open
		}
		if b.Marked {
			textStyle = theme.Marked
		}

		icon := iconStyle.Render(padRight(glyphs.For(b.Glyph), iconWidth))
		question := textStyle.Render(padRight(truncate(b.Item.Question, textWidth), textWidth))
		v.triggerLine[idx] = len(v.lines)
		add(lipgloss.JoinHorizontal(lipgloss.Top, " ", icon, " ", question), idx)

		if b.Expanded {
			answerWidth := width - SpaceMD
			for _, l := range answers(b.Item.Answer, answerWidth) {
				add(theme.Answer.Render(l), accordion.NoTarget)
			}
		}
		v.panelEnd[idx] = len(v.lines) - 1
	}
	return v
}
