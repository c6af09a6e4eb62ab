package ui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/faqview/pkg/accordion"
	"github.com/vanderheijden86/faqview/pkg/model"
	"github.com/vanderheijden86/faqview/pkg/surface"
)

func threeBlocks() []surface.Block {
	items := model.Items([]model.Question{
		{Question: "What is it?", Answer: "A viewer."},
		{Question: "Why?", Answer: "Because questions pile up and someone has to answer them."},
		{Question: "How?", Answer: "With a terminal."},
	})
	return []surface.Block{
		{Item: items[0], Glyph: accordion.GlyphCollapsed},
		{Divider: true},
		{Item: items[1], Expanded: true, Glyph: accordion.GlyphExpanded},
		{Divider: true},
		{Item: items[2], Marked: true, Glyph: accordion.GlyphCollapsed},
	}
}

func TestRenderListHitMap(t *testing.T) {
	v := renderList(threeBlocks(), 30, TestTheme(), DefaultGlyphs, PlainAnswers)

	if len(v.lines) != len(v.hits) {
		t.Fatalf("lines=%d hits=%d", len(v.lines), len(v.hits))
	}
	for i, want := range []int{0, 1, 2} {
		line := v.triggerLine[i]
		if v.hits[line] != want {
			t.Errorf("trigger %d drawn on line %d which hits %d", i, line, v.hits[line])
		}
	}
	// Divider after the first trigger, answer lines after the second.
	if v.hits[v.triggerLine[0]+1] != accordion.NoTarget {
		t.Error("divider should not be a click target")
	}
	if v.panelEnd[1] <= v.triggerLine[1] {
		t.Fatalf("expanded item has no answer lines: trigger=%d end=%d", v.triggerLine[1], v.panelEnd[1])
	}
	for l := v.triggerLine[1] + 1; l <= v.panelEnd[1]; l++ {
		if v.hits[l] != accordion.NoTarget {
			t.Errorf("answer line %d hits %d", l, v.hits[l])
		}
	}
	if v.panelEnd[0] != v.triggerLine[0] {
		t.Error("collapsed item should end on its trigger line")
	}
}

func TestRenderListGlyphsAndWidth(t *testing.T) {
	const width = 30
	v := renderList(threeBlocks(), width, TestTheme(), DefaultGlyphs, PlainAnswers)

	first := ansi.Strip(v.lines[v.triggerLine[0]])
	open := ansi.Strip(v.lines[v.triggerLine[1]])
	if !strings.HasPrefix(first, " + ") {
		t.Errorf("collapsed trigger = %q", first)
	}
	if !strings.HasPrefix(open, " − ") {
		t.Errorf("expanded trigger = %q", open)
	}
	for i, l := range v.lines {
		if w := ansi.StringWidth(l); w > width {
			t.Errorf("line %d is %d cells wide: %q", i, w, ansi.Strip(l))
		}
	}
}

func TestRenderListCustomGlyphs(t *testing.T) {
	g := Glyphs{Collapsed: "▶", Expanded: "▼"}
	v := renderList(threeBlocks(), 40, TestTheme(), g, PlainAnswers)

	if got := ansi.Strip(v.lines[v.triggerLine[1]]); !strings.Contains(got, "▼") {
		t.Errorf("expanded glyph missing: %q", got)
	}
	if got := ansi.Strip(v.lines[v.triggerLine[2]]); !strings.Contains(got, "▶") {
		t.Errorf("collapsed glyph missing: %q", got)
	}
}

func TestRenderListUsesAnswerRenderer(t *testing.T) {
	var gotWidth int
	answers := func(answer string, width int) []string {
		gotWidth = width
		return []string{"<" + answer + ">"}
	}
	v := renderList(threeBlocks(), 40, TestTheme(), DefaultGlyphs, answers)

	if gotWidth != 40-SpaceMD {
		t.Errorf("answer width = %d, want %d", gotWidth, 40-SpaceMD)
	}
	if !strings.Contains(ansi.Strip(v.content()), "<Because questions") {
		t.Errorf("custom answer not drawn:\n%s", ansi.Strip(v.content()))
	}
}

func TestRenderListEmpty(t *testing.T) {
	v := renderList(nil, 40, TestTheme(), DefaultGlyphs, nil)
	if len(v.lines) != 0 || v.content() != "" {
		t.Errorf("expected empty view, got %q", v.content())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "zero max", input: "hello", maxLen: 0, want: ""},
		{name: "fits", input: "hello", maxLen: 10, want: "hello"},
		{name: "ellipsis", input: "hello world", maxLen: 6, want: "hello…"},
		{name: "wide runes", input: "日本語タイトル", maxLen: 5, want: "日本…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Fatalf("truncate(%q, %d) = %q; want %q", tt.input, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("truncate output is not valid UTF-8: %q", got)
			}
			if w := runewidth.StringWidth(got); w > tt.maxLen {
				t.Fatalf("truncate output is %d cells; max %d", w, tt.maxLen)
			}
		})
	}
}

func TestWrapPlain(t *testing.T) {
	got := wrapPlain("the quick brown fox jumps", 10)
	want := []string{"the quick", "brown fox", "jumps"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("wrapPlain = %q, want %q", got, want)
	}

	got = wrapPlain("line one\n\nline two", 20)
	if len(got) != 3 || got[1] != "" {
		t.Errorf("paragraph breaks not kept: %q", got)
	}

	got = wrapPlain("abcdefghijkl", 5)
	if strings.Join(got, "|") != "abcde|fghij|kl" {
		t.Errorf("long word split = %q", got)
	}

	// A rune wider than the line still makes progress.
	got = wrapPlain("日本", 1)
	if len(got) != 2 {
		t.Errorf("wide runes = %q", got)
	}
}

func TestTrimBlankLines(t *testing.T) {
	in := []string{"", "  ", "\x1b[0m \x1b[0m", "a", "", "b", "   "}
	got := trimBlankLines(in)
	if strings.Join(got, "|") != "a||b" {
		t.Errorf("trimBlankLines = %q", got)
	}
}

func TestMarkdownRendererPlainStyle(t *testing.T) {
	r := NewMarkdownRenderer("notty")

	lines := r.Render("Use **bold** and a list:\n\n- one\n- two", 40)
	text := ansi.Strip(strings.Join(lines, "\n"))
	for _, want := range []string{"bold", "one", "two"} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered markdown missing %q:\n%s", want, text)
		}
	}

	// Cached result is identical.
	again := r.Render("Use **bold** and a list:\n\n- one\n- two", 40)
	if strings.Join(again, "\n") != strings.Join(lines, "\n") {
		t.Error("cached render differs")
	}
	if got := r.Render("", 40); got != nil {
		t.Errorf("empty answer rendered as %q", got)
	}
}
