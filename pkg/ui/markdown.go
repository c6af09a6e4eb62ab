package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/faqview/pkg/debug"
	"github.com/vanderheijden86/faqview/pkg/metrics"
)

// MarkdownRenderer renders answers with glamour at a given wrap width.
// Renderers are built lazily per width and cached; glamour renderers are
// costly to construct.
type MarkdownRenderer struct {
	style string // glamour standard style; "" = auto-detect

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
	cache     map[mdKey]string
}

type mdKey struct {
	width int
	text  string
}

// NewMarkdownRenderer returns a renderer using the named glamour style
// ("dark", "light", "notty", ...). An empty style auto-detects.
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	return &MarkdownRenderer{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
		cache:     make(map[mdKey]string),
	}
}

func (r *MarkdownRenderer) renderer(width int) (*glamour.TermRenderer, error) {
	if tr, ok := r.renderers[width]; ok {
		return tr, nil
	}
	styleOpt := glamour.WithAutoStyle()
	if r.style != "" {
		styleOpt = glamour.WithStandardStyle(r.style)
	}
	tr, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.renderers[width] = tr
	return tr, nil
}

// Render returns text as styled lines no wider than width. On a glamour
// failure the text is word-wrapped as plain text.
func (r *MarkdownRenderer) Render(text string, width int) []string {
	if width < 10 {
		width = 10
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := mdKey{width: width, text: text}
	if out, ok := r.cache[key]; ok {
		if out == "" {
			return nil
		}
		return strings.Split(out, "\n")
	}

	defer metrics.Timer(metrics.MarkdownRender)()
	tr, err := r.renderer(width)
	if err != nil {
		debug.Log("markdown: renderer for width %d: %v", width, err)
		return wrapPlain(text, width)
	}
	out, err := tr.Render(text)
	if err != nil {
		debug.Log("markdown: render failed: %v", err)
		return wrapPlain(text, width)
	}
	lines := trimBlankLines(strings.Split(strings.TrimRight(out, "\n"), "\n"))
	r.cache[key] = strings.Join(lines, "\n")
	if len(lines) == 0 {
		return nil
	}
	return lines
}
