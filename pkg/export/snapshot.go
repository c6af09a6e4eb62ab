// Package export writes static pictures of the accordion as it is currently
// painted, for documentation and bug reports.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/faqview/pkg/surface"
)

// SnapshotOptions controls snapshot export.
type SnapshotOptions struct {
	Path    string // Output path; format inferred from extension when Format empty
	Format  string // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title   string // Optional heading; defaults to "Frequently asked questions"
	Columns int    // Wrap width in characters; defaults to 72
}

// Resolve fills in Format from the Path extension and appends ".svg" to a
// path without one. The returned options are what Snapshot will write.
func Resolve(opts SnapshotOptions) (SnapshotOptions, error) {
	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return opts, fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return opts, fmt.Errorf("output path is required")
	}
	opts.Format = format
	return opts, nil
}

// Snapshot renders doc's current state to an SVG or PNG file. Open items show
// their answers and the item under the keyboard cursor is highlighted.
func Snapshot(doc *surface.Document, opts SnapshotOptions) error {
	if doc == nil || doc.Len() == 0 {
		return fmt.Errorf("no questions to export")
	}
	opts, err := Resolve(opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildLayout(doc.Blocks(), opts)

	switch opts.Format {
	case "svg":
		return renderSVG(opts.Path, layout)
	default:
		return renderPNG(opts.Path, layout)
	}
}

// --- layout computation ----------------------------------------------------

const (
	charW        = 7.0 // basicfont.Face7x13 advance
	padding      = 24.0
	headerHeight = 56.0
	triggerH     = 30.0
	answerLineH  = 18.0
	answerGap    = 8.0
	iconSize     = 12.0
	textInset    = 40.0
)

type rowKind int

const (
	rowTrigger rowKind = iota
	rowAnswer
	rowDivider
)

type layoutRow struct {
	Kind     rowKind
	Text     string
	Y        float64 // top of the row
	H        float64
	Expanded bool
	Marked   bool
}

type layoutResult struct {
	Rows   []layoutRow
	Title  string
	Width  int
	Height int
}

func buildLayout(blocks []surface.Block, opts SnapshotOptions) layoutResult {
	cols := opts.Columns
	if cols <= 0 {
		cols = 72
	}
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Frequently asked questions"
	}

	width := int(padding*2 + textInset + float64(cols)*charW)
	y := padding + headerHeight

	var rows []layoutRow
	for _, b := range blocks {
		if b.Divider {
			rows = append(rows, layoutRow{Kind: rowDivider, Y: y, H: 1})
			y++
			continue
		}
		rows = append(rows, layoutRow{
			Kind:     rowTrigger,
			Text:     truncate(b.Item.Question, cols),
			Y:        y,
			H:        triggerH,
			Expanded: b.Expanded,
			Marked:   b.Marked,
		})
		y += triggerH
		if !b.Expanded {
			continue
		}
		for _, line := range strings.Split(wordwrap.String(b.Item.Answer, cols), "\n") {
			rows = append(rows, layoutRow{Kind: rowAnswer, Text: truncate(line, cols), Y: y, H: answerLineH})
			y += answerLineH
		}
		y += answerGap
	}

	return layoutResult{
		Rows:   rows,
		Title:  title,
		Width:  width,
		Height: int(y + padding),
	}
}

// --- rendering -------------------------------------------------------------

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorMarkedBG = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	colorDivider  = color.RGBA{0xd0, 0xd4, 0xda, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorOpen     = color.RGBA{0x6b, 0x47, 0xd9, 0xff}
	colorSubtle   = color.RGBA{0x55, 0x55, 0x55, 0xff}
)

func renderPNG(path string, layout layoutResult) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(padding/2, padding/2, float64(layout.Width)-padding, headerHeight, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Title, padding, padding/2+headerHeight/2, 0, 0.5)

	for _, r := range layout.Rows {
		mid := r.Y + r.H/2
		switch r.Kind {
		case rowDivider:
			dc.SetColor(colorDivider)
			dc.SetLineWidth(1)
			dc.DrawLine(padding, r.Y, float64(layout.Width)-padding, r.Y)
			dc.Stroke()
		case rowTrigger:
			if r.Marked {
				dc.SetColor(colorMarkedBG)
				dc.DrawRectangle(padding/2, r.Y, float64(layout.Width)-padding, r.H)
				dc.Fill()
			}
			drawIcon(dc, padding+iconSize/2, mid, r.Expanded)
			dc.SetColor(colorText)
			if r.Expanded {
				dc.SetColor(colorOpen)
			}
			dc.DrawStringAnchored(r.Text, padding+textInset/2+iconSize, mid, 0, 0.5)
		case rowAnswer:
			dc.SetColor(colorSubtle)
			dc.DrawStringAnchored(r.Text, padding+textInset, mid, 0, 0.5)
		}
	}

	return dc.SavePNG(path)
}

// drawIcon strokes a plus, or a minus when open, centred on (cx, cy).
func drawIcon(dc *gg.Context, cx, cy float64, open bool) {
	half := iconSize / 2
	dc.SetColor(colorSubtle)
	if open {
		dc.SetColor(colorOpen)
	}
	dc.SetLineWidth(2)
	dc.DrawLine(cx-half, cy, cx+half, cy)
	dc.Stroke()
	if !open {
		dc.DrawLine(cx, cy-half, cx, cy+half)
		dc.Stroke()
	}
}

func renderSVG(path string, layout layoutResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, layout)
}

func renderSVGToWriter(w io.Writer, layout layoutResult) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(int(padding/2), int(padding/2), layout.Width-int(padding), int(headerHeight), 10, 10,
		fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(int(padding), int(padding/2+headerHeight/2)+5, layout.Title,
		fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))

	for _, r := range layout.Rows {
		y := int(r.Y)
		mid := int(r.Y + r.H/2)
		switch r.Kind {
		case rowDivider:
			canvas.Line(int(padding), y, layout.Width-int(padding), y,
				fmt.Sprintf("stroke:%s;stroke-width:1", css(colorDivider)))
		case rowTrigger:
			if r.Marked {
				canvas.Rect(int(padding/2), y, layout.Width-int(padding), int(r.H),
					`class="marked"`, fmt.Sprintf("fill:%s", css(colorMarkedBG)))
			}
			drawIconSVG(canvas, int(padding+iconSize/2), mid, r.Expanded)
			fill, weight := colorText, "normal"
			if r.Expanded {
				fill, weight = colorOpen, "bold"
			}
			canvas.Text(int(padding+textInset/2+iconSize), mid+5, r.Text,
				fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:%s", css(fill), weight))
		case rowAnswer:
			canvas.Text(int(padding+textInset), mid+4, r.Text,
				fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
		}
	}

	canvas.End()
	return nil
}

func drawIconSVG(canvas *svg.SVG, cx, cy int, open bool) {
	half := int(iconSize / 2)
	stroke := colorSubtle
	if open {
		stroke = colorOpen
	}
	style := fmt.Sprintf("stroke:%s;stroke-width:2", css(stroke))
	canvas.Line(cx-half, cy, cx+half, cy, style)
	if !open {
		canvas.Line(cx, cy-half, cx, cy+half, style)
	}
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
