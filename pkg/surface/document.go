// Package surface provides an in-memory element tree that the accordion
// binder paints on and that front-ends read back to draw the list.
package surface

import (
	"sort"

	"github.com/vanderheijden86/faqview/pkg/accordion"
	"github.com/vanderheijden86/faqview/pkg/model"
)

// Element is a node of the document: a class set plus an icon glyph.
type Element struct {
	id      string
	classes map[string]bool
	glyph   accordion.Glyph
}

func newElement(id string, classes ...string) *Element {
	e := &Element{id: id, classes: make(map[string]bool, len(classes))}
	for _, c := range classes {
		e.classes[c] = true
	}
	return e
}

func (e *Element) ID() string { return e.id }

func (e *Element) SetClass(name string, on bool) {
	if on {
		e.classes[name] = true
		return
	}
	delete(e.classes, name)
}

func (e *Element) HasClass(name string) bool { return e.classes[name] }

func (e *Element) SetGlyph(g accordion.Glyph) { e.glyph = g }

func (e *Element) Glyph() accordion.Glyph { return e.glyph }

// Classes returns the element's classes, sorted.
func (e *Element) Classes() []string {
	out := make([]string, 0, len(e.classes))
	for c := range e.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Document implements accordion.Surface.
type Document struct {
	nodes    []accordion.Node
	elements map[string]*Element
	mounts   int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{elements: make(map[string]*Element)}
}

// Mount replaces the document content with nodes. Fresh elements start
// collapsed with the collapsed glyph, matching the initial markup.
func (d *Document) Mount(nodes []accordion.Node) {
	d.nodes = append([]accordion.Node(nil), nodes...)
	d.elements = make(map[string]*Element, 4*len(nodes))
	d.mounts++

	for _, n := range nodes {
		if n.Kind != accordion.NodeItem {
			continue
		}
		i := n.Item.Index
		d.add(newElement(accordion.ItemID(i)))
		d.add(newElement(accordion.TriggerID(i)))
		d.add(newElement(accordion.PanelID(i), accordion.ClassCollapsed))
		d.add(newElement(accordion.IconID(i)))
	}
}

func (d *Document) add(e *Element) { d.elements[e.id] = e }

// Lookup returns the element with id.
func (d *Document) Lookup(id string) (accordion.Element, bool) {
	e, ok := d.elements[id]
	if !ok {
		return nil, false
	}
	return e, true
}

// Element returns the concrete element with id, or nil.
func (d *Document) Element(id string) *Element {
	return d.elements[id]
}

// Mounts returns how many times Mount has been called.
func (d *Document) Mounts() int { return d.mounts }

// Len returns the number of mounted items (dividers excluded).
func (d *Document) Len() int {
	n := 0
	for _, node := range d.nodes {
		if node.Kind == accordion.NodeItem {
			n++
		}
	}
	return n
}

// Block is a render-ready view of one mounted node.
type Block struct {
	Divider  bool
	Item     model.Item
	Expanded bool
	Marked   bool
	Glyph    accordion.Glyph
}

// Blocks reads the document back in mount order.
func (d *Document) Blocks() []Block {
	blocks := make([]Block, 0, len(d.nodes))
	for _, n := range d.nodes {
		if n.Kind == accordion.NodeDivider {
			blocks = append(blocks, Block{Divider: true})
			continue
		}
		i := n.Item.Index
		b := Block{Item: n.Item}
		if p := d.elements[accordion.PanelID(i)]; p != nil {
			b.Expanded = p.HasClass(accordion.ClassExpanded) && !p.HasClass(accordion.ClassCollapsed)
		}
		if t := d.elements[accordion.TriggerID(i)]; t != nil {
			b.Marked = t.HasClass(accordion.ClassMarked)
		}
		if ic := d.elements[accordion.IconID(i)]; ic != nil {
			b.Glyph = ic.Glyph()
		}
		blocks = append(blocks, b)
	}
	return blocks
}
