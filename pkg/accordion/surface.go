package accordion

import (
	"fmt"

	"github.com/vanderheijden86/faqview/pkg/model"
)

// Visual classes toggled by the binder.
const (
	ClassMarked    = "marked"    // trigger under the keyboard cursor
	ClassExpanded  = "expanded"  // open panel
	ClassCollapsed = "collapsed" // closed panel
)

// Glyph is the icon shown next to a question. There are exactly two.
type Glyph int

const (
	GlyphCollapsed Glyph = iota // "plus"
	GlyphExpanded               // "minus"
)

func (g Glyph) String() string {
	if g == GlyphExpanded {
		return "minus"
	}
	return "plus"
}

// NodeKind distinguishes the fragments of a mounted list.
type NodeKind int

const (
	NodeItem NodeKind = iota
	NodeDivider
)

// Node is one fragment of list markup: an item (trigger, panel, icon) or a
// divider between two items.
type Node struct {
	Kind NodeKind
	Item model.Item
}

// Element is an addressable visual element on a Surface.
type Element interface {
	ID() string
	SetClass(name string, on bool)
	HasClass(name string) bool
	SetGlyph(g Glyph)
	Glyph() Glyph
}

// Surface is the rendering substrate the binder drives. Mount replaces the
// whole list content; afterwards every element named by ItemID, TriggerID,
// PanelID and IconID for the mounted items must be resolvable via Lookup.
type Surface interface {
	Mount(nodes []Node)
	Lookup(id string) (Element, bool)
}

// Element id scheme, stable per index.
func ItemID(i int) string    { return fmt.Sprintf("item-%d", i) }
func TriggerID(i int) string { return fmt.Sprintf("trigger-%d", i) }
func PanelID(i int) string   { return fmt.Sprintf("panel-%d", i) }
func IconID(i int) string    { return fmt.Sprintf("icon-%d", i) }

// Markup builds the node list for items: one item node each, with a divider
// between consecutive items and none after the last.
func Markup(items []model.Item) []Node {
	if len(items) == 0 {
		return nil
	}
	nodes := make([]Node, 0, 2*len(items)-1)
	for i, it := range items {
		nodes = append(nodes, Node{Kind: NodeItem, Item: it})
		if i < len(items)-1 {
			nodes = append(nodes, Node{Kind: NodeDivider})
		}
	}
	return nodes
}
