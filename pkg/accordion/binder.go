package accordion

import (
	"fmt"

	"github.com/vanderheijden86/faqview/pkg/model"
)

// Handle groups the visual elements of one item.
type Handle struct {
	Item    Element
	Trigger Element
	Panel   Element
	Icon    Element
}

// Binder mirrors accordion state onto a Surface. Every operation is
// idempotent: applying it twice looks the same as applying it once.
type Binder struct {
	surface Surface
	handles []Handle
}

// NewBinder returns a binder for s with no handles yet.
func NewBinder(s Surface) *Binder {
	return &Binder{surface: s}
}

// Len returns the number of handles built by the last RenderList.
func (b *Binder) Len() int { return len(b.handles) }

// Handle returns the handle at index.
func (b *Binder) Handle(index int) (Handle, error) {
	if err := checkIndex(index, len(b.handles)); err != nil {
		return Handle{}, err
	}
	return b.handles[index], nil
}

// RenderList mounts markup for items and builds one handle per item.
// Previous handles, and with them any marked or expanded visuals, are
// discarded. Items must carry Index == position.
func (b *Binder) RenderList(items []model.Item) error {
	for i, it := range items {
		if it.Index != i {
			return fmt.Errorf("render list: item at position %d has index %d", i, it.Index)
		}
	}

	b.handles = nil
	b.surface.Mount(Markup(items))

	handles := make([]Handle, len(items))
	for i := range items {
		h, err := b.resolve(i)
		if err != nil {
			return fmt.Errorf("render list: %w", err)
		}
		handles[i] = h
	}
	b.handles = handles
	return nil
}

func (b *Binder) resolve(i int) (Handle, error) {
	var h Handle
	targets := []struct {
		id  string
		dst *Element
	}{
		{ItemID(i), &h.Item},
		{TriggerID(i), &h.Trigger},
		{PanelID(i), &h.Panel},
		{IconID(i), &h.Icon},
	}
	for _, t := range targets {
		el, ok := b.surface.Lookup(t.id)
		if !ok {
			return Handle{}, fmt.Errorf("element %q not found", t.id)
		}
		*t.dst = el
	}
	return h, nil
}

// ApplyResetVisual collapses every panel, clears every cursor highlight and
// puts every icon back to the collapsed glyph.
func (b *Binder) ApplyResetVisual() {
	for _, h := range b.handles {
		h.Panel.SetClass(ClassExpanded, false)
		h.Panel.SetClass(ClassCollapsed, true)
		h.Trigger.SetClass(ClassMarked, false)
		h.Icon.SetGlyph(GlyphCollapsed)
	}
}

// ApplyExpandedVisual opens the panel at index.
func (b *Binder) ApplyExpandedVisual(index int) error {
	h, err := b.Handle(index)
	if err != nil {
		return err
	}
	h.Panel.SetClass(ClassCollapsed, false)
	h.Panel.SetClass(ClassExpanded, true)
	h.Icon.SetGlyph(GlyphExpanded)
	return nil
}

// ApplyCursorVisual highlights the trigger at index. No other handle is
// touched; callers reset first.
func (b *Binder) ApplyCursorVisual(index int) error {
	h, err := b.Handle(index)
	if err != nil {
		return err
	}
	h.Trigger.SetClass(ClassMarked, true)
	return nil
}

// Apply paints eff from scratch: reset, then the expanded panel, then the
// cursor highlight.
func (b *Binder) Apply(eff Effect) error {
	b.ApplyResetVisual()
	if eff.Expanded != None {
		if err := b.ApplyExpandedVisual(eff.Expanded); err != nil {
			return err
		}
	}
	if eff.Cursor != None {
		if err := b.ApplyCursorVisual(eff.Cursor); err != nil {
			return err
		}
	}
	return nil
}
