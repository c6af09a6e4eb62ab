package accordion

import (
	"fmt"

	"github.com/vanderheijden86/faqview/pkg/debug"
	"github.com/vanderheijden86/faqview/pkg/metrics"
	"github.com/vanderheijden86/faqview/pkg/model"
)

// Option configures a Controller.
type Option func(*Controller)

// WithToggle makes a click on the open item's trigger collapse it instead of
// leaving it open.
func WithToggle(on bool) Option {
	return func(c *Controller) {
		c.toggle = on
	}
}

// Controller owns one State and one Binder and runs every input through
// Resolve, the state machine and the binder, in that order. It is not safe
// for concurrent use; the front-end calls it from a single event loop.
type Controller struct {
	state  *State
	binder *Binder
	items  []model.Item
	toggle bool
}

// NewController returns an Empty controller painting on s.
func NewController(s Surface, opts ...Option) *Controller {
	c := &Controller{
		state:  NewState(),
		binder: NewBinder(s),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load renders items and resets the state to Idle. It is also the reload
// path: everything from the previous load is discarded.
func (c *Controller) Load(items []model.Item) error {
	if err := c.binder.RenderList(items); err != nil {
		return err
	}
	if err := c.state.Load(len(items)); err != nil {
		return err
	}
	c.items = items
	c.binder.ApplyResetVisual()
	debug.Log("accordion: loaded %d items", len(items))
	return nil
}

// State returns a copy of the current state.
func (c *Controller) State() State { return *c.state }

// Items returns the loaded items.
func (c *Controller) Items() []model.Item { return c.items }

// Toggle reports whether toggle-on-reclick is enabled.
func (c *Controller) Toggle() bool { return c.toggle }

// ExpandedItem returns the open item, if any.
func (c *Controller) ExpandedItem() (model.Item, bool) {
	i := c.state.Expanded()
	if i == None || i >= len(c.items) {
		return model.Item{}, false
	}
	return c.items[i], true
}

// Dispatch resolves ev and applies it. The resolved action is returned so the
// caller can honor PreventDefault.
func (c *Controller) Dispatch(ev Event) (Action, error) {
	defer metrics.Timer(metrics.Dispatch)()
	action := Resolve(ev)

	var (
		eff Effect
		err error
	)
	switch action.Kind {
	case ActionNone:
		return action, nil
	case ActionReset:
		eff = c.state.Reset()
	case ActionActivate:
		eff, err = c.click(action.Index)
	case ActionMoveCursor:
		eff, err = c.state.MoveCursor(action.Direction)
	case ActionConfirm:
		eff, err = c.state.ConfirmCursor()
	default:
		return action, fmt.Errorf("dispatch: unhandled action %v", action.Kind)
	}
	if err != nil {
		return action, err
	}

	debug.Log("accordion: %s -> expanded=%d cursor=%d changed=%v",
		action.Kind, eff.Expanded, eff.Cursor, eff.Changed)

	if !eff.Changed {
		return action, nil
	}
	return action, c.binder.Apply(eff)
}

// click handles a click on the trigger at index: the list is reset, then the
// item is activated. With toggle enabled, clicking the open item only resets.
func (c *Controller) click(index int) (Effect, error) {
	if err := c.state.RecordPointer(index); err != nil {
		return Effect{}, err
	}
	if c.toggle && index == c.state.Expanded() {
		return c.state.Collapse(index)
	}
	c.state.Reset()
	eff, err := c.state.Activate(index)
	if err != nil {
		return eff, err
	}
	eff.Changed = true
	return eff, nil
}
