package accordion

// NoTarget is the click target for a click inside the list that did not land
// on a trigger.
const NoTarget = -1

// EventKind is the raw input channel.
type EventKind int

const (
	EventNone EventKind = iota
	EventClick
	EventKey
)

// Key is a key press already reduced to what the accordion cares about.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyEnter
)

// Event is a raw input event independent of the rendering substrate. For
// clicks, Target is the index of the trigger hit or NoTarget.
type Event struct {
	Kind   EventKind
	Target int
	Key    Key
}

// Click builds a click event on target (an item index or NoTarget).
func Click(target int) Event {
	return Event{Kind: EventClick, Target: target}
}

// KeyPress builds a key event.
func KeyPress(k Key) Event {
	return Event{Kind: EventKey, Target: NoTarget, Key: k}
}

// ActionKind is the semantic action an event resolves to.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionReset
	ActionActivate
	ActionMoveCursor
	ActionConfirm
)

func (k ActionKind) String() string {
	switch k {
	case ActionReset:
		return "reset"
	case ActionActivate:
		return "activate"
	case ActionMoveCursor:
		return "move-cursor"
	case ActionConfirm:
		return "confirm"
	default:
		return "none"
	}
}

// Action is the result of resolving an Event. PreventDefault asks the
// front-end to swallow the key instead of scrolling.
type Action struct {
	Kind           ActionKind
	Index          int
	Direction      Direction
	PreventDefault bool
}

// Resolve maps an event to an action. It has no side effects.
//
// Any click in the list resets; a click on a trigger additionally activates
// that item. Up and Down move the cursor and suppress scrolling, Enter
// confirms, and every other key is ignored.
func Resolve(ev Event) Action {
	switch ev.Kind {
	case EventClick:
		if ev.Target >= 0 {
			return Action{Kind: ActionActivate, Index: ev.Target}
		}
		return Action{Kind: ActionReset, Index: None}
	case EventKey:
		switch ev.Key {
		case KeyUp:
			return Action{Kind: ActionMoveCursor, Index: None, Direction: Previous, PreventDefault: true}
		case KeyDown:
			return Action{Kind: ActionMoveCursor, Index: None, Direction: Next, PreventDefault: true}
		case KeyEnter:
			return Action{Kind: ActionConfirm, Index: None}
		}
	}
	return Action{Kind: ActionNone, Index: None}
}
