// Package accordion implements the single-panel accordion used by faqview:
// a pure state machine deciding which item is expanded and which one carries
// the keyboard cursor, a binder that mirrors that state onto a Surface, and
// an input adapter that turns clicks and key presses into actions.
package accordion

import "fmt"

// None marks an absent index (nothing expanded, no cursor, no pointer).
const None = -1

// Direction is a keyboard cursor movement.
type Direction int

const (
	Next Direction = iota
	Previous
)

func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Previous:
		return "previous"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Phase is the coarse state of the machine.
type Phase int

const (
	PhaseEmpty    Phase = iota // no Load yet
	PhaseIdle                  // loaded, nothing expanded
	PhaseExpanded              // loaded, one panel open
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseIdle:
		return "idle"
	case PhaseExpanded:
		return "expanded"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Effect describes the visual target after a transition. When Changed is
// false the transition was a no-op and nothing needs repainting; Expanded and
// Cursor still report the current values.
type Effect struct {
	Changed  bool
	Expanded int
	Cursor   int
}

// State is the accordion state machine. The zero value is Empty and ready for
// Load.
//
// Expansion and cursor are independent: Activate never moves the cursor, and
// the only way a cursor move touches expansion is the unconditional reset
// every move performs.
type State struct {
	loaded   bool
	count    int
	expanded int
	cursor   int
	pointer  int
}

// NewState returns an Empty state.
func NewState() *State {
	return &State{expanded: None, cursor: None, pointer: None}
}

// Load fixes the item count and clears expansion, cursor and pointer.
// A negative count fails with *InvalidCountError and leaves the state as it was.
func (s *State) Load(itemCount int) error {
	if itemCount < 0 {
		return &InvalidCountError{Count: itemCount}
	}
	s.loaded = true
	s.count = itemCount
	s.expanded = None
	s.cursor = None
	s.pointer = None
	return nil
}

// Loaded reports whether Load has succeeded at least once.
func (s State) Loaded() bool { return s.loaded }

// Count returns the number of items, 0 while Empty.
func (s State) Count() int { return s.count }

// Expanded returns the open index or None.
func (s State) Expanded() int {
	if !s.loaded {
		return None
	}
	return s.expanded
}

// Cursor returns the keyboard cursor or None.
func (s State) Cursor() int {
	if !s.loaded {
		return None
	}
	return s.cursor
}

// Pointer returns the last index activated by the pointer channel or None.
func (s State) Pointer() int {
	if !s.loaded {
		return None
	}
	return s.pointer
}

// Phase returns the coarse machine state.
func (s State) Phase() Phase {
	switch {
	case !s.loaded:
		return PhaseEmpty
	case s.expanded != None:
		return PhaseExpanded
	default:
		return PhaseIdle
	}
}

// Activate makes index the expanded item. Re-activating the open item is a
// no-op; it does not close it. Any other index supersedes the open one, so
// the returned effect means "collapse all, then expand index".
func (s *State) Activate(index int) (Effect, error) {
	if err := checkIndex(index, s.count); err != nil {
		return s.effect(false), err
	}
	if index == s.expanded {
		return s.effect(false), nil
	}
	s.expanded = index
	return s.effect(true), nil
}

// Collapse closes index if and only if it is the expanded one. It backs the
// optional toggle-on-reclick behavior.
func (s *State) Collapse(index int) (Effect, error) {
	if err := checkIndex(index, s.count); err != nil {
		return s.effect(false), err
	}
	if index != s.expanded {
		return s.effect(false), nil
	}
	s.expanded = None
	return s.effect(true), nil
}

// MoveCursor moves the keyboard cursor circularly. From no cursor, Next lands
// on the first item and Previous on the last. Every move clears expansion
// first, whether or not the cursor lands on the open item.
func (s *State) MoveCursor(dir Direction) (Effect, error) {
	if !s.loaded {
		return s.effect(false), ErrNotLoaded
	}
	if dir != Next && dir != Previous {
		return s.effect(false), fmt.Errorf("move cursor: unknown direction %v", dir)
	}

	s.expanded = None
	if s.count == 0 {
		return s.effect(true), nil
	}

	switch {
	case s.cursor == None && dir == Next:
		s.cursor = 0
	case s.cursor == None:
		s.cursor = s.count - 1
	case dir == Next:
		s.cursor = (s.cursor + 1) % s.count
	default:
		s.cursor = (s.cursor - 1 + s.count) % s.count
	}
	return s.effect(true), nil
}

// ConfirmCursor activates the item under the cursor. Without a cursor it is a
// defined no-op, not an error.
func (s *State) ConfirmCursor() (Effect, error) {
	if s.Cursor() == None {
		return s.effect(false), nil
	}
	return s.Activate(s.cursor)
}

// Reset closes any open panel. The cursor is left alone. Reset is idempotent.
func (s *State) Reset() Effect {
	s.expanded = None
	return s.effect(true)
}

// RecordPointer remembers index as the last pointer-derived index.
func (s *State) RecordPointer(index int) error {
	if err := checkIndex(index, s.count); err != nil {
		return err
	}
	s.pointer = index
	return nil
}

func (s *State) effect(changed bool) Effect {
	return Effect{Changed: changed, Expanded: s.Expanded(), Cursor: s.Cursor()}
}
