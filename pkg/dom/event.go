package dom

// Key names carried by keydown events.
const (
	KeyEscape    = "Escape"
	KeyEnter     = "Enter"
	KeyTab       = "Tab"
	KeySpace     = " "
	KeyBackspace = "Backspace"
)

// Event types.
const (
	EventKeyDown = "keydown"
	EventTap     = "tap"
	EventFocus   = "focus"
)

// Event is a user-input event. An event is handled at most once; handlers
// that act on it call MarkHandled so a re-delivery of the same event is
// ignored.
type Event struct {
	Type   string
	Key    string
	Shift  bool // shift modifier held, e.g. shift+Tab
	Target *Element

	handled bool
}

// NewKeyEvent builds a keydown event for key.
func NewKeyEvent(key string) *Event {
	return &Event{Type: EventKeyDown, Key: key}
}

// NewTapEvent builds a tap event targeting el.
func NewTapEvent(el *Element) *Event {
	return &Event{Type: EventTap, Target: el}
}

// Handled reports whether a handler already consumed the event.
func (e *Event) Handled() bool {
	return e.handled
}

// MarkHandled flags the event as consumed.
func (e *Event) MarkHandled() {
	e.handled = true
}
