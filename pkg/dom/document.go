package dom

// KeyListener receives keydown events dispatched to the document.
type KeyListener func(ev *Event)

// FocusListener is notified after the active element changes.
// prev and next may be nil.
type FocusListener func(prev, next *Element)

type keyEntry struct {
	id int
	fn KeyListener
}

type focusEntry struct {
	id int
	fn FocusListener
}

// Document owns a tree rooted at Body and tracks the active element.
// It is not safe for concurrent use; all calls are expected on the UI loop.
type Document struct {
	Body *Element

	active    *Element
	keys      []keyEntry
	focus     []focusEntry
	nextEntry int
}

// NewDocument creates a document with an empty body.
func NewDocument() *Document {
	return &Document{Body: NewElement("body", "")}
}

// ActiveElement returns the focused element, or nil when nothing holds focus.
func (d *Document) ActiveElement() *Element {
	return d.active
}

// GetElementByID returns the first element in the document with the id.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	if d.Body.ID == id {
		return d.Body
	}
	return d.Body.Find(func(e *Element) bool { return e.ID == id })
}

// Attached reports whether el is part of this document's tree.
func (d *Document) Attached(el *Element) bool {
	return el != nil && el.Root() == d.Body
}

// TryFocus moves focus to el when el is attached and focusable.
// Returns whether el holds focus afterwards.
func (d *Document) TryFocus(el *Element) bool {
	if !d.Attached(el) || !el.Focusable() {
		return false
	}
	if d.active == el {
		return true
	}
	d.setActive(el)
	return true
}

// Blur clears focus.
func (d *Document) Blur() {
	if d.active != nil {
		d.setActive(nil)
	}
}

// IsFocusWithin reports whether the active element lies in container's
// subtree, container included.
func (d *Document) IsFocusWithin(container *Element) bool {
	return d.active != nil && container.Contains(d.active)
}

func (d *Document) setActive(el *Element) {
	prev := d.active
	d.active = el
	for _, l := range append([]focusEntry(nil), d.focus...) {
		l.fn(prev, el)
	}
}

// AddKeyListener registers fn for keydown events. The returned function
// removes the listener; calling it more than once is a no-op.
func (d *Document) AddKeyListener(fn KeyListener) (remove func()) {
	d.nextEntry++
	id := d.nextEntry
	d.keys = append(d.keys, keyEntry{id: id, fn: fn})
	return func() {
		for i, e := range d.keys {
			if e.id == id {
				d.keys = append(d.keys[:i], d.keys[i+1:]...)
				return
			}
		}
	}
}

// AddFocusListener registers fn for focus changes. The returned function
// removes the listener; calling it more than once is a no-op.
func (d *Document) AddFocusListener(fn FocusListener) (remove func()) {
	d.nextEntry++
	id := d.nextEntry
	d.focus = append(d.focus, focusEntry{id: id, fn: fn})
	return func() {
		for i, e := range d.focus {
			if e.id == id {
				d.focus = append(d.focus[:i], d.focus[i+1:]...)
				return
			}
		}
	}
}

// KeyListenerCount returns the number of registered key listeners.
func (d *Document) KeyListenerCount() int {
	return len(d.keys)
}

// DispatchKey delivers ev to every key listener registered at the time of
// the call. The event target defaults to the active element.
func (d *Document) DispatchKey(ev *Event) {
	if ev == nil {
		return
	}
	if ev.Target == nil {
		ev.Target = d.active
	}
	for _, l := range append([]keyEntry(nil), d.keys...) {
		l.fn(ev)
	}
}
