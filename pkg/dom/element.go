package dom

import "strings"

// focusableTags are the tags that accept keyboard focus without a tabindex.
var focusableTags = map[string]bool{
	"a":        true,
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
}

// Element is a node in a document tree.
type Element struct {
	ID   string
	Tag  string
	Text string

	attrs    map[string]string
	parent   *Element
	children []*Element
}

// NewElement creates a detached element. attrs is a flat list of
// name/value pairs; a trailing name without a value is set to "".
func NewElement(tag, id string, attrs ...string) *Element {
	e := &Element{
		ID:    id,
		Tag:   strings.ToLower(tag),
		attrs: make(map[string]string),
	}
	for i := 0; i < len(attrs); i += 2 {
		val := ""
		if i+1 < len(attrs) {
			val = attrs[i+1]
		}
		e.attrs[attrs[i]] = val
	}
	return e
}

// Attr returns the value of the named attribute and whether it is set.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// HasAttr reports whether the named attribute is set.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// SetAttr sets an attribute value.
func (e *Element) SetAttr(name, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
}

// RemoveAttr deletes an attribute. Removing an unset attribute is a no-op.
func (e *Element) RemoveAttr(name string) {
	delete(e.attrs, name)
}

// Hidden reports whether the element carries the hidden attribute.
func (e *Element) Hidden() bool {
	return e.HasAttr("hidden")
}

// AppendChild adds children to the end of this element's child list,
// detaching them from any previous parent first.
func (e *Element) AppendChild(children ...*Element) {
	for _, child := range children {
		if child.parent != nil {
			child.parent.RemoveChild(child)
		}
		child.parent = e
		e.children = append(e.children, child)
	}
}

// PrependChild inserts child as the first child.
func (e *Element) PrependChild(child *Element) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = e
	e.children = append([]*Element{child}, e.children...)
}

// RemoveChild removes a direct child, preserving sibling order.
// Returns true if the child was found and removed.
func (e *Element) RemoveChild(child *Element) bool {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Children returns the child elements.
func (e *Element) Children() []*Element {
	return e.children
}

// Parent returns the parent element, or nil if this is a root.
func (e *Element) Parent() *Element {
	return e.parent
}

// Root walks parent links to the top of the tree.
func (e *Element) Root() *Element {
	root := e
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	if e == nil {
		return false
	}
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Find returns the first descendant (not e itself) matching pred in
// depth-first document order, or nil.
func (e *Element) Find(pred func(*Element) bool) *Element {
	for _, child := range e.children {
		if pred(child) {
			return child
		}
		if found := child.Find(pred); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant matching pred in document order.
func (e *Element) FindAll(pred func(*Element) bool) []*Element {
	var out []*Element
	for _, child := range e.children {
		if pred(child) {
			out = append(out, child)
		}
		out = append(out, child.FindAll(pred)...)
	}
	return out
}

// Focusable reports whether the element can receive keyboard focus.
// Disabled elements and elements inside a hidden subtree cannot.
func (e *Element) Focusable() bool {
	if e == nil || e.HasAttr("disabled") || e.InHiddenSubtree() {
		return false
	}
	return focusableTags[e.Tag] || e.HasAttr("tabindex")
}

// InHiddenSubtree reports whether e or any ancestor is hidden.
func (e *Element) InHiddenSubtree() bool {
	for n := e; n != nil; n = n.parent {
		if n.Hidden() {
			return true
		}
	}
	return false
}

// FocusableDescendants returns the focusable descendants in document order.
func (e *Element) FocusableDescendants() []*Element {
	return e.FindAll((*Element).Focusable)
}

// Label is a short human-readable name: the text when set, else the id,
// else the tag.
func (e *Element) Label() string {
	switch {
	case e.Text != "":
		return e.Text
	case e.ID != "":
		return e.ID
	default:
		return e.Tag
	}
}

// String renders the element as tag#id for logs.
func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	if e.ID == "" {
		return e.Tag
	}
	return e.Tag + "#" + e.ID
}
