package dom

import "testing"

func buildTree() (*Document, *Element, *Element, *Element) {
	doc := NewDocument()
	box := NewElement("div", "box")
	inner := NewElement("button", "inner")
	outer := NewElement("button", "outer")
	box.AppendChild(inner)
	doc.Body.AppendChild(box, outer)
	return doc, box, inner, outer
}

func TestContains(t *testing.T) {
	_, box, inner, outer := buildTree()

	tests := []struct {
		name     string
		parent   *Element
		child    *Element
		expected bool
	}{
		{"self", box, box, true},
		{"direct child", box, inner, true},
		{"sibling", box, outer, false},
		{"nil other", box, nil, false},
		{"child does not contain parent", inner, box, false},
	}

	for _, tt := range tests {
		if got := tt.parent.Contains(tt.child); got != tt.expected {
			t.Errorf("%s: Contains = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestNewElementAttrs(t *testing.T) {
	e := NewElement("BUTTON", "b", "on", "tap:x.close", "disabled")
	if e.Tag != "button" {
		t.Errorf("Tag = %q, want button", e.Tag)
	}
	if v, ok := e.Attr("on"); !ok || v != "tap:x.close" {
		t.Errorf("Attr(on) = %q, %v", v, ok)
	}
	if !e.HasAttr("disabled") {
		t.Error("trailing attribute name should be set")
	}
	if e.Focusable() {
		t.Error("disabled button should not be focusable")
	}
}

func TestFocusable(t *testing.T) {
	tests := []struct {
		el       *Element
		expected bool
	}{
		{NewElement("button", ""), true},
		{NewElement("a", ""), true},
		{NewElement("div", ""), false},
		{NewElement("div", "", "tabindex", "0"), true},
		{NewElement("input", "", "disabled", ""), false},
	}

	for _, tt := range tests {
		if got := tt.el.Focusable(); got != tt.expected {
			t.Errorf("%s Focusable() = %v, want %v", tt.el, got, tt.expected)
		}
	}
}

func TestFocusableInHiddenSubtree(t *testing.T) {
	doc, box, inner, outer := buildTree()
	box.SetAttr("hidden", "")

	tests := []struct {
		name     string
		el       *Element
		expected bool
	}{
		{"child of hidden container", inner, false},
		{"sibling of hidden container", outer, true},
	}
	for _, tt := range tests {
		if got := tt.el.Focusable(); got != tt.expected {
			t.Errorf("%s: Focusable() = %v, want %v", tt.name, got, tt.expected)
		}
	}

	if doc.TryFocus(inner) {
		t.Error("TryFocus should refuse an element inside a hidden subtree")
	}
	if doc.ActiveElement() != nil {
		t.Errorf("active = %s, want nil", doc.ActiveElement())
	}

	box.RemoveAttr("hidden")
	if !doc.TryFocus(inner) {
		t.Error("TryFocus(inner) = false after the container was shown")
	}
}

func TestRoot(t *testing.T) {
	doc, _, inner, _ := buildTree()
	if inner.Root() != doc.Body {
		t.Errorf("Root = %s, want body", inner.Root())
	}
	detached := NewElement("p", "")
	if detached.Root() != detached {
		t.Error("detached element should be its own root")
	}
}

func TestPrependAndRemoveChild(t *testing.T) {
	parent := NewElement("div", "p")
	a := NewElement("span", "a")
	b := NewElement("span", "b")
	c := NewElement("span", "c")
	parent.AppendChild(a, b)
	parent.PrependChild(c)

	ids := func() string {
		s := ""
		for _, ch := range parent.Children() {
			s += ch.ID
		}
		return s
	}
	if got := ids(); got != "cab" {
		t.Fatalf("children = %q, want cab", got)
	}

	if !parent.RemoveChild(a) {
		t.Fatal("RemoveChild(a) = false")
	}
	if got := ids(); got != "cb" {
		t.Errorf("children after remove = %q, want cb", got)
	}
	if a.Parent() != nil {
		t.Error("removed child should have no parent")
	}
	if parent.RemoveChild(a) {
		t.Error("second RemoveChild should report false")
	}
}

func TestAppendChildReparents(t *testing.T) {
	first := NewElement("div", "first")
	second := NewElement("div", "second")
	child := NewElement("span", "child")
	first.AppendChild(child)
	second.AppendChild(child)

	if len(first.Children()) != 0 {
		t.Errorf("old parent still has %d children", len(first.Children()))
	}
	if child.Parent() != second {
		t.Errorf("parent = %s, want div#second", child.Parent())
	}
}

func TestFindDocumentOrder(t *testing.T) {
	root := NewElement("div", "root")
	a := NewElement("div", "a")
	a1 := NewElement("button", "a1")
	b := NewElement("button", "b")
	a.AppendChild(a1)
	root.AppendChild(a, b)

	got := root.Find((*Element).Focusable)
	if got != a1 {
		t.Errorf("Find = %s, want button#a1", got)
	}

	all := root.FocusableDescendants()
	if len(all) != 2 || all[0] != a1 || all[1] != b {
		t.Errorf("FocusableDescendants = %v, want [a1 b]", all)
	}
}

func TestTryFocus(t *testing.T) {
	doc, box, inner, outer := buildTree()
	detached := NewElement("button", "detached")

	if doc.TryFocus(box) {
		t.Error("div without tabindex should not take focus")
	}
	if doc.TryFocus(detached) {
		t.Error("detached element should not take focus")
	}
	if !doc.TryFocus(inner) {
		t.Fatal("TryFocus(inner) = false")
	}
	if doc.ActiveElement() != inner {
		t.Errorf("active = %s, want button#inner", doc.ActiveElement())
	}
	if !doc.IsFocusWithin(box) {
		t.Error("IsFocusWithin(box) = false with inner focused")
	}

	doc.TryFocus(outer)
	if doc.IsFocusWithin(box) {
		t.Error("IsFocusWithin(box) = true with outer focused")
	}

	doc.Blur()
	if doc.ActiveElement() != nil {
		t.Errorf("active after Blur = %s, want nil", doc.ActiveElement())
	}
	if doc.IsFocusWithin(box) {
		t.Error("IsFocusWithin should be false with nothing focused")
	}
}

func TestFocusListener(t *testing.T) {
	doc, _, inner, outer := buildTree()

	var changes [][2]*Element
	remove := doc.AddFocusListener(func(prev, next *Element) {
		changes = append(changes, [2]*Element{prev, next})
	})

	doc.TryFocus(inner)
	doc.TryFocus(inner) // same element: no notification
	doc.TryFocus(outer)
	remove()
	remove()
	doc.Blur()

	if len(changes) != 2 {
		t.Fatalf("got %d focus changes, want 2", len(changes))
	}
	if changes[0][0] != nil || changes[0][1] != inner {
		t.Errorf("first change = %v", changes[0])
	}
	if changes[1][0] != inner || changes[1][1] != outer {
		t.Errorf("second change = %v", changes[1])
	}
}

func TestKeyListenerRemoveIdempotent(t *testing.T) {
	doc, _, inner, _ := buildTree()
	doc.TryFocus(inner)

	var calls int
	var target *Element
	removeA := doc.AddKeyListener(func(ev *Event) {
		calls++
		target = ev.Target
	})
	removeB := doc.AddKeyListener(func(*Event) { calls++ })

	doc.DispatchKey(NewKeyEvent(KeyEnter))
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if target != inner {
		t.Errorf("event target = %s, want active element", target)
	}

	removeA()
	removeA()
	if n := doc.KeyListenerCount(); n != 1 {
		t.Errorf("KeyListenerCount = %d, want 1", n)
	}

	removeB()
	doc.DispatchKey(NewKeyEvent(KeyEnter))
	if calls != 2 {
		t.Errorf("calls after removal = %d, want 2", calls)
	}
	doc.DispatchKey(nil)
}

func TestGetElementByID(t *testing.T) {
	doc, box, inner, _ := buildTree()
	if got := doc.GetElementByID("inner"); got != inner {
		t.Errorf("GetElementByID(inner) = %s", got)
	}
	if got := doc.GetElementByID("box"); got != box {
		t.Errorf("GetElementByID(box) = %s", got)
	}
	if got := doc.GetElementByID("missing"); got != nil {
		t.Errorf("GetElementByID(missing) = %s, want nil", got)
	}
	if got := doc.GetElementByID(""); got != nil {
		t.Errorf("GetElementByID(\"\") = %s, want nil", got)
	}
}

func TestEventHandled(t *testing.T) {
	ev := NewKeyEvent(KeyEscape)
	if ev.Handled() {
		t.Fatal("new event should not be handled")
	}
	ev.MarkHandled()
	if !ev.Handled() {
		t.Error("MarkHandled did not stick")
	}
	if ev.Type != EventKeyDown {
		t.Errorf("Type = %q, want keydown", ev.Type)
	}
}
