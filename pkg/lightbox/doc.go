// Package lightbox provides a focus-scoped modal controller and a
// bubbletea host for it.
//
// A Controller owns no content. It manages a container element that lives
// in a dom.Document: while open, keyboard focus is moved into the
// container; on close, focus goes back to the element that opened it.
//
// # Quick Start
//
//	doc := dom.NewDocument()
//	box := dom.NewElement("div", "myLightbox")
//	box.AppendChild(dom.NewElement("button", "closeButton", "on", "tap:myLightbox.close"))
//	trigger := dom.NewElement("button", "open", "on", "tap:myLightbox.open")
//	doc.Body.AppendChild(box, trigger)
//
//	c := lightbox.New(doc, box, lightbox.WithHistory(history.NewStack()))
//	c.Open(trigger)   // focus moves to #closeButton
//	c.Close()         // focus returns to #open
//
// # Focus on open
//
// Open picks the focus target in this order:
//
//   - focus already inside the container is left alone
//   - else the designated close control (an element with
//     data-close-button, or whose on attribute closes the container)
//   - else a close control is created, prepended, and focused
//
// # Dismissal
//
// While open the controller listens for keydown events on the document.
// An Escape event closes it once; the event is marked handled so a second
// delivery of the same event does nothing. Close is always safe to call.
//
// # Dispatch
//
// Controller implements action.Target with the methods "open" and "close".
// Invocations that arrive before Attach are queued and run on Attach.
package lightbox
