package lightbox

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/marcus/lightbox/internal/action"
	"github.com/marcus/lightbox/pkg/dom"
)

// Dispatchable method names.
const (
	MethodOpen  = "open"
	MethodClose = "close"
)

// CloseControlAttr marks an element as the designated close control.
const CloseControlAttr = "data-close-button"

// DefaultCloseLabel is the text of a synthesized close control.
const DefaultCloseLabel = "Close"

var (
	// ErrUnknownMethod is returned for invocations of undeclared methods.
	ErrUnknownMethod = errors.New("unknown lightbox method")
	// ErrInsufficientTrust is returned for invocations below TrustDefault.
	ErrInsufficientTrust = errors.New("insufficient trust")
)

// History is the navigation-history collaborator. Push registers an entry
// whose onPop closes the lightbox; Pop removes it again.
type History interface {
	Push(onPop func()) (int, error)
	Pop(id int) error
}

// session exists only between Open and Close.
type session struct {
	id          string
	trigger     *dom.Element
	historyID   int
	pushed      bool
	removeKey   func()
	removeFocus func()
}

// Controller scopes keyboard focus to a container while open and returns
// focus to the triggering element on close.
type Controller struct {
	doc       *dom.Document
	container *dom.Element

	history     History
	logger      *slog.Logger
	closeLabel  string
	closeOnBlur bool
	onOpen      func(trigger *dom.Element)
	onClose     func()

	session  *session
	attached bool
	pending  []*action.Invocation
}

// Option configures a Controller.
type Option func(*Controller)

// WithHistory pushes a history entry on open and pops it on close.
func WithHistory(h History) Option {
	return func(c *Controller) {
		c.history = h
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCloseLabel sets the text of a synthesized close control.
func WithCloseLabel(label string) Option {
	return func(c *Controller) {
		if label != "" {
			c.closeLabel = label
		}
	}
}

// WithCloseOnBlur closes the session when focus moves outside the container.
func WithCloseOnBlur(enabled bool) Option {
	return func(c *Controller) {
		c.closeOnBlur = enabled
	}
}

// WithOnOpen registers a hook run after each open transition.
func WithOnOpen(fn func(trigger *dom.Element)) Option {
	return func(c *Controller) {
		c.onOpen = fn
	}
}

// WithOnClose registers a hook run after each close transition.
func WithOnClose(fn func()) Option {
	return func(c *Controller) {
		c.onClose = fn
	}
}

// New creates a closed controller for container. The container is hidden
// until the first Open.
func New(doc *dom.Document, container *dom.Element, opts ...Option) *Controller {
	c := &Controller{
		doc:        doc,
		container:  container,
		logger:     slog.Default(),
		closeLabel: DefaultCloseLabel,
	}
	for _, opt := range opts {
		opt(c)
	}
	container.SetAttr("hidden", "")
	return c
}

// IsOpen reports whether a session is active.
func (c *Controller) IsOpen() bool {
	return c.session != nil
}

// Trigger returns the element focus returns to on close, or nil.
func (c *Controller) Trigger() *dom.Element {
	if c.session == nil {
		return nil
	}
	return c.session.trigger
}

// SessionID returns the id of the open session, or "".
func (c *Controller) SessionID() string {
	if c.session == nil {
		return ""
	}
	return c.session.id
}

// Container returns the element the controller manages.
func (c *Controller) Container() *dom.Element {
	return c.container
}

// Open starts a session. caller may be nil, in which case Close leaves
// focus where it is. Opening an open controller is ignored.
func (c *Controller) Open(caller *dom.Element) {
	if c.session != nil {
		c.logger.Debug("lightbox: open ignored, already open",
			"container", c.container.String(), "session", c.session.id)
		return
	}

	s := &session{id: uuid.NewString(), trigger: caller}
	c.session = s
	c.container.RemoveAttr("hidden")
	c.autofocus()

	c.focusInModal()

	s.removeKey = c.doc.AddKeyListener(c.CloseOnEscape)
	if c.closeOnBlur {
		s.removeFocus = c.doc.AddFocusListener(c.closeIfFocusLeft)
	}

	if c.history != nil {
		id, err := c.history.Push(func() {
			s.pushed = false
			if c.session == s {
				c.Close()
			}
		})
		if err != nil {
			c.logger.Warn("lightbox: history push failed", "err", err, "session", s.id)
		} else {
			s.historyID = id
			s.pushed = true
		}
	}

	c.logger.Debug("lightbox: opened",
		"container", c.container.String(),
		"session", s.id,
		"caller", caller.String(),
		"focus", c.doc.ActiveElement().String())

	if c.onOpen != nil {
		c.onOpen(caller)
	}
}

// autofocus focuses the first autofocus element in the container once it is
// shown. Content inside the hidden container cannot hold focus before that.
func (c *Controller) autofocus() {
	el := c.container.Find(func(e *dom.Element) bool { return e.HasAttr("autofocus") })
	if el != nil {
		c.doc.TryFocus(el)
	}
}

// focusInModal moves focus into the container unless it is already there.
// An existing close control wins; otherwise one is synthesized.
func (c *Controller) focusInModal() {
	if c.doc.IsFocusWithin(c.container) {
		return
	}
	if btn := FindCloseControl(c.container); btn != nil && c.doc.TryFocus(btn) {
		return
	}
	btn := c.newCloseControl()
	c.container.PrependChild(btn)
	if !c.doc.TryFocus(btn) {
		c.logger.Warn("lightbox: close control not focusable",
			"container", c.container.String())
	}
}

func (c *Controller) newCloseControl() *dom.Element {
	id := c.container.ID
	btn := dom.NewElement("button", closeControlID(id),
		CloseControlAttr, "",
		"aria-label", "Close the modal",
	)
	if id != "" {
		btn.SetAttr("on", fmt.Sprintf("%s:%s.%s", dom.EventTap, id, MethodClose))
	}
	btn.Text = c.closeLabel
	return btn
}

func closeControlID(containerID string) string {
	if containerID == "" {
		return ""
	}
	return containerID + "-close"
}

// Close ends the session. Closing a closed controller is a no-op.
func (c *Controller) Close() {
	s := c.session
	if s == nil {
		return
	}
	c.session = nil

	c.container.SetAttr("hidden", "")
	if s.removeKey != nil {
		s.removeKey()
	}
	if s.removeFocus != nil {
		s.removeFocus()
	}
	if s.pushed {
		if err := c.history.Pop(s.historyID); err != nil {
			c.logger.Debug("lightbox: history pop", "err", err, "session", s.id)
		}
	}
	if s.trigger != nil && !c.doc.TryFocus(s.trigger) {
		c.logger.Debug("lightbox: trigger no longer focusable",
			"trigger", s.trigger.String(), "session", s.id)
	}

	c.logger.Debug("lightbox: closed",
		"container", c.container.String(),
		"session", s.id,
		"focus", c.doc.ActiveElement().String())

	if c.onClose != nil {
		c.onClose()
	}
}

// CloseOnEscape closes the session for an unhandled Escape keydown.
// Other keys, handled events, and events arriving while closed are ignored.
func (c *Controller) CloseOnEscape(ev *dom.Event) {
	if c.session == nil || ev == nil || ev.Handled() {
		return
	}
	if ev.Key != dom.KeyEscape {
		return
	}
	ev.MarkHandled()
	c.Close()
}

func (c *Controller) closeIfFocusLeft(_, next *dom.Element) {
	if next != nil && !c.container.Contains(next) {
		c.Close()
	}
}

// FocusNext moves focus to the next (or previous) focusable element in the
// container, wrapping at either end. Does nothing while closed.
func (c *Controller) FocusNext(reverse bool) {
	if c.session == nil {
		return
	}
	items := c.container.FocusableDescendants()
	if len(items) == 0 {
		return
	}
	cur := -1
	active := c.doc.ActiveElement()
	for i, el := range items {
		if el == active {
			cur = i
			break
		}
	}
	var next int
	switch {
	case cur == -1 && reverse:
		next = len(items) - 1
	case cur == -1:
		next = 0
	case reverse:
		next = (cur - 1 + len(items)) % len(items)
	default:
		next = (cur + 1) % len(items)
	}
	c.doc.TryFocus(items[next])
}

// Attach is the lifecycle hook run once the container is attached and
// interactive. Invocations received earlier run now, in order.
func (c *Controller) Attach() error {
	if c.attached {
		return nil
	}
	c.attached = true
	queued := c.pending
	c.pending = nil

	var errs []error
	for _, inv := range queued {
		if err := c.execute(inv); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Attached reports whether Attach has run.
func (c *Controller) Attached() bool {
	return c.attached
}

// EnqueueAction implements action.Target. Invocations are validated
// immediately and queued until Attach.
func (c *Controller) EnqueueAction(inv *action.Invocation) error {
	if err := validate(inv); err != nil {
		return err
	}
	if !c.attached {
		c.pending = append(c.pending, inv)
		return nil
	}
	return c.execute(inv)
}

func validate(inv *action.Invocation) error {
	switch inv.Method {
	case MethodOpen, MethodClose:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, inv.Method)
	}
	if !inv.Satisfies(action.TrustDefault) {
		return fmt.Errorf("%s: %w (%s)", inv.Method, ErrInsufficientTrust, inv.Trust)
	}
	return nil
}

func (c *Controller) execute(inv *action.Invocation) error {
	switch inv.Method {
	case MethodOpen:
		c.Open(inv.Caller)
	case MethodClose:
		c.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, inv.Method)
	}
	return nil
}

// FindCloseControl returns the container's designated close control: the
// first descendant carrying CloseControlAttr, or whose `on` attribute
// invokes close on the container.
func FindCloseControl(container *dom.Element) *dom.Element {
	return container.Find(func(e *dom.Element) bool {
		if e.HasAttr(CloseControlAttr) {
			return true
		}
		on, ok := e.Attr("on")
		return ok && container.ID != "" && action.Targets(on, container.ID, MethodClose)
	})
}

// FindFocusable returns the first focusable descendant of container, or nil.
func FindFocusable(container *dom.Element) *dom.Element {
	return container.Find((*dom.Element).Focusable)
}
