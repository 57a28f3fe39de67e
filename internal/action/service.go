// Package action routes named method invocations to components.
//
// A component registers itself as the Target for an element. Invocations
// reach it either directly through Service.Execute, or indirectly when a
// user event fires on an element whose `on` attribute names the target:
//
//	<button on="tap:myLightbox.close">
//
// Tapping that button makes Service.Trigger invoke "close" on the target
// registered for the element with id "myLightbox".
//
// # Event types
//
// Invocations created by Trigger carry the event type that fired them
// (e.g. "tap"). Invocations created by Execute carry EventTypeUnknown ("?")
// because no user event is known to have caused them.
package action

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/marcus/lightbox/internal/events"
	"github.com/marcus/lightbox/pkg/dom"
)

// EventTypeUnknown marks invocations that were not caused by a known event.
const EventTypeUnknown = "?"

var (
	// ErrNoTarget is returned when no target is registered for a node.
	ErrNoTarget = errors.New("no action target registered")
	// ErrMalformedOn is returned for unparseable `on` attributes.
	ErrMalformedOn = errors.New("malformed on attribute")
)

// Invocation is a single request to run Method on Node.
type Invocation struct {
	Node            *dom.Element
	Method          string
	Args            map[string]any
	Source          *dom.Element
	Caller          *dom.Element
	Event           *dom.Event
	Trust           Trust
	ActionEventType string
}

// Satisfies reports whether the invocation's trust meets min.
func (inv *Invocation) Satisfies(min Trust) bool {
	return inv.Trust >= min
}

// Target is implemented by components that accept invocations.
type Target interface {
	EnqueueAction(inv *Invocation) error
}

// Service maps elements to their targets.
type Service struct {
	doc     *dom.Document
	targets map[*dom.Element]Target
	logger  *slog.Logger
}

// NewService creates a service resolving `on` targets in doc.
func NewService(doc *dom.Document) *Service {
	return &Service{
		doc:     doc,
		targets: make(map[*dom.Element]Target),
		logger:  slog.Default(),
	}
}

// SetLogger replaces the service logger.
func (s *Service) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Register makes t the target for node, replacing any previous target.
func (s *Service) Register(node *dom.Element, t Target) {
	s.targets[node] = t
}

// Unregister removes node's target.
func (s *Service) Unregister(node *dom.Element) {
	delete(s.targets, node)
}

// Execute invokes method on node's target. The invocation's event type is
// EventTypeUnknown.
func (s *Service) Execute(node *dom.Element, method string, args map[string]any,
	source, caller *dom.Element, event *dom.Event, trust Trust) error {
	return s.dispatch(&Invocation{
		Node:            node,
		Method:          method,
		Args:            args,
		Source:          source,
		Caller:          caller,
		Event:           event,
		Trust:           trust,
		ActionEventType: EventTypeUnknown,
	})
}

// Trigger runs every action in el's `on` attribute bound to eventType.
// Source and Caller are both el. Targets are resolved by id in the
// document. Dispatch continues past failing actions; the joined error is
// returned.
func (s *Service) Trigger(el *dom.Element, eventType string, event *dom.Event, trust Trust) error {
	if el == nil {
		return nil
	}
	attr, ok := el.Attr("on")
	if !ok {
		return nil
	}
	actions, err := ParseOn(attr)
	if err != nil {
		return fmt.Errorf("trigger %s: %w", el, err)
	}
	et, _ := events.NormalizeEventType(eventType)
	eventType = string(et)

	var errs []error
	for _, a := range actions {
		if !events.IsValidEventType(a.Event) {
			s.logger.Debug("action: unknown event type", "element", el.String(), "event", a.Event)
		}
		if a.Event != eventType {
			continue
		}
		node := s.doc.GetElementByID(a.Target)
		if node == nil {
			errs = append(errs, fmt.Errorf("trigger %s: %w: #%s", el, ErrNoTarget, a.Target))
			continue
		}
		err := s.dispatch(&Invocation{
			Node:            node,
			Method:          a.Method,
			Source:          el,
			Caller:          el,
			Event:           event,
			Trust:           trust,
			ActionEventType: eventType,
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) dispatch(inv *Invocation) error {
	t, ok := s.targets[inv.Node]
	if !ok {
		return fmt.Errorf("%s.%s: %w", inv.Node, inv.Method, ErrNoTarget)
	}
	s.logger.Debug("action: dispatch",
		"node", inv.Node.String(),
		"method", inv.Method,
		"event_type", inv.ActionEventType,
		"trust", inv.Trust.String())
	if err := t.EnqueueAction(inv); err != nil {
		return fmt.Errorf("%s.%s: %w", inv.Node, inv.Method, err)
	}
	return nil
}
