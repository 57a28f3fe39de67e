package action

import (
	"fmt"
	"strings"

	"github.com/marcus/lightbox/internal/events"
)

// Action is one parsed entry of an element's `on` attribute.
type Action struct {
	Event  string // event type, e.g. "tap"
	Target string // id of the target element
	Method string // method to invoke on the target
}

// String renders the action in attribute form.
func (a Action) String() string {
	return a.Event + ":" + a.Target + "." + a.Method
}

// ParseOn parses an `on` attribute value such as
// "tap:myLightbox.close;keydown:other.open". Entries are separated by
// ';' or ','. Empty entries are skipped. Event aliases such as "click"
// are normalized to their canonical type.
func ParseOn(attr string) ([]Action, error) {
	var out []Action
	entries := strings.FieldsFunc(attr, func(r rune) bool { return r == ';' || r == ',' })
	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		event, rest, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q: missing event", ErrMalformedOn, entry)
		}
		target, method, ok := strings.Cut(strings.TrimSpace(rest), ".")
		if !ok {
			return nil, fmt.Errorf("%w: %q: missing method", ErrMalformedOn, entry)
		}
		et, _ := events.NormalizeEventType(event)
		a := Action{
			Event:  string(et),
			Target: strings.TrimSpace(target),
			Method: strings.TrimSpace(method),
		}
		if a.Event == "" || a.Target == "" || a.Method == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedOn, entry)
		}
		out = append(out, a)
	}
	return out, nil
}

// Targets reports whether attr contains an action invoking method on the
// element with targetID. Malformed attributes never match.
func Targets(attr, targetID, method string) bool {
	actions, err := ParseOn(attr)
	if err != nil {
		return false
	}
	for _, a := range actions {
		if a.Target == targetID && a.Method == method {
			return true
		}
	}
	return false
}
