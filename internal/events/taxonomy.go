// Package events defines the event taxonomy used by `on` attributes.
//
// The taxonomy provides:
//   - Canonical event types
//   - Normalization of alias names to canonical types
//   - Validation of event+method combinations for lightbox targets
//
// # Aliases
//
// Scenario files and markup written for other hosts use different names for
// the same gesture. They are accepted and normalized:
//   - 'click', 'press', 'activate' → 'tap'
//   - 'keypress', 'key' → 'keydown'
//   - 'focusin' → 'focus'
//
// Unknown names are lowercased and passed through so custom events keep
// working.
package events

import (
	"strings"

	"github.com/marcus/lightbox/pkg/dom"
)

// EventType is a canonical event name.
type EventType string

// Canonical event types
const (
	EventTap     EventType = dom.EventTap
	EventKeyDown EventType = dom.EventKeyDown
	EventFocus   EventType = dom.EventFocus
)

// AllEventTypes returns all canonical event types.
func AllEventTypes() map[EventType]bool {
	return map[EventType]bool{
		EventTap:     true,
		EventKeyDown: true,
		EventFocus:   true,
	}
}

// IsValidEventType checks if the given event type string is canonical.
func IsValidEventType(et string) bool {
	return AllEventTypes()[EventType(et)]
}

// NormalizeEventType maps an event name to its canonical form.
// Returns the normalized name and whether it is a known event type.
func NormalizeEventType(name string) (EventType, bool) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "tap", "click", "press", "activate":
		return EventTap, true
	case "keydown", "keypress", "key":
		return EventKeyDown, true
	case "focus", "focusin":
		return EventFocus, true
	default:
		return EventType(n), false
	}
}

// ValidEventMethodCombinations defines which methods a lightbox accepts
// from which event types. Focus events never open or close a lightbox.
func ValidEventMethodCombinations() map[EventType]map[string]bool {
	return map[EventType]map[string]bool{
		EventTap: {
			"open":  true,
			"close": true,
		},
		EventKeyDown: {
			"open":  true,
			"close": true,
		},
		EventFocus: {},
	}
}

// IsValidEventMethodCombination checks if an event type may invoke method.
// Unknown event types are allowed.
func IsValidEventMethodCombination(event EventType, method string) bool {
	combinations := ValidEventMethodCombinations()
	if methods, ok := combinations[event]; ok {
		return methods[method]
	}
	return true
}
