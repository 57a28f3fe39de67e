// Package scenario replays scripted lightbox sessions without a terminal.
//
// A scenario file describes a page, one lightbox container, and an ordered
// list of steps:
//
//	lightbox:
//	  id: myLightbox
//	  children:
//	    - {tag: button, id: randomButton, text: Something to focus on}
//	    - {tag: button, id: closeButton, text: X, on: "tap:myLightbox.close"}
//	page:
//	  - {tag: button, id: trigger, text: Open lightbox, on: "tap:myLightbox.open"}
//	steps:
//	  - focus: trigger
//	  - tap: trigger
//	  - expect: {open: true, active: closeButton}
//	  - key: Enter
//	  - key: Escape
//	  - expect: {open: false, active: trigger}
package scenario

import (
	"errors"
	"fmt"
	"os"

	"github.com/marcus/lightbox/internal/action"
	"github.com/marcus/lightbox/internal/events"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid scenario")

// Scenario is a parsed scenario file.
type Scenario struct {
	Name     string    `yaml:"name"`
	Lightbox Container `yaml:"lightbox"`
	Page     []Node    `yaml:"page"`
	Options  Options   `yaml:"options"`
	Steps    []Step    `yaml:"steps"`
}

// Container describes the lightbox element.
type Container struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Children []Node `yaml:"children"`
}

// Node describes one element.
type Node struct {
	Tag      string            `yaml:"tag"`
	ID       string            `yaml:"id"`
	Text     string            `yaml:"text"`
	On       string            `yaml:"on"`
	Attrs    map[string]string `yaml:"attrs"`
	Children []Node            `yaml:"children"`
}

// Options configure the controller under test.
type Options struct {
	History     *bool  `yaml:"history"`
	CloseOnBlur bool   `yaml:"close_on_blur"`
	CloseLabel  string `yaml:"close_label"`
}

// Step is one scripted action. Exactly one field must be set.
type Step struct {
	Focus    string    `yaml:"focus,omitempty"`
	Blur     bool      `yaml:"blur,omitempty"`
	Tap      string    `yaml:"tap,omitempty"`
	Key      string    `yaml:"key,omitempty"`
	Back     bool      `yaml:"back,omitempty"`
	Dispatch *Dispatch `yaml:"dispatch,omitempty"`
	Expect   *Expect   `yaml:"expect,omitempty"`
}

// Dispatch invokes a lightbox method through the action service.
type Dispatch struct {
	Method string `yaml:"method"`
	Caller string `yaml:"caller"`
	Source string `yaml:"source"`
	Trust  string `yaml:"trust"`
}

// Expect asserts controller state. Unset fields are not checked; an empty
// Active asserts that nothing holds focus.
type Expect struct {
	Open   *bool   `yaml:"open"`
	Active *string `yaml:"active"`
}

// Kind names the action a step performs.
func (s Step) Kind() string {
	switch {
	case s.Focus != "":
		return "focus"
	case s.Blur:
		return "blur"
	case s.Tap != "":
		return "tap"
	case s.Key != "":
		return "key"
	case s.Back:
		return "back"
	case s.Dispatch != nil:
		return "dispatch"
	case s.Expect != nil:
		return "expect"
	default:
		return ""
	}
}

func (s Step) fieldCount() int {
	n := 0
	for _, set := range []bool{
		s.Focus != "", s.Blur, s.Tap != "", s.Key != "", s.Back,
		s.Dispatch != nil, s.Expect != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates scenario YAML.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := Validate(&sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks structural rules: a lightbox id, unique element ids,
// well-formed `on` attributes, known dispatch methods, and exactly one
// action per step.
func Validate(sc *Scenario) error {
	if sc.Lightbox.ID == "" {
		return fmt.Errorf("%w: lightbox id is required", ErrInvalid)
	}
	seen := map[string]bool{sc.Lightbox.ID: true}
	if err := checkNodes(sc.Lightbox.Children, seen, sc.Lightbox.ID); err != nil {
		return err
	}
	if err := checkNodes(sc.Page, seen, sc.Lightbox.ID); err != nil {
		return err
	}
	for i, step := range sc.Steps {
		if n := step.fieldCount(); n != 1 {
			return fmt.Errorf("%w: step %d: want exactly one action, got %d", ErrInvalid, i+1, n)
		}
		if d := step.Dispatch; d != nil {
			if d.Method != "open" && d.Method != "close" {
				return fmt.Errorf("%w: step %d: unknown method %q", ErrInvalid, i+1, d.Method)
			}
		}
	}
	return nil
}

func checkNodes(nodes []Node, seen map[string]bool, boxID string) error {
	for _, n := range nodes {
		if n.Tag == "" {
			return fmt.Errorf("%w: element %q has no tag", ErrInvalid, n.ID)
		}
		if n.ID != "" {
			if seen[n.ID] {
				return fmt.Errorf("%w: duplicate id %q", ErrInvalid, n.ID)
			}
			seen[n.ID] = true
		}
		if n.On != "" {
			actions, err := action.ParseOn(n.On)
			if err != nil {
				return fmt.Errorf("%w: element %q: %v", ErrInvalid, n.ID, err)
			}
			for _, a := range actions {
				if a.Target == boxID && !events.IsValidEventMethodCombination(events.EventType(a.Event), a.Method) {
					return fmt.Errorf("%w: element %q: %s not supported", ErrInvalid, n.ID, a)
				}
			}
		}
		if err := checkNodes(n.Children, seen, boxID); err != nil {
			return err
		}
	}
	return nil
}
