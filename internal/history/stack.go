// Package history keeps a stack of navigation entries. Components push an
// entry when they take over the screen and are told to close, through the
// entry's callback, when the user navigates back past it.
package history

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEntry is returned by Pop for ids not on the stack.
	ErrUnknownEntry = errors.New("history entry not found")
	// ErrFull is returned by Push when the stack is at its depth limit.
	ErrFull = errors.New("history stack full")
)

// DefaultMaxDepth bounds the stack when no explicit limit is set.
const DefaultMaxDepth = 64

type entry struct {
	id    int
	onPop func()
}

// Stack is an in-memory navigation history.
type Stack struct {
	entries  []entry
	nextID   int
	maxDepth int
}

// NewStack creates an empty stack bounded at DefaultMaxDepth.
func NewStack() *Stack {
	return &Stack{maxDepth: DefaultMaxDepth}
}

// WithMaxDepth sets the depth limit. n <= 0 keeps the current limit.
func (s *Stack) WithMaxDepth(n int) *Stack {
	if n > 0 {
		s.maxDepth = n
	}
	return s
}

// Push adds an entry and returns its id. onPop runs when the entry leaves
// the stack, whether through Pop or Back.
func (s *Stack) Push(onPop func()) (int, error) {
	if len(s.entries) >= s.maxDepth {
		return 0, fmt.Errorf("push: %w (depth %d)", ErrFull, s.maxDepth)
	}
	s.nextID++
	s.entries = append(s.entries, entry{id: s.nextID, onPop: onPop})
	return s.nextID, nil
}

// Pop removes the entry with id and every entry above it. Callbacks run
// top-down after the stack has been truncated.
func (s *Stack) Pop(id int) error {
	idx := -1
	for i, e := range s.entries {
		if e.id == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("pop %d: %w", id, ErrUnknownEntry)
	}
	removed := s.entries[idx:]
	s.entries = append([]entry(nil), s.entries[:idx]...)
	for i := len(removed) - 1; i >= 0; i-- {
		if removed[i].onPop != nil {
			removed[i].onPop()
		}
	}
	return nil
}

// Back pops the top entry, as a user pressing "back" would.
// Returns false when the stack is empty.
func (s *Stack) Back() bool {
	if len(s.entries) == 0 {
		return false
	}
	return s.Pop(s.entries[len(s.entries)-1].id) == nil
}

// Depth returns the number of entries.
func (s *Stack) Depth() int {
	return len(s.entries)
}
