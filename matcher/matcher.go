// Package matcher resolves decoded events to logical controls. A
// Matcher owns an ordered set of controls; the first registration
// whose pattern matches an event wins.
package matcher

import (
	"fmt"

	"go-surface/control"
	"go-surface/midi"
)

// Matcher resolves events to controls and refreshes their visual state
type Matcher interface {
	// MatchEvent returns the first matching control, or nil
	MatchEvent(ev midi.Event) *control.Match
	// Controls returns every control reachable through this matcher,
	// in a stable order
	Controls() []control.ID
	// Tick refreshes visual state; thorough forces a full redraw
	Tick(thorough bool)
}

// PatternConfigError reports a bad registration, detected at setup
// rather than at match time.
type PatternConfigError struct {
	Control control.ID
	Reason  string
}

func (e *PatternConfigError) Error() string {
	return fmt.Sprintf("control %d: %s", e.Control, e.Reason)
}

// Basic is an ordered first-match-wins matcher. Sub-matchers are
// tested after the matcher's own entries, in the order they were
// added.
type Basic struct {
	arena   *control.Arena
	entries []control.ID
	subs    []Matcher
	sealed  bool // a catch-all entry was added; nothing after it can match
}

// NewBasic creates an empty matcher over the given arena
func NewBasic(arena *control.Arena) *Basic {
	return &Basic{arena: arena}
}

// Add registers a control. Registration order is match priority.
// Registering after a catch-all entry or registering the same control
// twice is a configuration error.
func (m *Basic) Add(id control.ID) error {
	if m.sealed {
		return &PatternConfigError{
			Control: id,
			Reason:  "registered after a catch-all entry, unreachable",
		}
	}
	for _, existing := range m.entries {
		if existing == id {
			return &PatternConfigError{Control: id, Reason: "registered twice"}
		}
	}
	m.entries = append(m.entries, id)
	if m.arena.Kind(id) == control.KindNull {
		m.sealed = true
	}
	return nil
}

// MustAdd is Add for setup code with compile-time-known layouts
func (m *Basic) MustAdd(id control.ID) {
	if err := m.Add(id); err != nil {
		panic(err)
	}
}

// AddSubMatcher appends a nested matcher, tested after own entries.
// Like Add, appending behind a catch-all entry is a configuration
// error: the sub-matcher would be unreachable.
func (m *Basic) AddSubMatcher(sub Matcher) error {
	if m.sealed {
		return &PatternConfigError{
			Control: control.None,
			Reason:  "sub-matcher added after a catch-all entry, unreachable",
		}
	}
	m.subs = append(m.subs, sub)
	return nil
}

func (m *Basic) MatchEvent(ev midi.Event) *control.Match {
	for _, id := range m.entries {
		if match := m.arena.Match(id, ev); match != nil {
			return match
		}
	}
	for _, sub := range m.subs {
		if match := sub.MatchEvent(ev); match != nil {
			return match
		}
	}
	return nil
}

func (m *Basic) Controls() []control.ID {
	ids := make([]control.ID, 0, len(m.entries))
	ids = append(ids, m.entries...)
	for _, sub := range m.subs {
		ids = append(ids, sub.Controls()...)
	}
	return ids
}

func (m *Basic) Tick(thorough bool) {
	for _, id := range m.entries {
		m.arena.TickControl(id, thorough)
	}
	for _, sub := range m.subs {
		sub.Tick(thorough)
	}
}
