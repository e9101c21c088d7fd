// Package pattern implements declarative predicates over decoded MIDI
// events. Patterns are pure and total: matching never fails and never
// mutates anything, so matchers can probe them freely on the hot path.
package pattern

import "go-surface/midi"

// Pattern tests whether a decoded event matches
type Pattern interface {
	Matches(ev midi.Event) bool
}

// Field is a predicate over a single data byte. The zero value matches
// anything, so unset fields in a Basic pattern act as wildcards.
type Field struct {
	test func(v uint8) bool
}

func (f Field) matches(v uint8) bool {
	if f.test == nil {
		return true
	}
	return f.test(v)
}

// Any matches every value (explicit wildcard)
func Any() Field {
	return Field{}
}

// Is matches exactly one value
func Is(want uint8) Field {
	return Field{test: func(v uint8) bool { return v == want }}
}

// OneOf matches any of the given values
func OneOf(vals ...uint8) Field {
	set := make(map[uint8]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return Field{test: func(v uint8) bool { return set[v] }}
}

// InRange matches lo <= v <= hi
func InRange(lo, hi uint8) Field {
	return Field{test: func(v uint8) bool { return lo <= v && v <= hi }}
}

// Masked matches (v & mask) == want
func Masked(mask, want uint8) Field {
	return Field{test: func(v uint8) bool { return v&mask == want }}
}

// Basic matches an event field-by-field. Kinds is the set of accepted
// event kinds (empty = any kind); the byte fields default to wildcards.
type Basic struct {
	Kinds   []midi.Kind
	Data1   Field
	Data2   Field
	Channel Field
}

func (p Basic) Matches(ev midi.Event) bool {
	if len(p.Kinds) > 0 {
		found := false
		for _, k := range p.Kinds {
			if k == ev.Kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return p.Data1.matches(ev.Data1) &&
		p.Data2.matches(ev.Data2) &&
		p.Channel.matches(ev.Channel)
}

// Union matches if any sub-pattern matches (short-circuits on first hit)
type Union []Pattern

func (p Union) Matches(ev midi.Event) bool {
	for _, sub := range p {
		if sub.Matches(ev) {
			return true
		}
	}
	return false
}

// Intersection matches if every sub-pattern matches (short-circuits on
// first miss)
type Intersection []Pattern

func (p Intersection) Matches(ev midi.Event) bool {
	for _, sub := range p {
		if !sub.Matches(ev) {
			return false
		}
	}
	return true
}

// True matches every event. Used for catch-all null-control slots that
// absorb unclaimed events without producing a visible action.
type True struct{}

func (True) Matches(midi.Event) bool { return true }

// NoteOn matches a note-on for the given note on any channel
func NoteOn(note uint8) Pattern {
	return Basic{Kinds: []midi.Kind{midi.KindNoteOn}, Data1: Is(note)}
}

// Note matches both press and release of the given note
func Note(note uint8) Pattern {
	return Basic{
		Kinds: []midi.Kind{midi.KindNoteOn, midi.KindNoteOff},
		Data1: Is(note),
	}
}

// CC matches a control change for the given controller number
func CC(controller uint8) Pattern {
	return Basic{Kinds: []midi.Kind{midi.KindControlChange}, Data1: Is(controller)}
}
