// Package control stores the state of every logical control on a
// surface. Controls live in an Arena and are referenced everywhere
// else by stable ID handles, so matchers and bindings never hold
// aliased pointers into each other's state.
package control

import (
	"time"

	"go-surface/debug"
	"go-surface/midi"
	"go-surface/pattern"
	"go-surface/theme"
)

// Kind classifies what a control is for. Bindings select controls by
// kind rather than by physical position.
type Kind int

const (
	KindNull Kind = iota // catch-all, absorbs events silently
	KindNote
	KindDrumPad
	KindFader
	KindKnob
	KindSustainPedal
	KindSostenutoPedal
	KindSoftPedal
	KindPlay
	KindStop
	KindShift
	KindDirectionUp
	KindDirectionDown
	KindDirectionLeft
	KindDirectionRight
	KindDirectionNext
	KindDirectionPrevious
	KindDirectionSelect
	KindControlSwitch
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNote:
		return "note"
	case KindDrumPad:
		return "drum-pad"
	case KindFader:
		return "fader"
	case KindKnob:
		return "knob"
	case KindSustainPedal:
		return "sustain-pedal"
	case KindSostenutoPedal:
		return "sostenuto-pedal"
	case KindSoftPedal:
		return "soft-pedal"
	case KindPlay:
		return "play"
	case KindStop:
		return "stop"
	case KindShift:
		return "shift"
	case KindDirectionUp:
		return "direction-up"
	case KindDirectionDown:
		return "direction-down"
	case KindDirectionLeft:
		return "direction-left"
	case KindDirectionRight:
		return "direction-right"
	case KindDirectionNext:
		return "direction-next"
	case KindDirectionPrevious:
		return "direction-previous"
	case KindDirectionSelect:
		return "direction-select"
	case KindControlSwitch:
		return "control-switch"
	default:
		return "unknown"
	}
}

// ID is a stable handle into an Arena, valid for the arena's lifetime
type ID int

// None is the zero-value "no control" handle
const None ID = -1

// Match is the result of resolving an event to a control. Value is the
// normalized data byte; Double is set when this press landed within
// the double-press window of the previous one.
type Match struct {
	Control ID
	Value   float64
	Double  bool
	Channel uint8
}

// IsLift reports whether the matched event was a release
func (m *Match) IsLift() bool {
	return m.Value == 0
}

// Output receives visual state pushed during ticks. Implemented by
// device LED sinks; a nil Output on the arena makes ticks no-ops.
type Output interface {
	SetColor(coord [2]int, c theme.Color) error
	SetAnnotation(coord [2]int, text string) error
}

// DoublePressWindow is the default interval within which two presses
// count as one double-press.
const DoublePressWindow = 450 * time.Millisecond

type state struct {
	kind       Kind
	pattern    pattern.Pattern
	coord      [2]int
	value      float64
	color      theme.Color
	annotation string
	lastPress  time.Time
	dirty      bool
}

// Arena owns all control state for one surface session
type Arena struct {
	slots  []state
	out    Output
	window time.Duration
	now    func() time.Time
}

// Option configures an Arena
type Option func(*Arena)

// WithOutput attaches a visual sink
func WithOutput(out Output) Option {
	return func(a *Arena) { a.out = out }
}

// WithDoublePressWindow overrides the double-press interval
func WithDoublePressWindow(d time.Duration) Option {
	return func(a *Arena) { a.window = d }
}

// WithClock overrides the time source (tests)
func WithClock(now func() time.Time) Option {
	return func(a *Arena) { a.now = now }
}

// NewArena creates an empty arena
func NewArena(opts ...Option) *Arena {
	a := &Arena{
		window: DoublePressWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// New registers a control and returns its handle
func (a *Arena) New(kind Kind, pat pattern.Pattern, coord [2]int) ID {
	a.slots = append(a.slots, state{
		kind:    kind,
		pattern: pat,
		coord:   coord,
		dirty:   true,
	})
	return ID(len(a.slots) - 1)
}

// NewNull registers a catch-all control that matches everything
func (a *Arena) NewNull() ID {
	return a.New(KindNull, pattern.True{}, [2]int{-1, -1})
}

// Len returns the number of registered controls
func (a *Arena) Len() int {
	return len(a.slots)
}

// Match tests ev against the control's pattern. On a hit the control's
// value is updated from the event and the double-press window is
// evaluated; the event's source time drives the window so detection is
// independent of tick cadence.
func (a *Arena) Match(id ID, ev midi.Event) *Match {
	s := &a.slots[id]
	if !s.pattern.Matches(ev) {
		return nil
	}

	value := float64(ev.Data2) / 127
	double := false
	if value > 0 {
		when := ev.Time
		if when.IsZero() {
			when = a.now()
		}
		if !s.lastPress.IsZero() && when.Sub(s.lastPress) <= a.window {
			double = true
			// Consume the window so a triple press is not two doubles
			s.lastPress = time.Time{}
		} else {
			s.lastPress = when
		}
	}
	s.value = value

	return &Match{
		Control: id,
		Value:   value,
		Double:  double,
		Channel: ev.Channel,
	}
}

// Kind returns the control's kind
func (a *Arena) Kind(id ID) Kind {
	return a.slots[id].kind
}

// Coord returns the control's grid coordinate
func (a *Arena) Coord(id ID) [2]int {
	return a.slots[id].coord
}

// Value returns the control's last matched value
func (a *Arena) Value(id ID) float64 {
	return a.slots[id].value
}

// SetValue overwrites the control's value without an event
func (a *Arena) SetValue(id ID, v float64) {
	a.slots[id].value = v
}

// Color returns the control's current color
func (a *Arena) Color(id ID) theme.Color {
	return a.slots[id].color
}

// SetColor updates the color, marking the control for redraw
func (a *Arena) SetColor(id ID, c theme.Color) {
	s := &a.slots[id]
	if s.color == c {
		return
	}
	s.color = c
	s.dirty = true
}

// Annotation returns the control's current annotation text
func (a *Arena) Annotation(id ID) string {
	return a.slots[id].annotation
}

// SetAnnotation updates the annotation, marking the control for redraw
func (a *Arena) SetAnnotation(id ID, text string) {
	s := &a.slots[id]
	if s.annotation == text {
		return
	}
	s.annotation = text
	s.dirty = true
}

// TickControl pushes the control's visual state to the output sink.
// Cheap ticks only push controls whose state changed since the last
// push; thorough ticks push unconditionally.
func (a *Arena) TickControl(id ID, thorough bool) {
	s := &a.slots[id]
	if !thorough && !s.dirty {
		return
	}
	s.dirty = false
	if a.out == nil || s.coord[0] < 0 {
		return
	}
	if err := a.out.SetColor(s.coord, s.color); err != nil {
		debug.Log("control", "color push %v: %v", s.coord, err)
	}
	if err := a.out.SetAnnotation(s.coord, s.annotation); err != nil {
		debug.Log("control", "annotation push %v: %v", s.coord, err)
	}
}
