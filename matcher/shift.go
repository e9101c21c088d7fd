package matcher

import (
	"go-surface/control"
	"go-surface/debug"
	"go-surface/midi"
	"go-surface/theme"
)

// ShiftView is a modal overlay within a Shift matcher: while open, its
// View matcher claims events instead of the main layer. Constructed at
// setup and immutable afterwards; all runtime state lives in Shift.
type ShiftView struct {
	// Name labels the view in logs and monitoring
	Name string
	// Trigger opens and closes the view
	Trigger control.ID
	// View claims events while the view is open
	View Matcher

	// IgnoreSinglePress requires a double press to open the view; a
	// single press leaves the trigger behaving as an ordinary control.
	IgnoreSinglePress bool
	// DisableInOtherViews prevents activation while another view is
	// open. Set this when the trigger is also a control inside another
	// view.
	DisableInOtherViews bool
	// AllowFallbackMatch lets events the view doesn't claim fall
	// through to the main layer.
	AllowFallbackMatch bool
	// Debug logs this view's transitions
	Debug bool
}

// Shift overlays a main matcher with modal views, each opened by a
// trigger control. A single press holds a view open until the trigger
// lifts again; a double press sustains it without the physical hold.
//
// Trigger events still match normally so their lifts reach external
// callbacks; a trigger that should do nothing beyond switching views
// should be registered as a null control.
type Shift struct {
	arena *control.Arena
	main  Matcher
	views []*ShiftView
	null  control.ID

	active    *ShiftView
	sustained bool
	changed   bool // a transition happened, next tick must be thorough
}

// NewShift creates a shift matcher over the main layer
func NewShift(arena *control.Arena, main Matcher, views ...*ShiftView) *Shift {
	return &Shift{
		arena:   arena,
		main:    main,
		views:   views,
		null:    arena.NewNull(),
		changed: true,
	}
}

// ActiveView returns the open view, or nil when the main layer is live
func (s *Shift) ActiveView() *ShiftView {
	return s.active
}

// Sustained reports whether the open view is held by a double press
func (s *Shift) Sustained() bool {
	return s.sustained
}

func (s *Shift) MatchEvent(ev midi.Event) *control.Match {
	// Trigger scan first: view switching outranks everything else
	for _, view := range s.views {
		if s.active != nil && s.active != view && view.DisableInOtherViews {
			continue
		}
		match := s.arena.Match(view.Trigger, ev)
		if match == nil {
			continue
		}

		if match.IsLift() {
			// Only the open view's trigger closes anything
			if s.active == view {
				if s.sustained {
					// Sustained views survive the lift; keep the
					// trigger lit so the LED shows the held state
					s.sustained = false
					s.arena.SetValue(view.Trigger, 1.0)
					s.arena.SetColor(view.Trigger, theme.Enabled)
					s.logView(view, "lift, sustain cleared")
				} else {
					s.active = nil
					s.changed = true
					s.arena.SetColor(view.Trigger, theme.Disabled)
					s.logView(view, "closed")
				}
			}
			return match
		}

		// Re-pressing the open view's trigger must not re-enter it
		if s.active == view {
			return s.arena.Match(s.null, ev)
		}

		if match.Double {
			s.sustained = true
		} else {
			if view.IgnoreSinglePress {
				return match
			}
			s.sustained = false
		}
		s.active = view
		s.changed = true
		s.arena.SetColor(view.Trigger, theme.Enabled)
		s.logView(view, "opened (sustained=%v)", s.sustained)
		return match
	}

	if s.active != nil {
		if match := s.active.View.MatchEvent(ev); match != nil {
			return match
		}
		// Fallback permission belongs to the view that is open, not
		// to whichever view the trigger scan looked at last
		if s.active.AllowFallbackMatch {
			return s.main.MatchEvent(ev)
		}
		return nil
	}
	return s.main.MatchEvent(ev)
}

func (s *Shift) Controls() []control.ID {
	ids := s.main.Controls()
	for _, view := range s.views {
		ids = append(ids, view.Trigger)
		ids = append(ids, view.View.Controls()...)
	}
	return ids
}

func (s *Shift) Tick(thorough bool) {
	if s.changed {
		thorough = true
		s.changed = false
	}

	for _, view := range s.views {
		if s.active != view && view.DisableInOtherViews {
			continue
		}
		// Indicator-only triggers get the enabled/disabled treatment;
		// triggers with their own semantics keep their own color
		if s.arena.Kind(view.Trigger) == control.KindNull {
			if s.active == view {
				s.arena.SetColor(view.Trigger, theme.Enabled)
			} else {
				s.arena.SetColor(view.Trigger, theme.Disabled)
			}
		}
		s.arena.TickControl(view.Trigger, thorough)
	}

	// Only the live layer ticks; ticking a closed view would race the
	// active one for shared LEDs
	if s.active == nil {
		s.main.Tick(thorough)
	} else {
		s.active.View.Tick(thorough)
	}
}

func (s *Shift) logView(view *ShiftView, format string, args ...any) {
	if !view.Debug {
		return
	}
	debug.Log("shift", "view %s: "+format,
		append([]any{view.Name}, args...)...)
}
