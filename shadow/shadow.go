// Package shadow is the binding layer between matched controls and the
// code that reacts to them. Mapping strategies declare which control
// kinds they want; the shadow claims controls, routes events to the
// owning callback, and drives the periodic visual refresh.
package shadow

import (
	"errors"

	"github.com/google/uuid"

	"go-surface/control"
	"go-surface/matcher"
	"go-surface/midi"
	"go-surface/theme"
)

// ErrBindingConflict is returned when a guaranteed bind finds no
// unclaimed control satisfying its selector.
var ErrBindingConflict = errors.New("no unclaimed control satisfies selector")

// Context carries per-dispatch state into callbacks: which plugin (or
// window) has focus, plus the per-control argument generated at bind
// time.
type Context struct {
	Index PluginIndex
	Args  any
}

// EventFunc handles a matched event for a bound control. The return
// value reports whether the event was acted on.
type EventFunc func(ctx Context, m *control.Match) bool

// TickFunc refreshes a bound control once per frame
type TickFunc func(ctx Context, id control.ID)

// Binding associates one claimed control with its callbacks
type Binding struct {
	control control.ID
	onEvent EventFunc
	onTick  TickFunc
	guards  []Guard
	args    any
}

// Handle identifies one bind call's claims so they can be released
// together. An empty handle (best-effort bind that claimed nothing) is
// safe to release.
type Handle struct {
	id       uuid.UUID
	controls []control.ID
}

// Controls returns the claimed control handles, in claim order
func (h *Handle) Controls() []control.ID {
	return h.controls
}

// Empty reports whether the bind claimed no controls
func (h *Handle) Empty() bool {
	return len(h.controls) == 0
}

// Strategy declares bindings against a shadow. Implementations live
// with the plugin mappings; they are re-applied on every focus change
// and must not retain control handles across generations.
type Strategy interface {
	Apply(s *Shadow) error
}

// Shadow owns the matcher chain for a surface and the current
// generation of bindings. One control is claimed by at most one
// binding at a time; switching focus resets the generation and
// re-applies strategies.
type Shadow struct {
	arena    *control.Arena
	matcher  matcher.Matcher
	bindings map[control.ID]*Binding
	handles  map[uuid.UUID]*Handle
	changed  bool // binding set changed, next tick must be thorough
}

// Arena exposes the control arena so bound callbacks can read and
// write control state.
func (s *Shadow) Arena() *control.Arena {
	return s.arena
}

// New creates a shadow over the given matcher chain
func New(arena *control.Arena, m matcher.Matcher) *Shadow {
	return &Shadow{
		arena:    arena,
		matcher:  m,
		bindings: make(map[control.ID]*Binding),
		handles:  make(map[uuid.UUID]*Handle),
		changed:  true,
	}
}

type bindConfig struct {
	onTick     TickFunc
	guards     []Guard
	color      *theme.Color
	annotation *string
	args       any
	argsFunc   func(i int, id control.ID) any
	bestEffort bool
}

// BindOption configures a bind call
type BindOption func(*bindConfig)

// WithTick attaches a per-frame callback to each claimed control
func WithTick(fn TickFunc) BindOption {
	return func(c *bindConfig) { c.onTick = fn }
}

// WithGuards prepends filters run before the event callback
func WithGuards(gs ...Guard) BindOption {
	return func(c *bindConfig) { c.guards = append(c.guards, gs...) }
}

// WithColor colorizes each claimed control
func WithColor(col theme.Color) BindOption {
	return func(c *bindConfig) { c.color = &col }
}

// WithAnnotation annotates each claimed control
func WithAnnotation(text string) BindOption {
	return func(c *bindConfig) { c.annotation = &text }
}

// WithArgs passes a fixed argument to every callback of this bind
func WithArgs(args any) BindOption {
	return func(c *bindConfig) { c.args = args }
}

// WithArgsFunc generates a per-control argument; i is the claim index
func WithArgsFunc(fn func(i int, id control.ID) any) BindOption {
	return func(c *bindConfig) { c.argsFunc = fn }
}

// BestEffort makes the bind return an empty or partial handle instead
// of ErrBindingConflict when the selector cannot be fully satisfied.
func BestEffort() BindOption {
	return func(c *bindConfig) { c.bestEffort = true }
}

// Selector picks which controls a bind may claim
type Selector func(a *control.Arena, id control.ID) bool

// ByKind selects controls of exactly one kind
func ByKind(k control.Kind) Selector {
	return func(a *control.Arena, id control.ID) bool {
		return a.Kind(id) == k
	}
}

// ByKinds selects controls of any of the given kinds
func ByKinds(kinds ...control.Kind) Selector {
	return func(a *control.Arena, id control.ID) bool {
		k := a.Kind(id)
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
}

// BindMatch claims the first unclaimed control of the given kind
func (s *Shadow) BindMatch(kind control.Kind, fn EventFunc, opts ...BindOption) (*Handle, error) {
	return s.Bind(ByKind(kind), 1, fn, opts...)
}

// BindMatches claims up to target unclaimed controls of the given
// kind; target <= 0 claims all of them.
func (s *Shadow) BindMatches(kind control.Kind, target int, fn EventFunc, opts ...BindOption) (*Handle, error) {
	return s.Bind(ByKind(kind), target, fn, opts...)
}

// Bind claims up to target unclaimed controls satisfying the selector
// (target <= 0: all of them) and installs a binding for each. Without
// BestEffort it is an error to come up short.
func (s *Shadow) Bind(sel Selector, target int, fn EventFunc, opts ...BindOption) (*Handle, error) {
	cfg := bindConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var claimed []control.ID
	for _, id := range s.matcher.Controls() {
		if target > 0 && len(claimed) == target {
			break
		}
		if _, taken := s.bindings[id]; taken {
			continue
		}
		if !sel(s.arena, id) {
			continue
		}
		claimed = append(claimed, id)
	}

	if !cfg.bestEffort {
		if len(claimed) == 0 || (target > 0 && len(claimed) < target) {
			return nil, ErrBindingConflict
		}
	}

	h := &Handle{id: uuid.New(), controls: claimed}
	for i, id := range claimed {
		args := cfg.args
		if cfg.argsFunc != nil {
			args = cfg.argsFunc(i, id)
		}
		s.bindings[id] = &Binding{
			control: id,
			onEvent: fn,
			onTick:  cfg.onTick,
			guards:  cfg.guards,
			args:    args,
		}
		if cfg.color != nil {
			s.arena.SetColor(id, *cfg.color)
		}
		if cfg.annotation != nil {
			s.arena.SetAnnotation(id, *cfg.annotation)
		}
	}
	s.handles[h.id] = h
	s.changed = true
	return h, nil
}

// Dispatch resolves an event through the matcher chain and invokes the
// binding owning the resolved control. Unmatched and unbound events
// are dropped, not errors: the stream is full of traffic that belongs
// to nobody.
func (s *Shadow) Dispatch(index PluginIndex, ev midi.Event) bool {
	match := s.matcher.MatchEvent(ev)
	if match == nil {
		return false
	}
	b, ok := s.bindings[match.Control]
	if !ok {
		return false
	}

	ctx := Context{Index: index, Args: b.args}
	for _, guard := range b.guards {
		if !guard(ctx, match) {
			return false
		}
	}
	return b.onEvent(ctx, match)
}

// TickAll runs every binding's tick callback, then ticks the matcher
// chain. The first tick after a binding change is thorough so stale
// visual state from the previous generation cannot linger.
func (s *Shadow) TickAll(index PluginIndex) {
	for id, b := range s.bindings {
		if b.onTick != nil {
			b.onTick(Context{Index: index, Args: b.args}, id)
		}
	}

	thorough := s.changed
	s.changed = false
	s.matcher.Tick(thorough)
}

// BindingCount returns the number of claimed controls this generation
func (s *Shadow) BindingCount() int {
	return len(s.bindings)
}

// Release drops the claims of one bind call
func (s *Shadow) Release(h *Handle) {
	if h == nil {
		return
	}
	for _, id := range h.controls {
		delete(s.bindings, id)
		s.arena.SetColor(id, theme.Off)
		s.arena.SetAnnotation(id, "")
	}
	delete(s.handles, h.id)
	s.changed = true
}

// Reset drops every binding, releasing all controls for the next
// generation.
func (s *Shadow) Reset() {
	for id := range s.bindings {
		s.arena.SetColor(id, theme.Off)
		s.arena.SetAnnotation(id, "")
	}
	s.bindings = make(map[control.ID]*Binding)
	s.handles = make(map[uuid.UUID]*Handle)
	s.changed = true
}

// Rebind resets the current generation and applies the strategies in
// order. Used on focus change.
func (s *Shadow) Rebind(strategies ...Strategy) error {
	s.Reset()
	for _, strat := range strategies {
		if err := strat.Apply(s); err != nil {
			return err
		}
	}
	return nil
}
