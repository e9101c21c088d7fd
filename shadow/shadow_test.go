package shadow

import (
	"errors"
	"testing"

	"go-surface/control"
	"go-surface/matcher"
	"go-surface/midi"
	"go-surface/pattern"
	"go-surface/theme"
)

// Fixture surface: two pads, a fader, and a catch-all null.
type fixture struct {
	arena *control.Arena
	padA  control.ID
	padB  control.ID
	fader control.ID
	shad  *Shadow
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{arena: control.NewArena()}
	m := matcher.NewBasic(f.arena)

	f.padA = f.arena.New(control.KindDrumPad, pattern.Note(11), [2]int{0, 0})
	f.padB = f.arena.New(control.KindDrumPad, pattern.Note(12), [2]int{0, 1})
	f.fader = f.arena.New(control.KindFader, pattern.CC(10), [2]int{0, 8})
	m.MustAdd(f.padA)
	m.MustAdd(f.padB)
	m.MustAdd(f.fader)
	m.MustAdd(f.arena.NewNull())

	f.shad = New(f.arena, m)
	return f
}

func noteOn(note, vel uint8) midi.Event {
	return midi.Event{Kind: midi.KindNoteOn, Data1: note, Data2: vel}
}

func TestBindDispatchRoundTrip(t *testing.T) {
	f := newFixture(t)

	var calls int
	var gotValue float64
	h, err := f.shad.BindMatch(control.KindDrumPad, func(ctx Context, m *control.Match) bool {
		calls++
		gotValue = m.Value
		return true
	})
	if err != nil {
		t.Fatalf("BindMatch: %v", err)
	}
	if len(h.Controls()) != 1 || h.Controls()[0] != f.padA {
		t.Fatalf("claimed %v, want first pad %d", h.Controls(), f.padA)
	}

	if !f.shad.Dispatch(NoIndex(), noteOn(11, 64)) {
		t.Fatal("dispatch should report consumption")
	}
	if calls != 1 {
		t.Fatalf("callback ran %d times, want 1", calls)
	}
	if gotValue != 64.0/127 {
		t.Errorf("value = %v, want 64/127", gotValue)
	}

	// padB is unbound: matched but nobody owns it
	if f.shad.Dispatch(NoIndex(), noteOn(12, 64)) {
		t.Error("unbound control should not consume")
	}

	f.shad.Release(h)
	if f.shad.Dispatch(NoIndex(), noteOn(11, 64)) {
		t.Error("released binding should not fire")
	}
	if calls != 1 {
		t.Errorf("callback ran after release, calls = %d", calls)
	}
}

func TestBindMatchesClaimsInOrder(t *testing.T) {
	f := newFixture(t)

	h, err := f.shad.BindMatches(control.KindDrumPad, 0, func(Context, *control.Match) bool {
		return true
	})
	if err != nil {
		t.Fatalf("BindMatches: %v", err)
	}
	got := h.Controls()
	if len(got) != 2 || got[0] != f.padA || got[1] != f.padB {
		t.Errorf("claimed %v, want [%d %d]", got, f.padA, f.padB)
	}
}

func TestBindingConflict(t *testing.T) {
	f := newFixture(t)

	cb := func(Context, *control.Match) bool { return true }

	if _, err := f.shad.BindMatch(control.KindFader, cb); err != nil {
		t.Fatalf("first fader bind: %v", err)
	}

	_, err := f.shad.BindMatch(control.KindFader, cb)
	if !errors.Is(err, ErrBindingConflict) {
		t.Errorf("second fader bind: got %v, want ErrBindingConflict", err)
	}

	_, err = f.shad.BindMatch(control.KindKnob, cb)
	if !errors.Is(err, ErrBindingConflict) {
		t.Errorf("bind with no such kind: got %v, want ErrBindingConflict", err)
	}

	h, err := f.shad.BindMatch(control.KindKnob, cb, BestEffort())
	if err != nil {
		t.Fatalf("best-effort bind: %v", err)
	}
	if !h.Empty() {
		t.Error("best-effort bind on missing kind should claim nothing")
	}

	// Short claim with a target is also a conflict unless best-effort
	_, err = f.shad.BindMatches(control.KindDrumPad, 3, cb)
	if !errors.Is(err, ErrBindingConflict) {
		t.Errorf("short claim: got %v, want ErrBindingConflict", err)
	}
	h, err = f.shad.BindMatches(control.KindDrumPad, 3, cb, BestEffort())
	if err != nil || len(h.Controls()) != 2 {
		t.Errorf("best-effort short claim: h=%v err=%v", h, err)
	}
}

func TestArgsGenerator(t *testing.T) {
	f := newFixture(t)

	var got []int
	_, err := f.shad.BindMatches(control.KindDrumPad, 0,
		func(ctx Context, m *control.Match) bool {
			got = append(got, ctx.Args.(int))
			return true
		},
		WithArgsFunc(func(i int, id control.ID) any { return i * 10 }),
	)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	f.shad.Dispatch(NoIndex(), noteOn(11, 100))
	f.shad.Dispatch(NoIndex(), noteOn(12, 100))
	if len(got) != 2 || got[0] != 0 || got[1] != 10 {
		t.Errorf("args = %v, want [0 10]", got)
	}
}

func TestGuardsBlockDispatch(t *testing.T) {
	f := newFixture(t)

	var calls int
	_, err := f.shad.BindMatch(control.KindDrumPad,
		func(Context, *control.Match) bool { calls++; return true },
		WithGuards(OnLift),
	)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	if f.shad.Dispatch(NoIndex(), noteOn(11, 100)) {
		t.Error("guarded press should not consume")
	}
	if !f.shad.Dispatch(NoIndex(), midi.Event{Kind: midi.KindNoteOff, Data1: 11}) {
		t.Error("lift should pass the guard")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestColorizeAndAnnotate(t *testing.T) {
	f := newFixture(t)

	want := theme.FromInteger(0x888888)
	h, err := f.shad.BindMatch(control.KindFader,
		func(Context, *control.Match) bool { return true },
		WithColor(want),
		WithAnnotation("Volume"),
	)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	if got := f.arena.Color(f.fader); got != want {
		t.Errorf("color = %v, want %v", got, want)
	}
	if got := f.arena.Annotation(f.fader); got != "Volume" {
		t.Errorf("annotation = %q, want Volume", got)
	}

	f.shad.Release(h)
	if got := f.arena.Color(f.fader); got != theme.Off {
		t.Errorf("released color = %v, want off", got)
	}
	if got := f.arena.Annotation(f.fader); got != "" {
		t.Errorf("released annotation = %q, want empty", got)
	}
}

func TestTickCallbacks(t *testing.T) {
	f := newFixture(t)

	ticked := make(map[control.ID]int)
	_, err := f.shad.BindMatches(control.KindDrumPad, 0,
		func(Context, *control.Match) bool { return true },
		WithTick(func(ctx Context, id control.ID) { ticked[id]++ }),
	)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	f.shad.TickAll(NoIndex())
	f.shad.TickAll(NoIndex())
	if ticked[f.padA] != 2 || ticked[f.padB] != 2 {
		t.Errorf("ticks = %v, want 2 each", ticked)
	}
}

func TestRebindReplacesGeneration(t *testing.T) {
	f := newFixture(t)

	var oldCalls, newCalls int
	strat := strategyFunc(func(s *Shadow) error {
		_, err := s.BindMatch(control.KindDrumPad,
			func(Context, *control.Match) bool { newCalls++; return true })
		return err
	})

	_, err := f.shad.BindMatch(control.KindDrumPad,
		func(Context, *control.Match) bool { oldCalls++; return true })
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	if err := f.shad.Rebind(strat); err != nil {
		t.Fatalf("rebind: %v", err)
	}

	f.shad.Dispatch(NoIndex(), noteOn(11, 100))
	if oldCalls != 0 || newCalls != 1 {
		t.Errorf("old=%d new=%d, want 0/1", oldCalls, newCalls)
	}
}

type strategyFunc func(*Shadow) error

func (f strategyFunc) Apply(s *Shadow) error { return f(s) }

func TestUnmatchedEventIsSilent(t *testing.T) {
	arena := control.NewArena()
	m := matcher.NewBasic(arena)
	m.MustAdd(arena.New(control.KindDrumPad, pattern.Note(11), [2]int{0, 0}))
	shad := New(arena, m)

	// No catch-all here: the event matches nothing at all
	if shad.Dispatch(NoIndex(), noteOn(99, 1)) {
		t.Error("unmatched event must be dropped silently")
	}
}
