package device

import (
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-surface/control"
	"go-surface/matcher"
	"go-surface/midi"
	"go-surface/theme"
)

func newTestProfile(t *testing.T) (*Profile, *[]gomidi.Message) {
	t.Helper()
	var sent []gomidi.Message
	prof, err := NewLaunchpadX(func(msg gomidi.Message) error {
		sent = append(sent, msg)
		return nil
	}, theme.LaunchpadX())
	if err != nil {
		t.Fatalf("NewLaunchpadX: %v", err)
	}
	return prof, &sent
}

func at(sec int) time.Time {
	return time.Date(2026, 8, 24, 12, 0, sec, 0, time.UTC)
}

func TestGridResolvesToDrumPads(t *testing.T) {
	prof, _ := newTestProfile(t)

	// Bottom-left pad is note 11, top-right is note 88
	for _, note := range []uint8{11, 88} {
		ev := midi.Event{Kind: midi.KindNoteOn, Data1: note, Data2: 100, Time: at(0)}
		m := prof.Matcher.MatchEvent(ev)
		if m == nil {
			t.Fatalf("note %d unmatched", note)
		}
		if kind := prof.Arena.Kind(m.Control); kind != control.KindDrumPad {
			t.Errorf("note %d resolved to %v, want drum-pad", note, kind)
		}
	}
}

func TestTopRowDirections(t *testing.T) {
	prof, _ := newTestProfile(t)

	wantKinds := map[uint8]control.Kind{
		91: control.KindDirectionUp,
		92: control.KindDirectionDown,
		93: control.KindDirectionLeft,
		94: control.KindDirectionRight,
		97: control.KindControlSwitch,
		98: control.KindStop,
	}
	for cc, want := range wantKinds {
		ev := midi.Event{Kind: midi.KindControlChange, Data1: cc, Data2: 127, Time: at(0)}
		m := prof.Matcher.MatchEvent(ev)
		if m == nil {
			t.Fatalf("CC %d unmatched", cc)
		}
		if kind := prof.Arena.Kind(m.Control); kind != want {
			t.Errorf("CC %d resolved to %v, want %v", cc, kind, want)
		}
	}
}

func TestStrayTrafficIsAbsorbed(t *testing.T) {
	prof, _ := newTestProfile(t)

	ev := midi.Event{Kind: midi.KindAftertouch, Data1: 60, Data2: 0, Time: at(0)}
	m := prof.Matcher.MatchEvent(ev)
	if m == nil {
		t.Fatal("stray traffic should hit the catch-all, not go unmatched")
	}
	if kind := prof.Arena.Kind(m.Control); kind != control.KindNull {
		t.Errorf("stray traffic resolved to %v, want null", kind)
	}
}

func TestMixerViewFaders(t *testing.T) {
	prof, _ := newTestProfile(t)
	shift := prof.Matcher.(*matcher.Shift)

	// Scene column is part of the mixer view, not the main layer
	sceneEv := midi.Event{Kind: midi.KindNoteOn, Data1: 19, Data2: 100, Time: at(0)}
	m := prof.Matcher.MatchEvent(sceneEv)
	if m != nil && prof.Arena.Kind(m.Control) == control.KindFader {
		t.Fatal("faders must not be reachable while the mixer view is closed")
	}

	// Open the mixer with the session button
	open := midi.Event{Kind: midi.KindControlChange, Data1: 95, Data2: 127, Time: at(1)}
	if prof.Matcher.MatchEvent(open) == nil {
		t.Fatal("session press unmatched")
	}
	if v := shift.ActiveView(); v == nil || v.Name != "mixer" {
		t.Fatal("session press should open the mixer view")
	}

	sceneEv.Time = at(2)
	m = prof.Matcher.MatchEvent(sceneEv)
	if m == nil || prof.Arena.Kind(m.Control) != control.KindFader {
		t.Fatalf("scene button should be a fader inside the mixer view, got %+v", m)
	}

	// Fallback: grid pads still reach the main layer
	padEv := midi.Event{Kind: midi.KindNoteOn, Data1: 45, Data2: 100, Time: at(3)}
	m = prof.Matcher.MatchEvent(padEv)
	if m == nil || prof.Arena.Kind(m.Control) != control.KindDrumPad {
		t.Fatalf("mixer view should fall back to the grid, got %+v", m)
	}
}

func TestNoteViewIsolated(t *testing.T) {
	prof, _ := newTestProfile(t)

	open := midi.Event{Kind: midi.KindControlChange, Data1: 96, Data2: 127, Time: at(0)}
	if prof.Matcher.MatchEvent(open) == nil {
		t.Fatal("note button unmatched")
	}

	// Inside the note view the grid is melodic, not drum pads
	padEv := midi.Event{Kind: midi.KindNoteOn, Data1: 45, Data2: 100, Time: at(1)}
	m := prof.Matcher.MatchEvent(padEv)
	if m == nil || prof.Arena.Kind(m.Control) != control.KindNote {
		t.Fatalf("note view should claim the grid as notes, got %+v", m)
	}

	// No fallback: top-row directions are unreachable
	dirEv := midi.Event{Kind: midi.KindControlChange, Data1: 91, Data2: 127, Time: at(2)}
	if m := prof.Matcher.MatchEvent(dirEv); m != nil {
		t.Errorf("note view should isolate the main layer, got %+v", m)
	}
}

func TestLEDOutput(t *testing.T) {
	prof, sent := newTestProfile(t)

	ids := prof.Matcher.Controls()
	if len(ids) == 0 {
		t.Fatal("profile has no controls")
	}
	pad := ids[0]
	prof.Arena.SetColor(pad, theme.Color{R: 255, G: 0, B: 0})
	prof.Arena.TickControl(pad, false)

	if len(*sent) == 0 {
		t.Fatal("tick should push an LED message")
	}
	var ch, key, vel uint8
	if !(*sent)[len(*sent)-1].GetNoteOn(&ch, &key, &vel) {
		t.Fatal("LED update should be a note-on")
	}
	if key != 11 {
		t.Errorf("LED note = %d, want 11 for pad (0,0)", key)
	}
	if vel != 5 {
		t.Errorf("LED velocity = %d, want palette red (5)", vel)
	}
}
