// Package device builds control-surface profiles: the arena layout,
// matcher chain, and LED output for a concrete piece of hardware.
package device

import (
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-surface/control"
	"go-surface/debug"
	"go-surface/matcher"
	"go-surface/pattern"
	"go-surface/theme"
)

// Profile is an assembled surface: its control arena and the matcher
// chain the shadow dispatches through.
type Profile struct {
	Arena   *control.Arena
	Matcher matcher.Matcher
}

// Launchpad X layout
// 8x8 Grid:  Row 0 (bottom) = notes 11-18, Row 7 = notes 81-88
// Side col:  Col 8 (right side scene buttons) = notes 19, 29, ... 89
// Top row:   Row 8 (control row) = CC 91-98; LEDs addressed as notes 91-98

func rowColToNote(row, col int) uint8 {
	if row == 8 {
		return uint8(91 + col)
	}
	return uint8((row+1)*10 + col + 1)
}

// launchpadOutput pushes arena colors to the device as palette-mapped
// note messages. The Launchpad has no text display, so annotations
// only reach the debug log.
type launchpadOutput struct {
	send    func(gomidi.Message) error
	palette *theme.Palette
}

func (o *launchpadOutput) SetColor(coord [2]int, c theme.Color) error {
	note := rowColToNote(coord[0], coord[1])
	return o.send(gomidi.NoteOn(0, note, o.palette.Nearest(c)))
}

func (o *launchpadOutput) SetAnnotation(coord [2]int, text string) error {
	if text != "" {
		debug.Log("launchpad", "annotation %v: %s", coord, text)
	}
	return nil
}

// SetupLaunchpad sends the SysEx handshake switching the device into
// Programmer mode with LED feedback enabled.
func SetupLaunchpad(send func(gomidi.Message) error) {
	// F0 00 20 29 02 0C 00 7F F7 - programmer mode
	send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}))
	// F0 00 20 29 02 0C 08 <brightness> F7
	send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}))
	// F0 00 20 29 02 0C 0A 01 01 F7 - external LED feedback
	send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x0A, 0x01, 0x01}))
}

// NewLaunchpadX assembles the Launchpad X profile:
//
//   - main layer: the 8x8 grid as drum pads, top-row CCs 91-94 as
//     direction buttons, 97 as a control switch, 98 as stop, and a
//     null catch-all absorbing everything unclaimed
//   - "mixer" view (session button, CC 95): the right scene column as
//     faders, with fallback to the main layer for everything else
//   - "note" view (note button, CC 96): the grid as melodic notes,
//     isolated from the main layer (no fallback)
func NewLaunchpadX(send func(gomidi.Message) error, pal *theme.Palette, opts ...control.Option) (*Profile, error) {
	out := &launchpadOutput{send: send, palette: pal}
	arena := control.NewArena(append([]control.Option{control.WithOutput(out)}, opts...)...)

	main := matcher.NewBasic(arena)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			note := rowColToNote(row, col)
			id := arena.New(control.KindDrumPad, pattern.Note(note), [2]int{row, col})
			if err := main.Add(id); err != nil {
				return nil, err
			}
		}
	}

	topRow := []struct {
		cc   uint8
		kind control.Kind
	}{
		{91, control.KindDirectionUp},
		{92, control.KindDirectionDown},
		{93, control.KindDirectionLeft},
		{94, control.KindDirectionRight},
		{97, control.KindControlSwitch},
		{98, control.KindStop},
	}
	for _, b := range topRow {
		id := arena.New(b.kind, pattern.CC(b.cc), [2]int{8, int(b.cc - 91)})
		if err := main.Add(id); err != nil {
			return nil, err
		}
	}

	// Catch-all so stray traffic (aftertouch, unmapped CCs) is
	// swallowed instead of leaking to the host as unmatched noise
	if err := main.Add(arena.NewNull()); err != nil {
		return nil, err
	}

	// Mixer view: scene column becomes faders
	mixer := matcher.NewBasic(arena)
	for row := 0; row < 8; row++ {
		note := rowColToNote(row, 8)
		id := arena.New(control.KindFader, pattern.Note(note), [2]int{row, 8})
		if err := mixer.Add(id); err != nil {
			return nil, err
		}
	}
	sessionBtn := arena.New(control.KindNull, pattern.CC(95), [2]int{8, 4})

	// Note view: the grid replayed as melodic notes
	noteView := matcher.NewBasic(arena)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			note := rowColToNote(row, col)
			id := arena.New(control.KindNote, pattern.Note(note), [2]int{row, col})
			if err := noteView.Add(id); err != nil {
				return nil, err
			}
		}
	}
	noteBtn := arena.New(control.KindNull, pattern.CC(96), [2]int{8, 5})

	shift := matcher.NewShift(arena, main,
		&matcher.ShiftView{
			Name:               "mixer",
			Trigger:            sessionBtn,
			View:               mixer,
			AllowFallbackMatch: true,
		},
		&matcher.ShiftView{
			Name:                "note",
			Trigger:             noteBtn,
			View:                noteView,
			DisableInOtherViews: true,
		},
	)

	return &Profile{Arena: arena, Matcher: shift}, nil
}
