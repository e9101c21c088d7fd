package strategy

import (
	"go-surface/control"
	"go-surface/shadow"
	"go-surface/theme"
)

// PadFunc handles a hit on pad number pad (row-major index)
type PadFunc func(ctx shadow.Context, pad int, m *control.Match) bool

// PadColorFunc returns the color a pad should show this frame
type PadColorFunc func(ctx shadow.Context, pad int) theme.Color

// DrumPads binds a width x height grid of drum pads to a per-pad
// callback, numbering pads row-major. InvertRows counts rows from the
// top instead, for hardware whose note layout grows upward while the
// mapped instrument counts downward.
type DrumPads struct {
	Width      int
	Height     int
	InvertRows bool
	OnPad      PadFunc
	ColorPad   PadColorFunc // optional

	arena *control.Arena
}

func (d *DrumPads) Apply(s *shadow.Shadow) error {
	d.arena = s.Arena()

	opts := []shadow.BindOption{
		shadow.WithArgsFunc(d.padIndex),
		shadow.BestEffort(),
	}
	if d.ColorPad != nil {
		opts = append(opts, shadow.WithTick(d.tickPad))
	}

	_, err := s.BindMatches(
		control.KindDrumPad,
		d.Width*d.Height,
		d.onPad,
		opts...,
	)
	return err
}

// padIndex numbers claimed pads row-major across the configured grid
func (d *DrumPads) padIndex(i int, id control.ID) any {
	row := i / d.Width
	col := i % d.Width
	if d.InvertRows {
		row = d.Height - 1 - row
	}
	return row*d.Width + col
}

func (d *DrumPads) onPad(ctx shadow.Context, m *control.Match) bool {
	return d.OnPad(ctx, ctx.Args.(int), m)
}

func (d *DrumPads) tickPad(ctx shadow.Context, id control.ID) {
	d.arena.SetColor(id, d.ColorPad(ctx, ctx.Args.(int)))
}
