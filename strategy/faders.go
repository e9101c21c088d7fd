package strategy

import (
	"go-surface/control"
	"go-surface/shadow"
	"go-surface/theme"
)

var defaultFaderColor = theme.FromInteger(0x222222)

// SimpleFaders binds one fader per plugin parameter: moving the fader
// writes the parameter, and each tick pulls the parameter's value and
// name back onto the control.
type SimpleFaders struct {
	host   Host
	params []int
	color  theme.Color
	arena  *control.Arena
	ticker int
}

// NewSimpleFaders maps the given parameter numbers onto faders
func NewSimpleFaders(host Host, params []int) *SimpleFaders {
	return &SimpleFaders{
		host:   host,
		params: params,
		color:  defaultFaderColor,
	}
}

// Colorize overrides the bound color for all the faders
func (f *SimpleFaders) Colorize(c theme.Color) *SimpleFaders {
	f.color = c
	return f
}

func (f *SimpleFaders) Apply(s *shadow.Shadow) error {
	f.arena = s.Arena()
	_, err := s.BindMatches(
		control.KindFader,
		len(f.params),
		f.onFader,
		shadow.WithTick(f.tickFader),
		shadow.WithGuards(shadow.ToPlugin),
		shadow.WithArgsFunc(func(i int, id control.ID) any { return f.params[i] }),
		shadow.WithColor(f.color),
		shadow.BestEffort(),
	)
	return err
}

func (f *SimpleFaders) onFader(ctx shadow.Context, m *control.Match) bool {
	f.host.SetParam(ctx.Index, ctx.Args.(int), m.Value)
	return true
}

// Polling parameter values every frame is too expensive, so the value
// read is decimated; the name read is cheap and runs every tick.
func (f *SimpleFaders) tickFader(ctx shadow.Context, id control.ID) {
	if !ctx.Index.IsPlugin() {
		return
	}
	param := ctx.Args.(int)
	f.ticker++
	if f.ticker%10 == 0 {
		f.arena.SetValue(id, f.host.GetParam(ctx.Index, param))
	}
	f.arena.SetAnnotation(id, f.host.ParamName(ctx.Index, param))
}
