package strategy

import (
	"fmt"

	"go-surface/control"
	"go-surface/shadow"
)

// CC numbers of the three piano pedals
const (
	SustainCC   = 64
	SostenutoCC = 66
	SoftCC      = 67
)

// ParamCCStart is the parameter offset where hosts expose MIDI CC
// values as plugin parameters.
const ParamCCStart = 4096

// Pedals forwards sustain/sostenuto/soft pedal movement to the focused
// plugin's CC parameters.
type Pedals struct {
	host   Host
	strict bool
}

// NewPedals creates the pedal strategy. A strict strategy reports an
// error from Apply when no pedal controls exist on the surface.
func NewPedals(host Host, strict bool) *Pedals {
	return &Pedals{host: host, strict: strict}
}

func (p *Pedals) Apply(s *shadow.Shadow) error {
	kinds := map[control.Kind]int{
		control.KindSustainPedal:   SustainCC,
		control.KindSostenutoPedal: SostenutoCC,
		control.KindSoftPedal:      SoftCC,
	}

	bound := false
	for kind, cc := range kinds {
		h, err := s.BindMatch(
			kind,
			p.onPedal,
			shadow.WithGuards(shadow.ToPlugin),
			shadow.WithArgs(cc),
			shadow.BestEffort(),
		)
		if err != nil {
			return err
		}
		if !h.Empty() {
			bound = true
		}
	}

	if p.strict && !bound {
		return fmt.Errorf("pedals: %w", shadow.ErrBindingConflict)
	}
	return nil
}

func (p *Pedals) onPedal(ctx shadow.Context, m *control.Match) bool {
	p.host.SetParam(ctx.Index, ParamCCStart+ctx.Args.(int), m.Value)
	return true
}
