package strategy

import (
	"go-surface/control"
	"go-surface/shadow"
	"go-surface/theme"
)

var boundDirectionColor = theme.FromInteger(0x888888)

// Directions maps direction buttons to host UI navigation. Buttons
// fire on lift so holding one doesn't scroll twice.
type Directions struct {
	host Host
}

// NewDirections creates the direction-button strategy
func NewDirections(host Host) *Directions {
	return &Directions{host: host}
}

func (d *Directions) Apply(s *shadow.Shadow) error {
	mappings := []struct {
		kind control.Kind
		fn   shadow.EventFunc
	}{
		{control.KindDirectionNext, d.next},
		{control.KindDirectionPrevious, d.previous},
		{control.KindDirectionRight, d.next},
		{control.KindDirectionLeft, d.previous},
		{control.KindDirectionDown, d.next},
		{control.KindDirectionUp, d.previous},
		{control.KindDirectionSelect, d.selekt},
	}

	for _, m := range mappings {
		_, err := s.BindMatch(
			m.kind,
			m.fn,
			shadow.WithGuards(shadow.OnLift),
			shadow.WithColor(boundDirectionColor),
			shadow.BestEffort(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Directions) next(ctx shadow.Context, m *control.Match) bool {
	d.host.UINext()
	return true
}

func (d *Directions) previous(ctx shadow.Context, m *control.Match) bool {
	d.host.UIPrevious()
	return true
}

func (d *Directions) selekt(ctx shadow.Context, m *control.Match) bool {
	d.host.UISelect()
	return true
}
