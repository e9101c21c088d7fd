package main

import (
	"fmt"

	"go-surface/control"
	"go-surface/debug"
	"go-surface/shadow"
	"go-surface/theme"
)

// logHost is a stand-in plugin host for running the router without a
// DAW attached: parameter writes land in memory and every call is
// logged, so bound strategies can be exercised end to end.
type logHost struct {
	params map[int]float64
}

func newLogHost() *logHost {
	return &logHost{params: make(map[int]float64)}
}

func (h *logHost) SetParam(index shadow.PluginIndex, param int, value float64) {
	h.params[param] = value
	debug.Log("host", "set param %d = %.3f", param, value)
}

func (h *logHost) GetParam(index shadow.PluginIndex, param int) float64 {
	return h.params[param]
}

func (h *logHost) ParamName(index shadow.PluginIndex, param int) string {
	return fmt.Sprintf("Param %d", param)
}

func (h *logHost) NoteOn(index shadow.PluginIndex, note uint8, velocity float64, channel uint8) {
	debug.Log("host", "note on %d vel=%.2f ch=%d", note, velocity, channel)
}

func (h *logHost) UINext()     { debug.Log("host", "ui next") }
func (h *logHost) UIPrevious() { debug.Log("host", "ui previous") }
func (h *logHost) UISelect()   { debug.Log("host", "ui select") }

// playPad forwards pad hits as notes on a chromatic layout
func (h *logHost) playPad(ctx shadow.Context, pad int, m *control.Match) bool {
	if m.IsLift() {
		return true
	}
	h.NoteOn(ctx.Index, uint8(36+pad), m.Value, m.Channel)
	return true
}

// padColor shades the grid so bound pads are visibly live
func (h *logHost) padColor(pad int) theme.Color {
	if pad%2 == 0 {
		return theme.FromInteger(0x202040)
	}
	return theme.FromInteger(0x103030)
}
