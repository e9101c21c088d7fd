package shadow

import "go-surface/control"

// IndexKind discriminates what currently has focus on the host
type IndexKind int

const (
	// IndexNone means nothing relevant has focus
	IndexNone IndexKind = iota
	// IndexWindow is a host window
	IndexWindow
	// IndexGenerator is an instrument plugin on a channel
	IndexGenerator
	// IndexEffect is an effect plugin in a mixer slot
	IndexEffect
)

// PluginIndex addresses the plugin or window a dispatch targets
type PluginIndex struct {
	Kind    IndexKind
	Window  int
	Channel int
	Slot    int
}

// NoIndex returns the "nothing focused" index
func NoIndex() PluginIndex {
	return PluginIndex{Kind: IndexNone}
}

// WindowIndex addresses a host window
func WindowIndex(w int) PluginIndex {
	return PluginIndex{Kind: IndexWindow, Window: w}
}

// GeneratorIndex addresses an instrument on a channel
func GeneratorIndex(channel int) PluginIndex {
	return PluginIndex{Kind: IndexGenerator, Channel: channel}
}

// EffectIndex addresses an effect in a mixer slot
func EffectIndex(channel, slot int) PluginIndex {
	return PluginIndex{Kind: IndexEffect, Channel: channel, Slot: slot}
}

// IsPlugin reports whether the index addresses a plugin of either sort
func (i PluginIndex) IsPlugin() bool {
	return i.Kind == IndexGenerator || i.Kind == IndexEffect
}

// Guard filters a dispatch before the event callback runs. Guards are
// composable predicates; wrapping callbacks in decorator functions is
// deliberately avoided.
type Guard func(ctx Context, m *control.Match) bool

// OnLift passes only releases (value 0). Buttons usually act on lift
// so a press-and-hold doesn't fire twice.
func OnLift(ctx Context, m *control.Match) bool {
	return m.IsLift()
}

// OnPress passes only presses (non-zero value)
func OnPress(ctx Context, m *control.Match) bool {
	return !m.IsLift()
}

// ToPlugin passes only when a plugin has focus
func ToPlugin(ctx Context, m *control.Match) bool {
	return ctx.Index.IsPlugin()
}

// ToGenerator passes only when an instrument plugin has focus
func ToGenerator(ctx Context, m *control.Match) bool {
	return ctx.Index.Kind == IndexGenerator
}

// ToEffect passes only when an effect plugin has focus
func ToEffect(ctx Context, m *control.Match) bool {
	return ctx.Index.Kind == IndexEffect
}

// ToWindow passes only when a host window has focus
func ToWindow(ctx Context, m *control.Match) bool {
	return ctx.Index.Kind == IndexWindow
}

// ToSafe passes whenever anything has focus
func ToSafe(ctx Context, m *control.Match) bool {
	return ctx.Index.Kind != IndexNone
}
