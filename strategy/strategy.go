// Package strategy contains reusable plugin-mapping strategies.
// Strategies are consumers of the shadow's binding API: each Apply
// call declares which control kinds it wants and what the callbacks
// do. Host side effects (parameters, notes, UI navigation) go through
// the Host interface, which the strategies treat as opaque.
package strategy

import "go-surface/shadow"

// Host is the set of external services leaf callbacks invoke. The
// router neither retries nor validates these calls.
type Host interface {
	SetParam(index shadow.PluginIndex, param int, value float64)
	GetParam(index shadow.PluginIndex, param int) float64
	ParamName(index shadow.PluginIndex, param int) string
	NoteOn(index shadow.PluginIndex, note uint8, velocity float64, channel uint8)
	UINext()
	UIPrevious()
	UISelect()
}
