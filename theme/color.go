// Package theme holds the color model shared by controls, bindings,
// and device LED output.
package theme

import "fmt"

// Color is an RGB color assigned to a control. Devices quantize it to
// whatever their hardware supports (see Palette.Nearest).
type Color struct {
	R, G, B uint8
}

// Semantic colors for shift triggers and bound-but-plain controls
var (
	Off      = Color{}
	Enabled  = Color{R: 0x7F, G: 0x7F, B: 0x7F}
	Disabled = Color{R: 0x20, G: 0x20, B: 0x20}
)

// FromInteger builds a color from a 0xRRGGBB literal
func FromInteger(rgb int) Color {
	return Color{
		R: uint8(rgb >> 16),
		G: uint8(rgb >> 8),
		B: uint8(rgb),
	}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
