package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-surface/theme"
)

// RenderPad renders a single colored pad
func RenderPad(c theme.Color) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.String()))
	return style.Render("■")
}

// RenderPadRow renders a row of colored pads with spacing
func RenderPadRow(colors []theme.Color) string {
	var out strings.Builder
	for i, c := range colors {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderPad(c))
	}
	return out.String()
}

// RenderSurface renders the 9x9 control layout of a Launchpad-style
// surface (row 0 at bottom, control row 8 on top, scene column right).
// Missing positions render as dim placeholders.
func RenderSurface(colors map[[2]int]theme.Color) string {
	var lines []string
	for row := 8; row >= 0; row-- {
		var line strings.Builder
		for col := 0; col <= 8; col++ {
			if col > 0 {
				line.WriteString(" ")
			}
			if c, ok := colors[[2]int{row, col}]; ok {
				line.WriteString(RenderPad(c))
			} else {
				line.WriteString("·")
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(c theme.Color, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPad(c), name, desc)
}
