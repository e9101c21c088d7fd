package theme

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is an indexed color table, typically a hardware LED palette
// where the index doubles as the velocity byte to send.
type Palette struct {
	Name   string
	Colors []Color
	// Index i of Colors maps to Values[i] on the wire; when Values is
	// nil the slice index itself is the wire value.
	Values []uint8
}

// LoadGPL reads a GIMP palette file. Lines are "R G B [name]"; the
// optional trailing name field may carry the wire value as "v=NN".
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := &Palette{}
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Name:") {
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}

		// Skip headers and comments
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		r, err1 := strconv.Atoi(fields[0])
		g, err2 := strconv.Atoi(fields[1])
		b, err3 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		p.Colors = append(p.Colors, Color{uint8(r), uint8(g), uint8(b)})

		value := len(p.Colors) - 1
		for _, f := range fields[3:] {
			if v, ok := strings.CutPrefix(f, "v="); ok {
				if n, err := strconv.Atoi(v); err == nil {
					value = n
				}
			}
		}
		p.Values = append(p.Values, uint8(value))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors found in palette %s", path)
	}

	return p, nil
}

// MustLoadGPL panics on error - for compile-time-known palette paths
func MustLoadGPL(path string) *Palette {
	p, err := LoadGPL(path)
	if err != nil {
		panic(fmt.Sprintf("failed to load palette %s: %v", path, err))
	}
	return p
}

// Nearest returns the wire value of the palette entry closest to c,
// using perceptual (Lab) distance rather than plain RGB distance so
// dim LED colors don't all collapse to black.
func (p *Palette) Nearest(c Color) uint8 {
	target := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}

	best := 0
	bestDist := -1.0
	for i, pc := range p.Colors {
		entry := colorful.Color{
			R: float64(pc.R) / 255,
			G: float64(pc.G) / 255,
			B: float64(pc.B) / 255,
		}
		dist := target.DistanceLab(entry)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = i
		}
	}

	if p.Values != nil {
		return p.Values[best]
	}
	return uint8(best)
}

// LaunchpadX returns the built-in palette for the Launchpad X, mapping
// approximate RGB values to the device's velocity-indexed colors.
func LaunchpadX() *Palette {
	entries := []struct {
		value   uint8
		r, g, b uint8
	}{
		{0, 0, 0, 0},         // off
		{5, 255, 0, 0},       // red
		{7, 180, 60, 60},     // dim red
		{9, 255, 100, 0},     // orange
		{11, 180, 80, 40},    // dim orange
		{13, 255, 200, 0},    // yellow
		{19, 0, 100, 0},      // dim green
		{21, 0, 255, 0},      // green
		{37, 0, 200, 200},    // cyan
		{43, 40, 60, 120},    // dim blue
		{45, 0, 100, 255},    // blue
		{49, 150, 0, 200},    // purple
		{53, 255, 80, 180},   // pink
		{84, 255, 150, 50},   // bright orange
		{87, 150, 255, 100},  // lime
		{97, 180, 180, 60},   // dim yellow
		{1, 32, 32, 32},      // dim white
		{3, 127, 127, 127},   // white
		{119, 255, 255, 255}, // bright white
	}

	p := &Palette{Name: "launchpad-x"}
	for _, e := range entries {
		p.Colors = append(p.Colors, Color{e.r, e.g, e.b})
		p.Values = append(p.Values, e.value)
	}
	return p
}
