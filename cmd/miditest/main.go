// miditest pokes at the MIDI layer without starting the full router:
// list ports, watch decoded events resolve through a surface profile,
// and sanity-check the LED palette mapping on real hardware.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-surface/debug"
	"go-surface/device"
	"go-surface/matcher"
	"go-surface/midi"
	"go-surface/theme"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "watch":
		verbose := len(os.Args) > 2 && os.Args[2] == "-v"
		watchEvents(verbose)
	case "leds":
		testLEDs()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("go-surface MIDI test tool")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list   - List all MIDI ports")
	fmt.Println("  watch  - Decode events and show what control they resolve to (-v for router logs)")
	fmt.Println("  leds   - Sweep the palette across the pad grid")
}

// listPorts prints every port, starring the ones the router would
// auto-attach to.
func listPorts() {
	star := func(name string) string {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "launchpad") && strings.Contains(lower, "midi") {
			return " *"
		}
		return ""
	}

	fmt.Println("inputs:")
	for i, p := range gomidi.GetInPorts() {
		fmt.Printf("  %d: %s%s\n", i, p.String(), star(p.String()))
	}
	fmt.Println("outputs:")
	for i, p := range gomidi.GetOutPorts() {
		fmt.Printf("  %d: %s%s\n", i, p.String(), star(p.String()))
	}
}

func findLaunchpadOut() drivers.Out {
	for _, p := range gomidi.GetOutPorts() {
		name := strings.ToLower(p.String())
		if strings.Contains(name, "launchpad") && strings.Contains(name, "midi") {
			return p
		}
	}
	return nil
}

func findLaunchpadIn() drivers.In {
	for _, p := range gomidi.GetInPorts() {
		name := strings.ToLower(p.String())
		if strings.Contains(name, "launchpad") && strings.Contains(name, "midi") {
			return p
		}
	}
	return nil
}

// watchEvents resolves live input through a Launchpad profile and
// prints which control claims each event, including shift-layer
// transitions.
func watchEvents(verbose bool) {
	if verbose {
		debug.EnableWriter(os.Stdout)
	}
	in := findLaunchpadIn()
	if in == nil {
		fmt.Println("No Launchpad found")
		return
	}
	fmt.Printf("Watching %s (Ctrl+C to exit)\n", in.String())

	prof, err := device.NewLaunchpadX(
		func(gomidi.Message) error { return nil },
		theme.LaunchpadX(),
	)
	if err != nil {
		fmt.Printf("Error building profile: %v\n", err)
		return
	}
	shift := prof.Matcher.(*matcher.Shift)

	events := make(chan midi.Event, 64)
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		if ev, ok := midi.Decode(msg); ok {
			events <- ev
		}
	})
	if err != nil {
		fmt.Printf("Error opening input: %v\n", err)
		return
	}
	defer stop()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)

	for {
		select {
		case <-sigs:
			return
		case ev := <-events:
			m := prof.Matcher.MatchEvent(ev)
			layer := "main"
			if v := shift.ActiveView(); v != nil {
				layer = v.Name
			}
			if m == nil {
				fmt.Printf("%-32s  [%s] no match\n", ev, layer)
				continue
			}
			kind := prof.Arena.Kind(m.Control)
			double := ""
			if m.Double {
				double = " (double)"
			}
			fmt.Printf("%-32s  [%s] -> %s value=%.2f%s\n",
				ev, layer, kind, m.Value, double)
		}
	}
}

func testLEDs() {
	out := findLaunchpadOut()
	if out == nil {
		fmt.Println("No Launchpad found")
		return
	}

	send, err := gomidi.SendTo(out)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	device.SetupLaunchpad(send)
	time.Sleep(100 * time.Millisecond)

	fmt.Println("Sweeping palette colors across the grid...")
	pal := theme.LaunchpadX()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			c := pal.Colors[(row*8+col)%len(pal.Colors)]
			note := uint8((row+1)*10 + col + 1)
			send(gomidi.NoteOn(0, note, pal.Nearest(c)))
		}
		time.Sleep(100 * time.Millisecond)
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			note := uint8((row+1)*10 + col + 1)
			send(gomidi.NoteOn(0, note, 0))
		}
	}
	fmt.Println("Done!")
}
