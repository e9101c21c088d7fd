package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-surface/config"
	"go-surface/control"
	"go-surface/debug"
	"go-surface/device"
	"go-surface/matcher"
	"go-surface/midi"
	"go-surface/shadow"
	"go-surface/strategy"
	"go-surface/theme"
	"go-surface/tui"
)

const maxRecentEvents = 8

// router owns the single-threaded dispatch loop. All matching, state
// machine transitions, and ticks happen on one goroutine; the MIDI
// driver and the TUI only talk to it through channels and snapshots.
type router struct {
	mgr   *midi.Manager
	prof  *device.Profile
	shift *matcher.Shift
	shad  *shadow.Shadow
	index shadow.PluginIndex

	mu      sync.Mutex
	snap    tui.Snapshot
	updates chan struct{}
}

func (r *router) Snapshot() tui.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.snap
	snap.Colors = make(map[[2]int]theme.Color, len(r.snap.Colors))
	for k, v := range r.snap.Colors {
		snap.Colors[k] = v
	}
	snap.LastEvents = append([]string(nil), r.snap.LastEvents...)
	return snap
}

func (r *router) Updates() <-chan struct{} {
	return r.updates
}

func (r *router) notify() {
	select {
	case r.updates <- struct{}{}:
	default:
	}
}

func (r *router) run(ctx context.Context, tickRate time.Duration) {
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-r.mgr.Events():
			if !ok {
				return
			}
			consumed := r.shad.Dispatch(r.index, ev)
			r.recordEvent(ev, consumed)

		case pe := <-r.mgr.PortEvents():
			if pe.Type == midi.PortConnected {
				device.SetupLaunchpad(r.mgr.Send)
			}
			r.updateSnapshot(func(s *tui.Snapshot) {
				s.Connected = pe.Type == midi.PortConnected
				s.PortName = pe.Name
			})

		case <-ticker.C:
			r.shad.TickAll(r.index)
			r.refreshColors()
		}
	}
}

func (r *router) recordEvent(ev midi.Event, consumed bool) {
	line := ev.String()
	if consumed {
		line += "  ✓"
	}
	r.updateSnapshot(func(s *tui.Snapshot) {
		s.LastEvents = append(s.LastEvents, line)
		if len(s.LastEvents) > maxRecentEvents {
			s.LastEvents = s.LastEvents[len(s.LastEvents)-maxRecentEvents:]
		}
		if view := r.shift.ActiveView(); view != nil {
			s.ActiveView = view.Name
		} else {
			s.ActiveView = ""
		}
		s.Sustained = r.shift.Sustained()
	})
}

func (r *router) refreshColors() {
	arena := r.prof.Arena
	r.updateSnapshot(func(s *tui.Snapshot) {
		s.Bindings = r.shad.BindingCount()
		for _, id := range r.prof.Matcher.Controls() {
			coord := arena.Coord(id)
			if coord[0] >= 0 {
				s.Colors[coord] = arena.Color(id)
			}
		}
	})
}

func (r *router) updateSnapshot(fn func(*tui.Snapshot)) {
	r.mu.Lock()
	fn(&r.snap)
	r.mu.Unlock()
	r.notify()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Debug {
		debug.Enable()
		defer debug.Disable()
	}

	pal := theme.LaunchpadX()
	if cfg.PalettePath != "" {
		pal = theme.MustLoadGPL(cfg.PalettePath)
	}

	portName := ""
	if ctrl := cfg.AutoConnectController(); ctrl != nil {
		portName = ctrl.PortName
	}
	mgr := midi.NewManager(portName)

	prof, err := device.NewLaunchpadX(mgr.Send, pal,
		control.WithDoublePressWindow(cfg.DoublePressWindow()))
	if err != nil {
		fmt.Printf("Error building surface profile: %v\n", err)
		os.Exit(1)
	}
	shift := prof.Matcher.(*matcher.Shift)

	shad := shadow.New(prof.Arena, prof.Matcher)
	host := newLogHost()
	err = shad.Rebind(
		strategy.NewSimpleFaders(host, []int{0, 1, 2, 3, 4, 5, 6, 7}),
		strategy.NewPedals(host, false),
		strategy.NewDirections(host),
		&strategy.DrumPads{
			Width:  8,
			Height: 8,
			OnPad:  host.playPad,
			ColorPad: func(ctx shadow.Context, pad int) theme.Color {
				return host.padColor(pad)
			},
		},
	)
	if err != nil {
		fmt.Printf("Error binding strategies: %v\n", err)
		os.Exit(1)
	}

	r := &router{
		mgr:     mgr,
		prof:    prof,
		shift:   shift,
		shad:    shad,
		index:   shadow.GeneratorIndex(0),
		snap:    tui.Snapshot{Colors: make(map[[2]int]theme.Color)},
		updates: make(chan struct{}, 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go mgr.Run(ctx)

	go r.run(ctx, cfg.TickInterval())

	m := tui.NewModel(r)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
