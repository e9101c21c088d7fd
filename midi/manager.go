package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-surface/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// PortEvent is emitted when a configured port connects or disconnects
type PortEvent struct {
	Type PortEventType
	Name string
}

type PortEventType int

const (
	PortConnected PortEventType = iota
	PortDisconnected
)

// Manager watches MIDI ports for a configured control surface, decodes
// its input into Events, and exposes a send function for LED feedback.
// Hot-plug is handled by polling, the rtmidi driver has no port
// change notifications.
type Manager struct {
	portName string
	pollRate time.Duration

	mu       sync.Mutex
	stopFunc func()
	send     func(gomidi.Message) error

	events     chan Event
	portEvents chan PortEvent
}

// NewManager creates a manager looking for the named port. An empty
// name matches the first port that looks like a control surface.
func NewManager(portName string) *Manager {
	return &Manager{
		portName:   portName,
		pollRate:   time.Second,
		events:     make(chan Event, 64),
		portEvents: make(chan PortEvent, 8),
	}
}

// Events returns the stream of decoded input events
func (m *Manager) Events() <-chan Event {
	return m.events
}

// PortEvents returns connect/disconnect notifications
func (m *Manager) PortEvents() <-chan PortEvent {
	return m.portEvents
}

// Send transmits a message to the connected output port. Returns nil
// silently when no port is connected so LED writes are safe to issue
// at any time.
func (m *Manager) Send(msg gomidi.Message) error {
	m.mu.Lock()
	send := m.send
	m.mu.Unlock()
	if send == nil {
		return nil
	}
	return send(msg)
}

// Connected reports whether an input port is currently open
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopFunc != nil
}

// Run starts the polling loop (blocking - run in goroutine)
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.pollRate)
	defer ticker.Stop()

	m.scan()

	for {
		select {
		case <-ctx.Done():
			m.disconnect()
			close(m.events)
			close(m.portEvents)
			return
		case <-ticker.C:
			m.scan()
		}
	}
}

func (m *Manager) scan() {
	inPorts := gomidi.GetInPorts()
	outPorts := gomidi.GetOutPorts()

	var in drivers.In
	for i, p := range inPorts {
		if m.portMatches(p.String()) {
			in = inPorts[i]
			break
		}
	}

	m.mu.Lock()
	connected := m.stopFunc != nil
	m.mu.Unlock()

	if in == nil {
		if connected {
			m.disconnect()
			m.portEvents <- PortEvent{Type: PortDisconnected, Name: m.portName}
		}
		return
	}
	if connected {
		return
	}

	var out drivers.Out
	for i, p := range outPorts {
		if strings.EqualFold(p.String(), in.String()) {
			out = outPorts[i]
			break
		}
	}

	if err := m.connect(in, out); err != nil {
		debug.Log("midi", "connect %q: %v", in.String(), err)
		return
	}
	m.portEvents <- PortEvent{Type: PortConnected, Name: in.String()}
}

func (m *Manager) connect(in drivers.In, out drivers.Out) error {
	var send func(gomidi.Message) error
	if out != nil {
		s, err := gomidi.SendTo(out)
		if err != nil {
			return err
		}
		send = s
	}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		ev, ok := Decode(msg)
		if !ok {
			return
		}
		select {
		case m.events <- ev:
		default:
			// Drop rather than block the driver callback
			debug.LogEvery(100, "midi", "input queue full, dropping %s", ev)
		}
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.stopFunc = stop
	m.send = send
	m.mu.Unlock()
	return nil
}

func (m *Manager) disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopFunc != nil {
		m.stopFunc()
		m.stopFunc = nil
	}
	m.send = nil
}

func (m *Manager) portMatches(name string) bool {
	if m.portName != "" {
		return strings.EqualFold(name, m.portName)
	}
	lower := strings.ToLower(name)
	return strings.Contains(lower, "launchpad") && strings.Contains(lower, "midi")
}

// Decode converts a raw gomidi message into an Event. Returns false
// for message types the router has no use for (sysex, clock, etc).
func Decode(msg gomidi.Message) (Event, bool) {
	ev := Event{Time: time.Now()}
	var channel, d1, d2 uint8

	switch {
	case msg.GetNoteOn(&channel, &d1, &d2):
		// Running-status note-off arrives as note-on with velocity 0
		if d2 == 0 {
			ev.Kind = KindNoteOff
		} else {
			ev.Kind = KindNoteOn
		}
	case msg.GetNoteOff(&channel, &d1, &d2):
		ev.Kind = KindNoteOff
	case msg.GetControlChange(&channel, &d1, &d2):
		ev.Kind = KindControlChange
	case msg.GetProgramChange(&channel, &d1):
		ev.Kind = KindProgramChange
	case msg.GetAfterTouch(&channel, &d1):
		ev.Kind = KindAftertouch
	default:
		var rel int16
		var abs uint16
		if msg.GetPitchBend(&channel, &rel, &abs) {
			ev.Kind = KindPitchBend
			d1 = uint8(abs & 0x7F)
			d2 = uint8(abs >> 7)
			break
		}
		return Event{}, false
	}

	ev.Channel = channel
	ev.Data1 = d1
	ev.Data2 = d2
	return ev, true
}
