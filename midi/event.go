package midi

import (
	"fmt"
	"time"
)

// Kind identifies the semantic type of a decoded MIDI event
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNoteOn
	KindNoteOff
	KindControlChange
	KindProgramChange
	KindPitchBend
	KindAftertouch
)

func (k Kind) String() string {
	switch k {
	case KindNoteOn:
		return "note-on"
	case KindNoteOff:
		return "note-off"
	case KindControlChange:
		return "cc"
	case KindProgramChange:
		return "program"
	case KindPitchBend:
		return "pitch-bend"
	case KindAftertouch:
		return "aftertouch"
	default:
		return "unknown"
	}
}

// Event is a decoded control-surface event. The wire bytes are decoded
// at the port boundary; everything downstream works with this record.
//
// Data1/Data2 carry the usual MIDI payload pair: note/velocity for note
// events, controller/value for CC, and so on. Immutable per occurrence.
type Event struct {
	Kind    Kind
	Data1   uint8
	Data2   uint8
	Channel uint8
	Time    time.Time
}

func (e Event) String() string {
	return fmt.Sprintf("%s ch=%d d1=%d d2=%d", e.Kind, e.Channel, e.Data1, e.Data2)
}
