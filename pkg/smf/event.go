package smf

import "fmt"

// Event pairs a delta-time with exactly one message.
type Event struct {
	delta   Quantity
	message Message
}

// NewEvent validates msg the same way SetMessage does.
func NewEvent(delta Quantity, msg Message) (*Event, error) {
	e := &Event{delta: delta}
	if err := e.SetMessage(msg); err != nil {
		return nil, err
	}
	return e, nil
}

// Delta is the number of ticks since the previous event in the track.
func (e *Event) Delta() Quantity { return e.delta }

func (e *Event) SetDelta(delta Quantity) {
	e.delta = delta
}

func (e *Event) Message() Message { return e.message }

// SetMessage rejects System Common and System Realtime messages, which have
// no representation inside a track chunk.
func (e *Event) SetMessage(msg Message) error {
	if msg == nil {
		return invalidField("Event", "message", nil)
	}
	switch k := msg.Kind(); k {
	case KindVoice, KindSystemExclusive, KindMeta:
	default:
		return invalidField("Event", "message", fmt.Sprintf("%s message 0x%02X", k, msg.Status()))
	}
	e.message = msg
	return nil
}

// IsEndOfTrack reports whether the event carries the FF 2F terminator.
func (e *Event) IsEndOfTrack() bool {
	meta, ok := e.message.(*MetaMessage)
	return ok && meta.IsEndOfTrack()
}

// Bytes encodes the delta-time followed by the message. With includeStatus
// false the status byte of a voice message is left out, for writers that
// apply running status themselves.
func (e *Event) Bytes(includeStatus bool) []byte {
	msg := e.message.Bytes()
	if !includeStatus && e.message.Kind() == KindVoice {
		msg = msg[1:]
	}
	return append(e.delta.Bytes(), msg...)
}

func (e *Event) String() string {
	return "[" + e.delta.String() + "]" + e.message.String()
}
