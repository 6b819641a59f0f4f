package smf

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Track is an ordered list of events terminated by End Of Track.
type Track struct {
	events []*Event
}

// NewTrack returns an empty, unterminated track.
func NewTrack() *Track {
	return &Track{}
}

// AddEvent appends e. Nothing may follow the End Of Track event.
func (t *Track) AddEvent(e *Event) error {
	if e == nil || e.message == nil {
		return invalidField("Track", "event", nil)
	}
	if t.Closed() {
		return invalidField("Track", "event", "event after End Of Track: "+e.String())
	}
	t.events = append(t.events, e)
	return nil
}

// RemoveEvent deletes the event at index i.
func (t *Track) RemoveEvent(i int) error {
	if i < 0 || i >= len(t.events) {
		return fmt.Errorf("event index %d out of range [0,%d)", i, len(t.events))
	}
	t.events = append(t.events[:i], t.events[i+1:]...)
	return nil
}

// Events returns the events in playback order. The slice is a copy; the
// events are shared.
func (t *Track) Events() []*Event {
	out := make([]*Event, len(t.events))
	copy(out, t.events)
	return out
}

func (t *Track) Event(i int) *Event {
	return t.events[i]
}

func (t *Track) Len() int {
	return len(t.events)
}

// Closed reports whether the last event is End Of Track.
func (t *Track) Closed() bool {
	return len(t.events) > 0 && t.events[len(t.events)-1].IsEndOfTrack()
}

// Validate checks the terminal invariant.
func (t *Track) Validate() error {
	for i, e := range t.events {
		if e.IsEndOfTrack() && i != len(t.events)-1 {
			return fmt.Errorf("event %d: End Of Track before the last event: %w", i, ErrInvalidFieldValue)
		}
	}
	if !t.Closed() {
		return ErrMissingEndOfTrack
	}
	return nil
}

// TotalTicks sums the delta-times.
func (t *Track) TotalTicks() uint64 {
	var n uint64
	for _, e := range t.events {
		n += uint64(e.delta.Value())
	}
	return n
}

// Bytes encodes the track payload with every status byte written out.
func (t *Track) Bytes() []byte {
	var out []byte
	for _, e := range t.events {
		out = append(out, e.Bytes(true)...)
	}
	return out
}

// Header describes the chunk Bytes would produce.
func (t *Track) Header() *TrackHeader {
	data := t.Bytes()
	return &TrackHeader{id: TrackID, length: uint32(len(data)), data: data}
}

// Chunk encodes the complete MTrk chunk.
func (t *Track) Chunk() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	data := t.Bytes()
	out := make([]byte, 0, 8+len(data))
	out = append(out, TrackID...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
	return append(out, data...), nil
}

func (t *Track) String() string {
	var sb strings.Builder
	for i, e := range t.events {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.String())
	}
	return sb.String()
}
