package smf

import "fmt"

// META event types.
const (
	MetaSequenceNumber = 0x00
	MetaText           = 0x01
	MetaCopyright      = 0x02
	MetaTrackName      = 0x03
	MetaInstrument     = 0x04
	MetaLyric          = 0x05
	MetaMarker         = 0x06
	MetaCuePoint       = 0x07
	MetaProgramName    = 0x08
	MetaDeviceName     = 0x09
	MetaChannelPrefix  = 0x20
	MetaPort           = 0x21
	MetaEndOfTrack     = 0x2F
	MetaTempo          = 0x51
	MetaSMPTEOffset    = 0x54
	MetaTimeSignature  = 0x58
	MetaKeySignature   = 0x59
	MetaProprietary    = 0x7F
)

var metaTitles = map[byte]string{
	MetaSequenceNumber: "Sequence Number",
	MetaText:           "Text",
	MetaCopyright:      "Copyright",
	MetaTrackName:      "Sequence/Track Name",
	MetaInstrument:     "Instrument",
	MetaLyric:          "Lyric",
	MetaMarker:         "Marker",
	MetaCuePoint:       "Cue Point",
	MetaProgramName:    "Program Name",
	MetaDeviceName:     "Device (Port) Name",
	MetaChannelPrefix:  "MIDI Channel",
	MetaPort:           "MIDI Port",
	MetaEndOfTrack:     "End Of Track",
	MetaTempo:          "Tempo",
	MetaSMPTEOffset:    "SMPTE Offset",
	MetaTimeSignature:  "Time Signature",
	MetaKeySignature:   "Key Signature",
	MetaProprietary:    "Proprietary Event",
}

func checkLength(entity string, data []byte) error {
	if len(data) > MaxQuantity {
		return invalidField(entity, "length", len(data))
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// SysExMessage is a System Exclusive event: F0 or F7, a length, and that
// many raw bytes. The length always matches the data.
type SysExMessage struct {
	status byte
	data   []byte
}

// NewSysExMessage copies data into a new message.
func NewSysExMessage(status byte, data []byte) (*SysExMessage, error) {
	m := &SysExMessage{}
	if err := m.SetStatus(status); err != nil {
		return nil, err
	}
	if err := m.SetData(data); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *SysExMessage) message() {}

func (m *SysExMessage) Status() byte { return m.status }

func (m *SysExMessage) SetStatus(status byte) error {
	if status != StatusSysEx && status != StatusSysExEscape {
		return invalidField("SysExMessage", "status", fmt.Sprintf("0x%02X", status))
	}
	m.status = status
	return nil
}

// Data returns a copy of the payload.
func (m *SysExMessage) Data() []byte {
	return cloneBytes(m.data)
}

func (m *SysExMessage) SetData(data []byte) error {
	if err := checkLength("SysExMessage", data); err != nil {
		return err
	}
	m.data = cloneBytes(data)
	return nil
}

// Length is the declared payload length.
func (m *SysExMessage) Length() Quantity {
	return Quantity{value: uint32(len(m.data))}
}

func (m *SysExMessage) Kind() Kind { return KindSystemExclusive }

func (m *SysExMessage) Title() (string, error) {
	return "General Message", nil
}

func (m *SysExMessage) DataLen() int { return len(m.data) }

func (m *SysExMessage) Len() int {
	return 1 + m.Length().Len() + len(m.data)
}

func (m *SysExMessage) Bytes() []byte {
	out := make([]byte, 0, m.Len())
	out = append(out, m.status)
	out = append(out, m.Length().Bytes()...)
	return append(out, m.data...)
}

func (m *SysExMessage) HexString() string {
	return HexString(m.Bytes())
}

func (m *SysExMessage) String() string {
	return renderMessage(m)
}

// MetaMessage is a non-MIDI META event: FF, a type byte, a length and data.
type MetaMessage struct {
	typ  byte
	data []byte
}

// NewMetaMessage copies data into a new META message of the given type.
func NewMetaMessage(typ byte, data []byte) (*MetaMessage, error) {
	m := &MetaMessage{typ: typ}
	if err := m.SetData(data); err != nil {
		return nil, err
	}
	return m, nil
}

// NewEndOfTrack returns the FF 2F 00 terminator.
func NewEndOfTrack() *MetaMessage {
	return &MetaMessage{typ: MetaEndOfTrack}
}

// NewTempo builds a Set Tempo event from microseconds per quarter note.
func NewTempo(microsPerQuarter uint32) (*MetaMessage, error) {
	if microsPerQuarter > 0xFFFFFF {
		return nil, invalidField("MetaMessage", "tempo", microsPerQuarter)
	}
	return &MetaMessage{
		typ:  MetaTempo,
		data: []byte{byte(microsPerQuarter >> 16), byte(microsPerQuarter >> 8), byte(microsPerQuarter)},
	}, nil
}

// NewTrackName stores name as raw bytes.
func NewTrackName(name string) (*MetaMessage, error) {
	return NewMetaMessage(MetaTrackName, []byte(name))
}

// NewTimeSignature builds FF 58 04 nn dd cc bb; denominatorPow2 is the
// power of two of the lower number (2 for a quarter note).
func NewTimeSignature(numerator, denominatorPow2, clocksPerClick, notated32ndsPerQuarter uint8) *MetaMessage {
	return &MetaMessage{
		typ:  MetaTimeSignature,
		data: []byte{numerator, denominatorPow2, clocksPerClick, notated32ndsPerQuarter},
	}
}

func (m *MetaMessage) message() {}

// Status is always FF.
func (m *MetaMessage) Status() byte { return StatusMeta }

func (m *MetaMessage) Type() byte { return m.typ }

func (m *MetaMessage) SetType(typ byte) {
	m.typ = typ
}

func (m *MetaMessage) Data() []byte {
	return cloneBytes(m.data)
}

func (m *MetaMessage) SetData(data []byte) error {
	if err := checkLength("MetaMessage", data); err != nil {
		return err
	}
	m.data = cloneBytes(data)
	return nil
}

func (m *MetaMessage) Length() Quantity {
	return Quantity{value: uint32(len(m.data))}
}

// IsEndOfTrack reports whether this is the track terminator.
func (m *MetaMessage) IsEndOfTrack() bool {
	return m.typ == MetaEndOfTrack
}

// Tempo returns microseconds per quarter note for a well formed Set Tempo
// event.
func (m *MetaMessage) Tempo() (uint32, bool) {
	if m.typ != MetaTempo || len(m.data) != 3 {
		return 0, false
	}
	return uint32(m.data[0])<<16 | uint32(m.data[1])<<8 | uint32(m.data[2]), true
}

func (m *MetaMessage) Kind() Kind { return KindMeta }

func (m *MetaMessage) Title() (string, error) {
	title, ok := metaTitles[m.typ]
	if !ok {
		return "", fmt.Errorf("META type 0x%02X: %w", m.typ, ErrUnknownMessageClassification)
	}
	return title, nil
}

func (m *MetaMessage) DataLen() int { return len(m.data) }

func (m *MetaMessage) Len() int {
	return 2 + m.Length().Len() + len(m.data)
}

func (m *MetaMessage) Bytes() []byte {
	out := make([]byte, 0, m.Len())
	out = append(out, StatusMeta, m.typ)
	out = append(out, m.Length().Bytes()...)
	return append(out, m.data...)
}

func (m *MetaMessage) HexString() string {
	return HexString(m.Bytes())
}

func (m *MetaMessage) String() string {
	return renderMessage(m)
}
