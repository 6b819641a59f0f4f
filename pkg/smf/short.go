package smf

import "fmt"

// Channel voice commands (status high nibble).
const (
	NoteOff         = 0x80
	NoteOn          = 0x90
	Aftertouch      = 0xA0
	Controller      = 0xB0
	ProgramChange   = 0xC0
	ChannelPressure = 0xD0
	PitchWheel      = 0xE0
)

type shortSpec struct {
	title   string
	dataLen int
}

// Indexed by status>>4 - 8.
var voiceSpecs = [...]shortSpec{
	{"Note Off", 2},
	{"Note On", 2},
	{"Aftertouch", 2},
	{"Controller", 2},
	{"Program Change", 1},
	{"Channel Pressure", 1},
	{"Pitch Wheel", 2},
}

var commonTitles = map[byte]shortSpec{
	0xF1: {"MTC Quarter Frame", 1},
	0xF2: {"Song Position Pointer", 2},
	0xF3: {"Song Select", 1},
	0xF6: {"Tune Request", 0},
}

var realtimeTitles = map[byte]shortSpec{
	0xF8: {"Clock", 0},
	0xF9: {"Tick", 0},
	0xFA: {"Start", 0},
	0xFB: {"Stop", 0},
	0xFC: {"Continue", 0},
	0xFE: {"Active Sense", 0},
}

func lookupShort(status byte) (shortSpec, bool) {
	switch KindOf(status) {
	case KindVoice:
		return voiceSpecs[status>>4-8], true
	case KindSystemCommon:
		return commonTitles[status], true
	case KindSystemRealtime:
		return realtimeTitles[status], true
	}
	return shortSpec{}, false
}

// ShortDataLen returns how many data bytes follow a channel voice, system
// common or system realtime status byte.
func ShortDataLen(status byte) (int, error) {
	spec, ok := lookupShort(status)
	if !ok {
		return 0, fmt.Errorf("status 0x%02X: %w", status, ErrUnknownMessageClassification)
	}
	return spec.dataLen, nil
}

// ShortMessage is a channel voice, system common or system realtime message:
// a status byte followed by up to two data bytes.
type ShortMessage struct {
	status byte
	data1  byte
	data2  byte
}

// NewShortMessage builds a message from a status byte and its data bytes.
// Missing data bytes are zero; extra ones are an error.
func NewShortMessage(status byte, data ...byte) (*ShortMessage, error) {
	m := &ShortMessage{}
	if err := m.SetStatus(status); err != nil {
		return nil, err
	}
	n, err := ShortDataLen(status)
	if err != nil {
		return nil, err
	}
	if len(data) > n {
		return nil, invalidField("ShortMessage", "data", HexString(data))
	}
	if len(data) > 0 {
		if err := m.SetData1(data[0]); err != nil {
			return nil, err
		}
	}
	if len(data) > 1 {
		if err := m.SetData2(data[1]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *ShortMessage) message() {}

func (m *ShortMessage) Status() byte { return m.status }
func (m *ShortMessage) Data1() byte  { return m.data1 }
func (m *ShortMessage) Data2() byte  { return m.data2 }

// SetStatus accepts any status byte that does not belong to SysEx or META.
func (m *ShortMessage) SetStatus(status byte) error {
	if !IsStatusByte(status) || status == StatusSysEx || status == StatusSysExEscape || status == StatusMeta {
		return invalidField("ShortMessage", "status", fmt.Sprintf("0x%02X", status))
	}
	m.status = status
	return nil
}

func (m *ShortMessage) SetData1(b byte) error {
	if !IsDataByte(b) {
		return invalidField("ShortMessage", "data1", fmt.Sprintf("0x%02X", b))
	}
	m.data1 = b
	return nil
}

func (m *ShortMessage) SetData2(b byte) error {
	if !IsDataByte(b) {
		return invalidField("ShortMessage", "data2", fmt.Sprintf("0x%02X", b))
	}
	m.data2 = b
	return nil
}

// Command returns the status high nibble for voice messages, or the whole
// status byte otherwise.
func (m *ShortMessage) Command() byte {
	if m.Kind() == KindVoice {
		return m.status & 0xF0
	}
	return m.status
}

// Channel returns the zero based channel of a voice message.
func (m *ShortMessage) Channel() (uint8, bool) {
	if m.Kind() != KindVoice {
		return 0, false
	}
	return m.status & 0x0F, true
}

// Packed returns status | data1<<8 | data2<<16.
func (m *ShortMessage) Packed() uint32 {
	return uint32(m.status) | uint32(m.data1)<<8 | uint32(m.data2)<<16
}

func (m *ShortMessage) Kind() Kind {
	return KindOf(m.status)
}

// Title follows the velocity-zero convention: a Note On with data2 == 0 is
// reported as "Note Off".
func (m *ShortMessage) Title() (string, error) {
	spec, ok := lookupShort(m.status)
	if !ok {
		return "", fmt.Errorf("status 0x%02X: %w", m.status, ErrUnknownMessageClassification)
	}
	if m.Command() == NoteOn && m.data2 == 0 {
		return voiceSpecs[0].title, nil
	}
	return spec.title, nil
}

func (m *ShortMessage) DataLen() int {
	spec, _ := lookupShort(m.status)
	return spec.dataLen
}

func (m *ShortMessage) Len() int {
	return 1 + m.DataLen()
}

func (m *ShortMessage) Bytes() []byte {
	out := []byte{m.status, m.data1, m.data2}
	return out[:m.Len()]
}

func (m *ShortMessage) HexString() string {
	return HexString(m.Bytes())
}

func (m *ShortMessage) String() string {
	return renderMessage(m)
}
