package smf

import (
	"fmt"
	"strings"
)

// Kind classifies a message by its status byte.
type Kind int

const (
	KindUnknown Kind = iota
	KindVoice
	KindSystemCommon
	KindSystemRealtime
	KindSystemExclusive
	KindMeta
)

var kindNames = [...]string{
	KindUnknown:         "Unknown",
	KindVoice:           "Voice",
	KindSystemCommon:    "System Common",
	KindSystemRealtime:  "System Realtime",
	KindSystemExclusive: "System Exclusive",
	KindMeta:            "META",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// Status bytes with a fixed meaning in a track.
const (
	StatusSysEx       = 0xF0
	StatusSysExEscape = 0xF7
	StatusMeta        = 0xFF
)

// Message is one of *ShortMessage, *SysExMessage or *MetaMessage.
type Message interface {
	// Status returns the status byte.
	Status() byte
	// Kind classifies the message from its status byte.
	Kind() Kind
	// Title names the specific message, e.g. "Note On" or "Tempo".
	Title() (string, error)
	// DataLen is the number of data bytes following the status (and, for
	// META, the type byte and length).
	DataLen() int
	// Len is the encoded size in bytes.
	Len() int
	// Bytes encodes the message including its status byte.
	Bytes() []byte
	HexString() string
	String() string

	message()
}

// KindOf classifies a status byte.
func KindOf(status byte) Kind {
	switch {
	case status < 0x80:
		return KindUnknown
	case status < 0xF0:
		return KindVoice
	case status == StatusMeta:
		return KindMeta
	case status == StatusSysEx, status == StatusSysExEscape:
		return KindSystemExclusive
	}
	if _, ok := commonTitles[status]; ok {
		return KindSystemCommon
	}
	if _, ok := realtimeTitles[status]; ok {
		return KindSystemRealtime
	}
	return KindUnknown
}

// IsStatusByte reports whether b has its high bit set.
func IsStatusByte(b byte) bool {
	return b&0x80 != 0
}

// IsDataByte reports whether b fits in seven bits.
func IsDataByte(b byte) bool {
	return b&0x80 == 0
}

// HexString renders bytes as upper case hex pairs separated by spaces.
func HexString(data []byte) string {
	var sb strings.Builder
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

func renderMessage(m Message) string {
	title, err := m.Title()
	if err != nil {
		title = "Unknown"
	}
	return "[" + m.Kind().String() + "][" + title + "][" + m.HexString() + "]"
}
