package converter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/james-see/smfkit/pkg/smf"
)

// SysEx constants
const (
	SysExStart = smf.StatusSysEx
	SysExEnd   = smf.StatusSysExEscape
)

var (
	// ErrNoSysEx is returned when there are no System Exclusive messages to convert.
	ErrNoSysEx = errors.New("no SysEx messages found")
	// ErrInvalidSyx wraps every structural problem found in a .syx dump.
	ErrInvalidSyx = errors.New("invalid SysEx")
)

var manufacturers = map[string]string{
	"\x01":         "Sequential",
	"\x40":         "Kawai",
	"\x41":         "Roland",
	"\x42":         "Korg",
	"\x43":         "Yamaha",
	"\x44":         "Casio",
	"\x47":         "Akai",
	"\x7D":         "Non-Commercial",
	"\x7E":         "Universal Non-Real Time",
	"\x7F":         "Universal Real Time",
	"\x00\x20\x32": "Behringer",
	"\x00\x20\x29": "Novation",
	"\x00\x20\x6B": "Arturia",
	"\x00\x21\x1D": "Teenage Engineering",
}

// ValidateSyx validates a single SysEx message
func ValidateSyx(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("%w: data too short", ErrInvalidSyx)
	}

	if data[0] != SysExStart {
		return fmt.Errorf("%w: expected start byte 0x%02X, got 0x%02X", ErrInvalidSyx, SysExStart, data[0])
	}

	if data[len(data)-1] != SysExEnd {
		return fmt.Errorf("%w: expected end byte 0x%02X, got 0x%02X", ErrInvalidSyx, SysExEnd, data[len(data)-1])
	}

	for i := 1; i < len(data)-1; i++ {
		if data[i] > 127 {
			return fmt.Errorf("%w: byte at position %d is > 127 (0x%02X)", ErrInvalidSyx, i, data[i])
		}
	}

	return nil
}

// SplitSyx splits a dump of back to back F0 ... F7 messages and validates
// each one.
func SplitSyx(data []byte) ([][]byte, error) {
	var msgs [][]byte
	for start := 0; start < len(data); {
		end := bytes.IndexByte(data[start:], SysExEnd)
		if end < 0 {
			return nil, fmt.Errorf("message at offset %d: %w: missing end byte 0x%02X", start, ErrInvalidSyx, SysExEnd)
		}
		msg := data[start : start+end+1]
		if err := ValidateSyx(msg); err != nil {
			return nil, fmt.Errorf("message at offset %d: %w", start, err)
		}
		msgs = append(msgs, msg)
		start += end + 1
	}
	if len(msgs) == 0 {
		return nil, ErrNoSysEx
	}
	return msgs, nil
}

// ExtractManufacturerID extracts the manufacturer ID from SysEx data
func ExtractManufacturerID(data []byte) ([]byte, error) {
	if len(data) < 3 {
		return nil, errors.New("syx data too short for manufacturer ID")
	}

	if data[0] != SysExStart {
		return nil, errors.New("invalid SysEx start")
	}

	// Extended IDs start with 0x00 and take three bytes.
	if data[1] == 0x00 {
		if len(data) < 5 {
			return nil, errors.New("syx data too short for extended manufacturer ID")
		}
		return data[1:4], nil
	}

	return data[1:2], nil
}

// ManufacturerName names a manufacturer ID, falling back to hex.
func ManufacturerName(id []byte) string {
	if name, ok := manufacturers[string(id)]; ok {
		return name
	}
	return smf.HexString(id)
}

// SyxToMIDI wraps every message of a SysEx dump into one format 0 track,
// all at delta 0.
func (c *Converter) SyxToMIDI(syxData []byte) ([]byte, error) {
	msgs, err := SplitSyx(syxData)
	if err != nil {
		return nil, err
	}

	track := smf.NewTrack()
	for i, msg := range msgs {
		sysex, err := smf.NewSysExMessage(SysExStart, msg[1:])
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		ev, err := smf.NewEvent(smf.Quantity{}, sysex)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		if err := track.AddEvent(ev); err != nil {
			return nil, err
		}
	}
	eot, _ := smf.NewEvent(smf.Quantity{}, smf.NewEndOfTrack())
	if err := track.AddEvent(eot); err != nil {
		return nil, err
	}

	f, err := smf.NewFile(0, c.division)
	if err != nil {
		return nil, err
	}
	if err := f.AddTrack(track); err != nil {
		return nil, err
	}

	c.log.Debug("wrapped SysEx dump", "messages", len(msgs))
	return f.Bytes()
}

// MIDIToSyx extracts the System Exclusive events of a file into a dump.
// Messages split across an F0 event and following F7 events are joined.
func (c *Converter) MIDIToSyx(midiData []byte) ([]byte, error) {
	f, err := c.Decode(midiData)
	if err != nil {
		return nil, err
	}

	var out, pending []byte
	count := 0
	for _, t := range f.Tracks() {
		for _, ev := range t.Events() {
			sysex, ok := ev.Message().(*smf.SysExMessage)
			if !ok {
				continue
			}
			switch {
			case sysex.Status() == SysExStart:
				pending = append([]byte{SysExStart}, sysex.Data()...)
			case pending != nil:
				pending = append(pending, sysex.Data()...)
			default:
				// An F7 escape outside a split message carries arbitrary bytes.
				continue
			}
			if n := len(pending); n > 0 && pending[n-1] == SysExEnd {
				out = append(out, pending...)
				pending = nil
				count++
			}
		}
	}

	if count == 0 {
		return nil, ErrNoSysEx
	}
	c.log.Debug("extracted SysEx", "messages", count)
	return out, nil
}
