package smf

import (
	"encoding/binary"
	"fmt"
)

// Chunk identifiers and the fixed header length.
const (
	HeaderID     = "MThd"
	TrackID      = "MTrk"
	HeaderLength = 6
)

// Division is the MThd division field.
type Division uint16

// TicksPerQuarterNote returns the metrical resolution, or 0 when the
// division is SMPTE based.
func (d Division) TicksPerQuarterNote() uint16 {
	if d&0x8000 != 0 {
		return 0
	}
	return uint16(d)
}

// SMPTE returns frames per second and ticks per frame, or 0, 0 for a
// metrical division.
func (d Division) SMPTE() (fps uint8, ticksPerFrame uint8) {
	if d&0x8000 == 0 {
		return 0, 0
	}
	return uint8(-int8(d >> 8)), uint8(d & 0xFF)
}

func (d Division) String() string {
	if tpq := d.TicksPerQuarterNote(); tpq != 0 || d == 0 {
		return fmt.Sprintf("%d ticks per quarter note", tpq)
	}
	fps, tpf := d.SMPTE()
	return fmt.Sprintf("%d frames per second, %d ticks per frame", fps, tpf)
}

// FileHeader is the MThd chunk.
type FileHeader struct {
	id             string
	length         uint32
	format         uint16
	numberOfTracks uint16
	division       Division
}

// NewFileHeader returns a well formed header.
func NewFileHeader(format, numberOfTracks int, division Division) (*FileHeader, error) {
	h := &FileHeader{id: HeaderID, length: HeaderLength, division: division}
	if err := h.SetFormat(format); err != nil {
		return nil, err
	}
	if err := h.SetNumberOfTracks(numberOfTracks); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *FileHeader) ID() string             { return h.id }
func (h *FileHeader) Length() uint32         { return h.length }
func (h *FileHeader) Format() uint16         { return h.format }
func (h *FileHeader) NumberOfTracks() uint16 { return h.numberOfTracks }
func (h *FileHeader) Division() Division     { return h.division }

func (h *FileHeader) SetID(id string) error {
	if id != HeaderID {
		return invalidField("FileHeader", "id", fmt.Sprintf("%q", id))
	}
	h.id = id
	return nil
}

func (h *FileHeader) SetLength(length uint32) error {
	if length != HeaderLength {
		return invalidField("FileHeader", "length", length)
	}
	h.length = length
	return nil
}

func (h *FileHeader) SetFormat(format int) error {
	if !validFormat(format) {
		return invalidField("FileHeader", "format", format)
	}
	h.format = uint16(format)
	return nil
}

func (h *FileHeader) SetNumberOfTracks(n int) error {
	if !isShort(n) {
		return invalidField("FileHeader", "numberOfTracks", n)
	}
	h.numberOfTracks = uint16(n)
	return nil
}

func (h *FileHeader) SetDivision(d int) error {
	if !isShort(d) {
		return invalidField("FileHeader", "division", d)
	}
	h.division = Division(d)
	return nil
}

// Bytes encodes the 14-byte MThd chunk.
func (h *FileHeader) Bytes() []byte {
	out := make([]byte, 0, 8+HeaderLength)
	out = append(out, HeaderID...)
	out = binary.BigEndian.AppendUint32(out, HeaderLength)
	out = binary.BigEndian.AppendUint16(out, h.format)
	out = binary.BigEndian.AppendUint16(out, h.numberOfTracks)
	return binary.BigEndian.AppendUint16(out, uint16(h.division))
}

func (h *FileHeader) String() string {
	return fmt.Sprintf("Format %d, with %d track(s), %s", h.format, h.numberOfTracks, h.division)
}

// TrackHeader is the MTrk chunk prefix plus the raw payload as stored.
type TrackHeader struct {
	id     string
	length uint32
	data   []byte
}

func (h *TrackHeader) ID() string     { return h.id }
func (h *TrackHeader) Length() uint32 { return h.length }
func (h *TrackHeader) Data() []byte   { return cloneBytes(h.data) }

func (h *TrackHeader) SetID(id string) error {
	if id != TrackID {
		return invalidField("TrackHeader", "id", fmt.Sprintf("%q", id))
	}
	h.id = id
	return nil
}

func (h *TrackHeader) SetLength(length uint32) {
	h.length = length
}

func (h *TrackHeader) SetData(data []byte) {
	h.data = cloneBytes(data)
}

func validFormat(format int) bool {
	return format == 0 || format == 1 || format == 2
}

func isShort(v int) bool {
	return v >= 0 && v <= 0xFFFF
}
