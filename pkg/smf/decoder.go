package smf

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Decoder is one decode session over a byte buffer. It owns the cursor and
// the running status register, so separate decoders never share state.
type Decoder struct {
	cur           *Cursor
	runningStatus byte
	log           *slog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sends debug output about chunk boundaries to l.
func WithLogger(l *slog.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.log = l
		}
	}
}

// NewDecoder returns a decoder positioned at the start of buf.
func NewDecoder(buf []byte, opts ...Option) *Decoder {
	d := &Decoder{
		cur: NewCursor(buf),
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load decodes a complete file from data.
func Load(data []byte, opts ...Option) (*File, error) {
	return NewDecoder(data, opts...).ReadFile()
}

// LoadMidiFile reads r to the end and decodes the result.
func LoadMidiFile(r io.Reader, opts ...Option) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading MIDI data: %w", err)
	}
	return Load(data, opts...)
}

// Offset is the absolute position of the next read.
func (d *Decoder) Offset() int {
	return d.cur.Offset()
}

// RunningStatus returns the last explicit channel status seen, or 0.
func (d *Decoder) RunningStatus() byte {
	return d.runningStatus
}

// ReadFile decodes the header and exactly as many tracks as it declares.
// Nothing is returned unless every track decodes.
func (d *Decoder) ReadFile() (*File, error) {
	hdr, err := d.ReadHeader()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	f := &File{format: hdr.format, division: hdr.division}
	for i := 0; i < int(hdr.numberOfTracks); i++ {
		t, err := d.ReadTrack()
		if err != nil {
			return nil, fmt.Errorf("reading track %d: %w", i, err)
		}
		f.tracks = append(f.tracks, t)
	}
	if rest := d.cur.Remaining(); rest > 0 {
		d.log.Debug("trailing bytes after last track", "offset", d.cur.Offset(), "bytes", rest)
	}
	return f, nil
}

// ReadHeader decodes and validates the MThd chunk.
func (d *Decoder) ReadHeader() (*FileHeader, error) {
	h := &FileHeader{}

	start := d.cur.Offset()
	id, err := d.cur.ReadFixedString(4)
	if err != nil {
		return nil, err
	}
	if err := h.SetID(id); err != nil {
		return nil, fieldAt(start, err)
	}

	start = d.cur.Offset()
	length, err := d.cur.ReadUint(4)
	if err != nil {
		return nil, err
	}
	if err := h.SetLength(length); err != nil {
		return nil, fieldAt(start, err)
	}

	for _, set := range []func(int) error{h.SetFormat, h.SetNumberOfTracks, h.SetDivision} {
		start = d.cur.Offset()
		v, err := d.cur.ReadUint(2)
		if err != nil {
			return nil, err
		}
		if err := set(int(v)); err != nil {
			return nil, fieldAt(start, err)
		}
	}

	d.log.Debug("read header", "format", h.format, "tracks", h.numberOfTracks, "division", uint16(h.division))
	return h, nil
}

// ReadTrack decodes one MTrk chunk. Events are read until End Of Track;
// running out of chunk payload first is ErrMissingEndOfTrack.
func (d *Decoder) ReadTrack() (*Track, error) {
	hdr, body, err := d.readTrackHeader()
	if err != nil {
		return nil, err
	}

	// Running status never carries from one track into the next.
	d.runningStatus = 0
	outer := d.cur
	d.cur = body
	defer func() { d.cur = outer }()

	t := &Track{}
	for !t.Closed() {
		if d.cur.Remaining() == 0 {
			return nil, decodeErrorf(d.cur.Offset(), ErrMissingEndOfTrack,
				"track payload of %d byte(s) ended after %d event(s)", hdr.length, len(t.events))
		}
		e, err := d.ReadEvent()
		if err != nil {
			return nil, err
		}
		t.events = append(t.events, e)
	}

	if rest := d.cur.Remaining(); rest > 0 {
		d.log.Debug("skipping bytes after End Of Track", "offset", d.cur.Offset(), "bytes", rest)
	}
	d.log.Debug("read track", "events", len(t.events), "length", hdr.length)
	return t, nil
}

// readTrackHeader reads the MTrk prefix and returns a cursor bounded by the
// declared length. The outer cursor moves past the whole chunk.
func (d *Decoder) readTrackHeader() (*TrackHeader, *Cursor, error) {
	h := &TrackHeader{}

	start := d.cur.Offset()
	id, err := d.cur.ReadFixedString(4)
	if err != nil {
		return nil, nil, err
	}
	if err := h.SetID(id); err != nil {
		return nil, nil, fieldAt(start, err)
	}

	length, err := d.cur.ReadUint(4)
	if err != nil {
		return nil, nil, err
	}
	h.SetLength(length)

	body, err := d.cur.Sub(int(length))
	if err != nil {
		return nil, nil, err
	}
	h.data = body.buf
	return h, body, nil
}

// ReadEvent decodes a delta-time and one message.
func (d *Decoder) ReadEvent() (*Event, error) {
	delta, _, err := DecodeQuantity(d.cur)
	if err != nil {
		return nil, err
	}
	start := d.cur.Offset()
	msg, err := d.ReadMessage()
	if err != nil {
		return nil, err
	}
	e, err := NewEvent(delta, msg)
	if err != nil {
		return nil, fieldAt(start, err)
	}
	return e, nil
}

// ReadMessage decodes one message, applying and updating running status.
func (d *Decoder) ReadMessage() (Message, error) {
	start := d.cur.Offset()
	b, err := d.cur.ReadByte()
	if err != nil {
		return nil, err
	}

	switch b {
	case StatusMeta:
		return d.readMeta()
	case StatusSysEx, StatusSysExEscape:
		return d.readSysEx(b)
	}

	status := b
	if IsStatusByte(b) {
		if KindOf(b) == KindVoice {
			d.runningStatus = b
		}
	} else {
		if d.runningStatus == 0 {
			return nil, decodeErrorf(start, ErrInvalidDataByte, "data byte 0x%02X with no running status", b)
		}
		status = d.runningStatus
		if err := d.cur.Rewind(1); err != nil {
			return nil, err
		}
	}

	n, err := ShortDataLen(status)
	if err != nil {
		return nil, decodeErrorf(start, ErrUnknownMessageClassification, "status 0x%02X has no data length", status)
	}

	var data [2]byte
	for i := 0; i < n; i++ {
		at := d.cur.Offset()
		v, err := d.cur.ReadByte()
		if err != nil {
			return nil, err
		}
		if !IsDataByte(v) {
			return nil, decodeErrorf(at, ErrInvalidDataByte, "status byte 0x%02X where data byte %d of 0x%02X expected", v, i+1, status)
		}
		data[i] = v
	}

	return &ShortMessage{status: status, data1: data[0], data2: data[1]}, nil
}

func (d *Decoder) readMeta() (*MetaMessage, error) {
	typ, err := d.cur.ReadByte()
	if err != nil {
		return nil, err
	}
	data, err := d.readLengthPrefixed()
	if err != nil {
		return nil, err
	}
	return &MetaMessage{typ: typ, data: data}, nil
}

func (d *Decoder) readSysEx(status byte) (*SysExMessage, error) {
	data, err := d.readLengthPrefixed()
	if err != nil {
		return nil, err
	}
	return &SysExMessage{status: status, data: data}, nil
}

func (d *Decoder) readLengthPrefixed() ([]byte, error) {
	length, _, err := DecodeQuantity(d.cur)
	if err != nil {
		return nil, err
	}
	if length.Value() == 0 {
		return nil, nil
	}
	return d.cur.ReadBytes(int(length.Value()))
}

func fieldAt(offset int, err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		return &DecodeError{Offset: offset, Err: fe}
	}
	return err
}
