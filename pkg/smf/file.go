package smf

import (
	"fmt"
	"strings"
)

// File is a decoded Standard MIDI File. Tracks keep insertion order.
type File struct {
	format   uint16
	division Division
	tracks   []*Track
}

// NewFile returns an empty file with the given format and division.
func NewFile(format int, division Division) (*File, error) {
	f := &File{division: division}
	if err := f.SetFormat(format); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) Format() uint16 { return f.format }

func (f *File) SetFormat(format int) error {
	if !validFormat(format) {
		return invalidField("MidiFile", "format", format)
	}
	f.format = uint16(format)
	return nil
}

func (f *File) Division() Division { return f.division }

func (f *File) SetDivision(division int) error {
	if !isShort(division) {
		return invalidField("MidiFile", "division", division)
	}
	f.division = Division(division)
	return nil
}

// AddTrack appends t.
func (f *File) AddTrack(t *Track) error {
	if t == nil {
		return invalidField("MidiFile", "track", nil)
	}
	if len(f.tracks) == 0xFFFF {
		return invalidField("MidiFile", "track", "more than 65535 tracks")
	}
	f.tracks = append(f.tracks, t)
	return nil
}

// RemoveTrack deletes the track at index i, keeping the order of the rest.
func (f *File) RemoveTrack(i int) error {
	if i < 0 || i >= len(f.tracks) {
		return fmt.Errorf("track index %d out of range [0,%d)", i, len(f.tracks))
	}
	f.tracks = append(f.tracks[:i], f.tracks[i+1:]...)
	return nil
}

// Tracks returns a copy of the track list.
func (f *File) Tracks() []*Track {
	out := make([]*Track, len(f.tracks))
	copy(out, f.tracks)
	return out
}

func (f *File) Track(i int) *Track { return f.tracks[i] }

func (f *File) NumTracks() int { return len(f.tracks) }

// Header builds the MThd chunk for the current contents.
func (f *File) Header() *FileHeader {
	return &FileHeader{
		id:             HeaderID,
		length:         HeaderLength,
		format:         f.format,
		numberOfTracks: uint16(len(f.tracks)),
		division:       f.division,
	}
}

// Bytes encodes the whole file. Every track must be terminated.
func (f *File) Bytes() ([]byte, error) {
	out := f.Header().Bytes()
	for i, t := range f.tracks {
		chunk, err := t.Chunk()
		if err != nil {
			return nil, fmt.Errorf("encoding track %d: %w", i, err)
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func (f *File) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Format: %d\nDivision: %d", f.format, f.division)
	for i, t := range f.tracks {
		fmt.Fprintf(&sb, "\n\nTrack[%d]: %s", i, t.String())
	}
	return sb.String()
}
