package converter

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/sinshu/go-meltysynth/meltysynth"
	gosmf "gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/smfkit/pkg/smf"
)

// Report is the outcome of re-reading our own encoding with independent
// decoders.
type Report struct {
	Format     uint16        `json:"format"`
	Tracks     int           `json:"tracks"`
	Resolution uint16        `json:"resolution"`
	Notes      []int         `json:"notes"`
	Identical  bool          `json:"identical"`
	Length     time.Duration `json:"length_ns"`
	Mismatches []string      `json:"mismatches,omitempty"`
	Skipped    []string      `json:"skipped,omitempty"`
}

// OK reports whether every reference decoder agreed.
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0
}

func (r *Report) mismatch(format string, args ...interface{}) {
	r.Mismatches = append(r.Mismatches, fmt.Sprintf(format, args...))
}

// Verify decodes data, encodes it again and checks the encoding with
// gomidi and meltysynth. Disagreements are listed in the report; only a
// failure of our own decoder is returned as an error.
func (c *Converter) Verify(data []byte) (*Report, error) {
	f, err := c.Decode(data)
	if err != nil {
		return nil, err
	}
	encoded, err := f.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}

	r := &Report{
		Format:     f.Format(),
		Tracks:     f.NumTracks(),
		Resolution: f.Division().TicksPerQuarterNote(),
		Identical:  bytes.Equal(encoded, data),
	}
	for _, t := range f.Tracks() {
		r.Notes = append(r.Notes, countNotes(t))
	}

	c.checkGomidi(r, encoded)
	c.checkMeltysynth(r, f, encoded)

	c.log.Info("verified file", "tracks", r.Tracks, "identical", r.Identical, "mismatches", len(r.Mismatches))
	return r, nil
}

func (c *Converter) checkGomidi(r *Report, encoded []byte) {
	g, err := gosmf.ReadFrom(bytes.NewReader(encoded))
	if err != nil {
		r.mismatch("gomidi: %v", err)
		return
	}

	if g.Format() != r.Format {
		r.mismatch("gomidi: format %d, want %d", g.Format(), r.Format)
	}
	if len(g.Tracks) != r.Tracks {
		r.mismatch("gomidi: %d track(s), want %d", len(g.Tracks), r.Tracks)
		return
	}
	if mt, ok := g.TimeFormat.(gosmf.MetricTicks); ok && mt.Resolution() != r.Resolution {
		r.mismatch("gomidi: resolution %d, want %d", mt.Resolution(), r.Resolution)
	}

	for i, track := range g.Tracks {
		notes := 0
		for _, ev := range track {
			msg := ev.Message
			if len(msg) >= 3 && msg[0]&0xF0 == smf.NoteOn && msg[2] > 0 {
				notes++
			}
		}
		if notes != r.Notes[i] {
			r.mismatch("gomidi: track %d has %d note(s), want %d", i, notes, r.Notes[i])
		}
	}
}

func (c *Converter) checkMeltysynth(r *Report, f *smf.File, encoded []byte) {
	if r.Resolution == 0 {
		r.Skipped = append(r.Skipped, "meltysynth: SMPTE division")
		return
	}
	m, err := meltysynth.NewMidiFile(bytes.NewReader(encoded))
	if err != nil {
		r.mismatch("meltysynth: %v", err)
		return
	}
	r.Length = m.GetLength()

	if r.Length == 0 && hasNotes(r.Notes) && lastTick(f) > 0 {
		r.mismatch("meltysynth: zero length for a file with notes")
	}
}

// ToGomidi rebuilds f with the gomidi writer. Only metrical divisions are
// supported. F7 escape events have no gomidi representation and are left
// out.
func ToGomidi(f *smf.File) (*gosmf.SMF, error) {
	tpq := f.Division().TicksPerQuarterNote()
	if tpq == 0 {
		return nil, errors.New("SMPTE division is not supported")
	}

	s := gosmf.New()
	s.TimeFormat = gosmf.MetricTicks(tpq)

	for i, t := range f.Tracks() {
		var track gosmf.Track
		var carry uint32
		for _, ev := range t.Events() {
			delta := carry + ev.Delta().Value()
			msg := ev.Message()
			switch {
			case ev.IsEndOfTrack():
				track.Close(delta)
				continue
			case msg.Status() == SysExEnd:
				carry = delta
				continue
			case msg.Status() == SysExStart:
				track.Add(delta, append([]byte{SysExStart}, msg.(*smf.SysExMessage).Data()...))
			default:
				track.Add(delta, msg.Bytes())
			}
			carry = 0
		}
		if err := s.Add(track); err != nil {
			return nil, fmt.Errorf("failed to add track %d: %w", i, err)
		}
	}
	return s, nil
}

// Normalize decodes data and writes it back through gomidi, which applies
// running status on output.
func (c *Converter) Normalize(data []byte) ([]byte, error) {
	f, err := c.Decode(data)
	if err != nil {
		return nil, err
	}
	s, err := ToGomidi(f)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

func countNotes(t *smf.Track) int {
	n := 0
	for _, ev := range t.Events() {
		m, ok := ev.Message().(*smf.ShortMessage)
		if ok && m.Command() == smf.NoteOn && m.Data2() > 0 {
			n++
		}
	}
	return n
}

func hasNotes(notes []int) bool {
	for _, n := range notes {
		if n > 0 {
			return true
		}
	}
	return false
}

func lastTick(f *smf.File) uint64 {
	var max uint64
	for _, t := range f.Tracks() {
		if n := t.TotalTicks(); n > max {
			max = n
		}
	}
	return max
}
