package converter

import (
	"fmt"

	"github.com/james-see/smfkit/pkg/smf"
)

// Summarize collects per-track statistics for display and JSON output.
func Summarize(f *smf.File) *Summary {
	div := f.Division()
	s := &Summary{
		Format:          f.Format(),
		Division:        uint16(div),
		TicksPerQuarter: div.TicksPerQuarterNote(),
		Tracks:          make([]TrackSummary, 0, f.NumTracks()),
	}
	if s.TicksPerQuarter == 0 && div != 0 {
		fps, tpf := div.SMPTE()
		s.SMPTE = fmt.Sprintf("%d fps, %d ticks per frame", fps, tpf)
	}

	s.Bytes = len(f.Header().Bytes())
	for i, t := range f.Tracks() {
		ts := summarizeTrack(i, t)
		s.Bytes += 8 + int(ts.Length)
		s.Tracks = append(s.Tracks, ts)
	}
	return s
}

func summarizeTrack(index int, t *smf.Track) TrackSummary {
	ts := TrackSummary{
		Index:      index,
		Events:     t.Len(),
		Length:     t.Header().Length(),
		TotalTicks: t.TotalTicks(),
		Notes:      countNotes(t),
		Kinds:      make(map[string]int),
	}

	seen := make(map[string]bool)
	for _, ev := range t.Events() {
		msg := ev.Message()
		ts.Kinds[msg.Kind().String()]++

		switch m := msg.(type) {
		case *smf.MetaMessage:
			if m.Type() == smf.MetaTrackName && ts.Name == "" {
				ts.Name = string(m.Data())
			}
			if us, ok := m.Tempo(); ok && ts.Tempo == 0 && us > 0 {
				ts.Tempo = 60000000.0 / float64(us)
			}
		case *smf.SysExMessage:
			if m.Status() != SysExStart {
				continue
			}
			id, err := ExtractManufacturerID(append([]byte{SysExStart}, m.Data()...))
			if err != nil {
				continue
			}
			if name := ManufacturerName(id); !seen[name] {
				seen[name] = true
				ts.Manufacturers = append(ts.Manufacturers, name)
			}
		}
	}
	return ts
}
