// Package converter moves MIDI data between .mid files and raw SysEx dumps,
// and inspects files for the CLI, TUI and API.
package converter

import (
	"io"
	"log/slog"

	"github.com/james-see/smfkit/pkg/smf"
)

// DefaultDivision is used when a SysEx dump is wrapped into a new file.
const DefaultDivision smf.Division = 480

// Summary is a JSON friendly view of a decoded file.
type Summary struct {
	Format          uint16         `json:"format"`
	Division        uint16         `json:"division"`
	TicksPerQuarter uint16         `json:"ticks_per_quarter,omitempty"`
	SMPTE           string         `json:"smpte,omitempty"`
	Bytes           int            `json:"bytes"`
	Tracks          []TrackSummary `json:"tracks"`
}

// TrackSummary describes one track.
type TrackSummary struct {
	Index         int            `json:"index"`
	Name          string         `json:"name,omitempty"`
	Events        int            `json:"events"`
	Length        uint32         `json:"length"`
	TotalTicks    uint64         `json:"total_ticks"`
	Notes         int            `json:"notes"`
	Tempo         float64        `json:"tempo_bpm,omitempty"`
	Kinds         map[string]int `json:"kinds"`
	Manufacturers []string       `json:"sysex_manufacturers,omitempty"`
}

// Converter handles format conversions
type Converter struct {
	log      *slog.Logger
	division smf.Division
}

// New creates a Converter. A nil logger discards.
func New(log *slog.Logger) *Converter {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Converter{log: log, division: DefaultDivision}
}

// Division returns the division used for files built from SysEx dumps.
func (c *Converter) Division() smf.Division {
	return c.division
}

// SetDivision sets the division used for files built from SysEx dumps.
func (c *Converter) SetDivision(d smf.Division) {
	c.division = d
}
