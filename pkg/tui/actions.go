package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/james-see/smfkit/pkg/converter"
)

// Action is one menu entry. Output is the extension written next to the
// input file, or "" for actions that only display text.
type Action struct {
	Title       string
	Description string
	Input       converter.Format
	Output      string
	run         func(conv *converter.Converter, data []byte) (text string, out []byte, err error)
}

var actions = []Action{
	{
		Title:       "Dump",
		Description: "Decode a MIDI file and list every event",
		Input:       converter.FormatMIDI,
		run: func(conv *converter.Converter, data []byte) (string, []byte, error) {
			f, err := conv.Decode(data)
			if err != nil {
				return "", nil, err
			}
			return f.String(), nil, nil
		},
	},
	{
		Title:       "Summary",
		Description: "Per-track statistics as JSON",
		Input:       converter.FormatMIDI,
		run: func(conv *converter.Converter, data []byte) (string, []byte, error) {
			f, err := conv.Decode(data)
			if err != nil {
				return "", nil, err
			}
			b, err := json.MarshalIndent(converter.Summarize(f), "", "  ")
			if err != nil {
				return "", nil, err
			}
			return string(b), nil, nil
		},
	},
	{
		Title:       "Hex",
		Description: "Event bytes with running status applied",
		Input:       converter.FormatMIDI,
		run: func(conv *converter.Converter, data []byte) (string, []byte, error) {
			f, err := conv.Decode(data)
			if err != nil {
				return "", nil, err
			}
			return converter.HexDump(f, true), nil, nil
		},
	},
	{
		Title:       "Verify",
		Description: "Cross-check the encoding with gomidi and meltysynth",
		Input:       converter.FormatMIDI,
		run: func(conv *converter.Converter, data []byte) (string, []byte, error) {
			r, err := conv.Verify(data)
			if err != nil {
				return "", nil, err
			}
			return formatReport(r), nil, nil
		},
	},
	{
		Title:       "Round trip",
		Description: "Decode and re-encode with explicit status bytes",
		Input:       converter.FormatMIDI,
		Output:      ".roundtrip.mid",
		run:         convertWith((*converter.Converter).RoundTrip),
	},
	{
		Title:       "MIDI → SYX",
		Description: "Extract SysEx messages into a .syx dump",
		Input:       converter.FormatMIDI,
		Output:      ".syx",
		run:         convertWith((*converter.Converter).MIDIToSyx),
	},
	{
		Title:       "SYX → MIDI",
		Description: "Wrap a SysEx dump into a format 0 MIDI file",
		Input:       converter.FormatSyx,
		Output:      ".mid",
		run:         convertWith((*converter.Converter).SyxToMIDI),
	},
}

func convertWith(fn func(*converter.Converter, []byte) ([]byte, error)) func(*converter.Converter, []byte) (string, []byte, error) {
	return func(conv *converter.Converter, data []byte) (string, []byte, error) {
		out, err := fn(conv, data)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%d byte(s) in, %d byte(s) out", len(data), len(out)), out, nil
	}
}

// Run executes the action on the file at path. When the action produces a
// file, it is written next to the input and its path returned.
func (a Action) Run(conv *converter.Converter, path string) (text, outputFile string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}

	text, out, err := a.run(conv, data)
	if err != nil {
		return "", "", err
	}
	if a.Output == "" {
		return text, "", nil
	}

	outputFile = strings.TrimSuffix(path, filepath.Ext(path)) + a.Output
	if err := os.WriteFile(outputFile, out, 0644); err != nil {
		return "", "", err
	}
	return text, outputFile, nil
}

// AllowedTypes lists the extensions the file picker offers for the action.
func (a Action) AllowedTypes() []string {
	if a.Input == converter.FormatSyx {
		return []string{".syx"}
	}
	return []string{".mid", ".midi", ".smf"}
}

func formatReport(r *converter.Report) string {
	var s strings.Builder
	fmt.Fprintf(&s, "Format %d, %d track(s), resolution %d\n", r.Format, r.Tracks, r.Resolution)
	fmt.Fprintf(&s, "Notes per track: %v\n", r.Notes)
	fmt.Fprintf(&s, "Re-encoding identical to input: %v\n", r.Identical)
	fmt.Fprintf(&s, "Playable length (meltysynth): %s\n", r.Length)
	for _, skip := range r.Skipped {
		fmt.Fprintf(&s, "skipped: %s\n", skip)
	}
	if r.OK() {
		s.WriteString("All reference decoders agree")
		return s.String()
	}
	for _, m := range r.Mismatches {
		fmt.Fprintf(&s, "✗ %s\n", m)
	}
	return strings.TrimSuffix(s.String(), "\n")
}
