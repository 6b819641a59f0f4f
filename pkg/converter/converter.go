package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/smfkit/pkg/smf"
)

// Format represents a file format
type Format string

const (
	FormatMIDI    Format = "midi"
	FormatSyx     Format = "syx"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi", ".smf":
		return FormatMIDI
	case ".syx":
		return FormatSyx
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) >= 4 && string(data[:4]) == smf.HeaderID {
		return FormatMIDI
	}
	if len(data) >= 2 && data[0] == SysExStart {
		return FormatSyx
	}
	return FormatUnknown
}

// Decode parses a Standard MIDI File, logging chunk boundaries at debug level.
func (c *Converter) Decode(data []byte) (*smf.File, error) {
	f, err := smf.Load(data, smf.WithLogger(c.log))
	if err != nil {
		return nil, err
	}
	c.log.Info("decoded file", "format", f.Format(), "tracks", f.NumTracks(), "bytes", len(data))
	return f, nil
}

// DecodeFile reads and decodes the file at path.
func (c *Converter) DecodeFile(path string) (*smf.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	f, err := c.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// RoundTrip decodes data and encodes it again. Running status in the input
// is expanded, so the output may be longer than the input.
func (c *Converter) RoundTrip(data []byte) ([]byte, error) {
	f, err := c.Decode(data)
	if err != nil {
		return nil, err
	}
	out, err := f.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}
	return out, nil
}

// Convert converts data between formats.
func (c *Converter) Convert(data []byte, from, to Format) ([]byte, error) {
	switch {
	case from == FormatMIDI && to == FormatMIDI:
		return c.RoundTrip(data)
	case from == FormatMIDI && to == FormatSyx:
		return c.MIDIToSyx(data)
	case from == FormatSyx && to == FormatMIDI:
		return c.SyxToMIDI(data)
	default:
		return nil, fmt.Errorf("unsupported conversion: %s to %s", from, to)
	}
}

// ConvertFile converts a file from one format to another
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	outputFormat := DetectFormat(outputPath)
	if outputFormat == FormatUnknown {
		return errors.New("cannot determine output format from filename")
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	inputFormat := DetectFormat(inputPath)
	if inputFormat == FormatUnknown {
		inputFormat = DetectFormatFromContent(data)
	}

	outputData, err := c.Convert(data, inputFormat, outputFormat)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	c.log.Info("converted file", "from", inputFormat, "to", outputFormat, "output", outputPath, "bytes", len(outputData))
	return nil
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"midi -> midi",
		"midi -> syx",
		"syx -> midi",
	}
}
