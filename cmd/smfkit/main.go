// Package main is the entry point for the smfkit CLI
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/james-see/smfkit/pkg/api"
	"github.com/james-see/smfkit/pkg/converter"
	"github.com/james-see/smfkit/pkg/logger"
	"github.com/james-see/smfkit/pkg/smf"
	"github.com/james-see/smfkit/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	logLevel     string
	outputFile   string
	jsonOutput   bool
	stripStatus  bool
	syxDivision  int
	serverPort   int
	strictVerify bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smfkit",
	Short: "Decode, inspect and convert Standard MIDI Files",
	Long: `smfkit reads and writes Standard MIDI Files (.mid) and raw SysEx dumps (.syx).

Examples:
  smfkit dump song.mid
  smfkit dump song.mid --json
  smfkit hex song.mid --strip-status
  smfkit roundtrip song.mid -o clean.mid
  smfkit convert patch.syx -o patch.mid
  smfkit verify song.mid
  smfkit tui
  smfkit serve --port 8080`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.InitLogger(logLevel)
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump <input.mid>",
	Short: "Print every event of a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

var hexCmd = &cobra.Command{
	Use:   "hex <input.mid>",
	Short: "Print the bytes of every event",
	Args:  cobra.ExactArgs(1),
	RunE:  runHex,
}

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip <input.mid>",
	Short: "Decode and re-encode a MIDI file with explicit status bytes",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoundTrip,
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <input.mid>",
	Short: "Rewrite a MIDI file through the gomidi writer",
	Args:  cobra.ExactArgs(1),
	RunE:  runNormalize,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Auto-detect and convert between formats",
	Long:  `Automatically detects input format and converts to the output format based on file extension.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var midi2syxCmd = &cobra.Command{
	Use:   "midi2syx <input.mid>",
	Short: "Extract the SysEx messages of a MIDI file into a .syx dump",
	Args:  cobra.ExactArgs(1),
	RunE:  runMIDIToSyx,
}

var syx2midiCmd = &cobra.Command{
	Use:   "syx2midi <input.syx>",
	Short: "Wrap a .syx dump into a format 0 MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSyxToMIDI,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <input.mid>",
	Short: "Cross-check the encoding with gomidi and meltysynth",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	dumpCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print a JSON summary instead of events")
	hexCmd.Flags().BoolVar(&stripStatus, "strip-status", false, "Leave out repeated voice status bytes (running status)")
	verifyCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	verifyCmd.Flags().BoolVar(&strictVerify, "strict", false, "Fail when the re-encoding differs from the input")

	roundtripCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")
	normalizeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")
	midi2syxCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .syx file path")
	syx2midiCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")
	syx2midiCmd.Flags().IntVar(&syxDivision, "division", int(converter.DefaultDivision), "Ticks per quarter note of the new file")

	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	convertCmd.Flags().IntVar(&syxDivision, "division", int(converter.DefaultDivision), "Ticks per quarter note when wrapping SysEx")
	_ = convertCmd.MarkFlagRequired("output")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(dumpCmd, hexCmd, roundtripCmd, normalizeCmd, convertCmd,
		midi2syxCmd, syx2midiCmd, verifyCmd, tuiCmd, serveCmd)
}

func newConverter() (*converter.Converter, error) {
	conv := converter.New(logger.GetLogger())
	if syxDivision <= 0 || syxDivision > 0x7FFF {
		return nil, fmt.Errorf("division %d out of range 1..32767", syxDivision)
	}
	conv.SetDivision(smf.Division(syxDivision))
	return conv, nil
}

func getOutputPath(input, defaultExt string) string {
	if outputFile != "" {
		return outputFile
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + defaultExt
}

func runDump(cmd *cobra.Command, args []string) error {
	conv, err := newConverter()
	if err != nil {
		return err
	}
	f, err := conv.DecodeFile(args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, converter.Summarize(f))
	}
	fmt.Fprintln(cmd.OutOrStdout(), f.String())
	return nil
}

func runHex(cmd *cobra.Command, args []string) error {
	conv, err := newConverter()
	if err != nil {
		return err
	}
	f, err := conv.DecodeFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), converter.HexDump(f, stripStatus))
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	conv, err := newConverter()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	report, err := conv.Verify(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if jsonOutput {
		if err := printJSON(cmd, report); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: format %d, %d track(s), notes %v\n", args[0], report.Format, report.Tracks, report.Notes)
		fmt.Fprintf(out, "re-encoding identical: %v, length: %s\n", report.Identical, report.Length)
		for _, s := range report.Skipped {
			fmt.Fprintf(out, "skipped: %s\n", s)
		}
		for _, m := range report.Mismatches {
			fmt.Fprintf(out, "mismatch: %s\n", m)
		}
	}

	if !report.OK() {
		return fmt.Errorf("%d reference mismatch(es)", len(report.Mismatches))
	}
	if strictVerify && !report.Identical {
		return fmt.Errorf("re-encoding of %s differs from the input", args[0])
	}
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	conv, err := newConverter()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Converting %s -> %s\n", input, outputFile)
	if err := conv.ConvertFile(input, outputFile); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Conversion complete!")
	return nil
}

func runRoundTrip(cmd *cobra.Command, args []string) error {
	return convertWith(cmd, args[0], ".roundtrip.mid", (*converter.Converter).RoundTrip)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	return convertWith(cmd, args[0], ".normalized.mid", (*converter.Converter).Normalize)
}

func runMIDIToSyx(cmd *cobra.Command, args []string) error {
	return convertWith(cmd, args[0], ".syx", (*converter.Converter).MIDIToSyx)
}

func runSyxToMIDI(cmd *cobra.Command, args []string) error {
	return convertWith(cmd, args[0], ".mid", (*converter.Converter).SyxToMIDI)
}

func convertWith(cmd *cobra.Command, input, defaultExt string, fn func(*converter.Converter, []byte) ([]byte, error)) error {
	output := getOutputPath(input, defaultExt)

	conv, err := newConverter()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	result, err := fn(conv, data)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	if err := os.WriteFile(output, result, 0644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Converted %s -> %s\n", input, output)
	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	conv, err := newConverter()
	if err != nil {
		return err
	}
	return tui.Run(conv)
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort, logger.GetLogger())
}
