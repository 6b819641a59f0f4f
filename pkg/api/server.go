// Package api provides the REST API server for smfkit
package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/smfkit/pkg/converter"
	"github.com/james-see/smfkit/pkg/smf"
)

// @title smfkit API
// @version 1.0
// @description API for decoding, inspecting and converting Standard MIDI Files
// @host localhost:8080
// @BasePath /api/v1

// MaxUploadSize limits multipart uploads.
const MaxUploadSize = 32 << 20

type server struct {
	conv *converter.Converter
	log  *slog.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(log *slog.Logger) *gin.Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &server{conv: converter.New(log), log: log}

	r := gin.Default()
	r.MaxMultipartMemory = MaxUploadSize

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/formats", listFormats)
		v1.POST("/decode", s.handleDecode)
		v1.POST("/dump", s.handleDump)
		v1.POST("/roundtrip", s.handleRoundTrip)
		v1.POST("/normalize", s.handleNormalize)
		v1.POST("/verify", s.handleVerify)
		v1.POST("/convert/midi2syx", s.handleMIDIToSyx)
		v1.POST("/convert/syx2midi", s.handleSyxToMIDI)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server on the specified port
func StartServer(port int, log *slog.Logger) error {
	return NewRouter(log).Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "smfkit",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns the supported file formats and conversion paths
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     []string{string(converter.FormatMIDI), string(converter.FormatSyx)},
		"conversions": converter.GetSupportedConversions(),
	})
}

// handleDecode godoc
// @Summary Decode a MIDI file
// @Description Upload a MIDI file and receive a per-track summary
// @Tags inspect
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "MIDI file to decode"
// @Success 200 {object} converter.Summary
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/decode [post]
func (s *server) handleDecode(c *gin.Context) {
	data, _, ok := readUpload(c)
	if !ok {
		return
	}
	f, err := s.conv.Decode(data)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, converter.Summarize(f))
}

// handleDump godoc
// @Summary Dump a MIDI file
// @Description Upload a MIDI file and receive every event as text
// @Tags inspect
// @Accept multipart/form-data
// @Produce plain
// @Param file formData file true "MIDI file to dump"
// @Success 200 {string} string
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/dump [post]
func (s *server) handleDump(c *gin.Context) {
	data, _, ok := readUpload(c)
	if !ok {
		return
	}
	f, err := s.conv.Decode(data)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.String(http.StatusOK, f.String()+"\n")
}

// handleVerify godoc
// @Summary Cross-check a MIDI file
// @Description Re-encodes the upload and reads it back with gomidi and meltysynth
// @Tags inspect
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "MIDI file to verify"
// @Success 200 {object} converter.Report
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/verify [post]
func (s *server) handleVerify(c *gin.Context) {
	data, _, ok := readUpload(c)
	if !ok {
		return
	}
	report, err := s.conv.Verify(data)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleRoundTrip godoc
// @Summary Re-encode a MIDI file
// @Description Decodes the upload and encodes it again with explicit status bytes
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "MIDI file"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/roundtrip [post]
func (s *server) handleRoundTrip(c *gin.Context) {
	s.handleConversion(c, s.conv.RoundTrip, ".mid")
}

// handleNormalize godoc
// @Summary Rewrite a MIDI file with gomidi
// @Description Decodes the upload and writes it back through the gomidi writer
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "MIDI file"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/normalize [post]
func (s *server) handleNormalize(c *gin.Context) {
	s.handleConversion(c, s.conv.Normalize, ".mid")
}

// handleMIDIToSyx godoc
// @Summary Convert MIDI to .syx
// @Description Upload a MIDI file and receive its SysEx messages as a .syx dump
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "MIDI file to convert"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/convert/midi2syx [post]
func (s *server) handleMIDIToSyx(c *gin.Context) {
	s.handleConversion(c, s.conv.MIDIToSyx, ".syx")
}

// handleSyxToMIDI godoc
// @Summary Convert .syx to MIDI
// @Description Upload a .syx dump and receive a format 0 MIDI file
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true ".syx file to convert"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/convert/syx2midi [post]
func (s *server) handleSyxToMIDI(c *gin.Context) {
	s.handleConversion(c, s.conv.SyxToMIDI, ".mid")
}

func (s *server) handleConversion(c *gin.Context, convert func([]byte) ([]byte, error), outputExt string) {
	data, filename, ok := readUpload(c)
	if !ok {
		return
	}

	result, err := convert(data)
	if err != nil {
		s.fail(c, err)
		return
	}

	// Generate output filename
	outputName := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if outputName == "" || outputName == "." {
		outputName = "converted"
	}
	outputName += outputExt

	contentType := "application/octet-stream"
	if outputExt == ".mid" {
		contentType = "audio/midi"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName))
	c.Data(http.StatusOK, contentType, result)
}

func readUpload(c *gin.Context) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, "", false
	}
	return data, header.Filename, true
}

// fail reports malformed input as 400 with the decode offset when known.
func (s *server) fail(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}

	var de *smf.DecodeError
	switch {
	case errors.As(err, &de):
		body["offset"] = de.Offset
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, smf.ErrInvalidFieldValue),
		errors.Is(err, smf.ErrMissingEndOfTrack),
		errors.Is(err, converter.ErrNoSysEx),
		errors.Is(err, converter.ErrInvalidSyx):
		c.JSON(http.StatusBadRequest, body)
	default:
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, body)
	}
}
