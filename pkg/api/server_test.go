package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/james-see/smfkit/pkg/converter"
	"github.com/james-see/smfkit/pkg/smf"
)

var noteFile = []byte{
	'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 0, 0, 1, 0, 0x60,
	'M', 'T', 'r', 'k', 0, 0, 0, 11,
	0x00, 0x90, 0x3C, 0x64,
	0x60, 0x3C, 0x00,
	0x00, 0xFF, 0x2F, 0x00,
}

func init() {
	gin.SetMode(gin.TestMode)
}

func upload(t *testing.T, path, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	NewRouter(nil).ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	for _, path := range []string{"/health", "/api/v1/health"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("GET %s = %d, want %d", path, rec.Code, http.StatusOK)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if body["status"] != "healthy" {
				t.Errorf("status = %q, want %q", body["status"], "healthy")
			}
		})
	}
}

func TestListFormats(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/formats", nil))

	var body struct {
		Formats     []string `json:"formats"`
		Conversions []string `json:"conversions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(body.Formats) != 2 || len(body.Conversions) != len(converter.GetSupportedConversions()) {
		t.Errorf("formats = %v, conversions = %v", body.Formats, body.Conversions)
	}
}

func TestCORSPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/decode", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("OPTIONS = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestDecode(t *testing.T) {
	rec := upload(t, "/api/v1/decode", "song.mid", noteFile)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /decode = %d: %s", rec.Code, rec.Body.String())
	}

	var s converter.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s.TicksPerQuarter != 96 || len(s.Tracks) != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if s.Tracks[0].Events != 3 || s.Tracks[0].TotalTicks != 96 {
		t.Errorf("track summary = %+v", s.Tracks[0])
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		offset float64
	}{
		{"bad header id", append([]byte("XXXX"), noteFile[4:]...), 0},
		{"truncated track", noteFile[:len(noteFile)-2], 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := upload(t, "/api/v1/decode", "bad.mid", tt.data)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("POST /decode = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if body["offset"] != tt.offset {
				t.Errorf("offset = %v, want %v", body["offset"], tt.offset)
			}
		})
	}
}

func TestNoFileUploaded(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/dump", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /dump without file = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestDump(t *testing.T) {
	rec := upload(t, "/api/v1/dump", "song.mid", noteFile)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /dump = %d: %s", rec.Code, rec.Body.String())
	}
	for _, want := range []string{"Format: 0", "[96][Voice][Note Off][90 3C 00]", "[0][META][End Of Track][FF 2F 00]"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("dump missing %q:\n%s", want, rec.Body.String())
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rec := upload(t, "/api/v1/roundtrip", "song.mid", noteFile)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /roundtrip = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "audio/midi" {
		t.Errorf("Content-Type = %q, want audio/midi", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=song.mid" {
		t.Errorf("Content-Disposition = %q", got)
	}

	f, err := smf.Load(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Track(0).Len() != 3 {
		t.Errorf("events = %d, want 3", f.Track(0).Len())
	}
	if rec.Body.Len() != len(noteFile)+1 {
		t.Errorf("length = %d, want %d", rec.Body.Len(), len(noteFile)+1)
	}
}

func TestConvertSyxToMIDIAndBack(t *testing.T) {
	dump := []byte{0xF0, 0x43, 0x10, 0x4C, 0x00, 0xF7}

	rec := upload(t, "/api/v1/convert/syx2midi", "patch.syx", dump)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /convert/syx2midi = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=patch.mid" {
		t.Errorf("Content-Disposition = %q", got)
	}

	back := upload(t, "/api/v1/convert/midi2syx", "patch.mid", rec.Body.Bytes())
	if back.Code != http.StatusOK {
		t.Fatalf("POST /convert/midi2syx = %d: %s", back.Code, back.Body.String())
	}
	if !bytes.Equal(back.Body.Bytes(), dump) {
		t.Errorf("midi2syx = % X, want % X", back.Body.Bytes(), dump)
	}
	if got := back.Header().Get("Content-Type"); got != "application/octet-stream" {
		t.Errorf("Content-Type = %q, want application/octet-stream", got)
	}
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		data []byte
	}{
		{"invalid syx", "/api/v1/convert/syx2midi", []byte{0xF0, 0x43, 0x90}},
		{"midi without sysex", "/api/v1/convert/midi2syx", noteFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := upload(t, tt.path, "in", tt.data)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("POST %s = %d, want %d", tt.path, rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestVerify(t *testing.T) {
	rec := upload(t, "/api/v1/verify", "song.mid", noteFile)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /verify = %d: %s", rec.Code, rec.Body.String())
	}

	var r converter.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if r.Identical {
		t.Error("Identical = true for a file using running status")
	}
	if len(r.Notes) != 1 || r.Notes[0] != 1 {
		t.Errorf("Notes = %v, want [1]", r.Notes)
	}
}
