package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/james-see/smfkit/pkg/converter"
)

var noteFile = []byte{
	'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 0, 0, 1, 0, 0x60,
	'M', 'T', 'r', 'k', 0, 0, 0, 12,
	0x00, 0x90, 0x3C, 0x64,
	0x60, 0x80, 0x3C, 0x40,
	0x00, 0xFF, 0x2F, 0x00,
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func findAction(t *testing.T, title string) Action {
	t.Helper()
	for _, a := range actions {
		if a.Title == title {
			return a
		}
	}
	t.Fatalf("no action %q", title)
	return Action{}
}

func TestMenuNavigation(t *testing.T) {
	var m tea.Model = New(nil)

	m, _ = m.Update(key("up"))
	if got := m.(Model).menuIndex; got != 0 {
		t.Errorf("menuIndex after up at top = %d, want 0", got)
	}

	for i := 0; i < len(actions)+3; i++ {
		m, _ = m.Update(key("down"))
	}
	if got := m.(Model).menuIndex; got != len(actions) {
		t.Errorf("menuIndex at bottom = %d, want %d", got, len(actions))
	}

	_, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("enter on Exit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("enter on Exit should quit")
	}
}

func TestMenuOpensFilePicker(t *testing.T) {
	var m tea.Model = New(nil)

	for i, a := range actions {
		if a.Input == converter.FormatSyx {
			for j := 0; j < i; j++ {
				m, _ = m.Update(key("j"))
			}
			break
		}
	}

	m, _ = m.Update(key("enter"))
	model := m.(Model)
	if model.state != StateFilePicker {
		t.Fatalf("state = %v, want %v", model.state, StateFilePicker)
	}
	if got := model.filePicker.AllowedTypes; len(got) != 1 || got[0] != ".syx" {
		t.Errorf("AllowedTypes = %v, want [.syx]", got)
	}
	if !strings.Contains(model.View(), "SELECT SYX FILE") {
		t.Error("file picker view missing title")
	}

	m, _ = m.Update(key("esc"))
	if m.(Model).state != StateMenu {
		t.Errorf("state after esc = %v, want %v", m.(Model).state, StateMenu)
	}
}

func TestActionDoneShowsResult(t *testing.T) {
	m := New(nil)
	m.action = findAction(t, "Dump")
	m.state = StateRunning

	updated, _ := m.Update(actionDoneMsg{text: "Format: 0\nDivision: 96"})
	model := updated.(Model)
	if model.state != StateResult {
		t.Fatalf("state = %v, want %v", model.state, StateResult)
	}
	if view := model.View(); !strings.Contains(view, "Division: 96") {
		t.Errorf("result view missing text:\n%s", view)
	}

	updated, _ = model.Update(key("enter"))
	if updated.(Model).state != StateMenu {
		t.Errorf("state after enter = %v, want %v", updated.(Model).state, StateMenu)
	}
}

func TestActionErrorView(t *testing.T) {
	m := New(nil)
	m.action = findAction(t, "Verify")
	updated, _ := m.Update(actionDoneMsg{err: errors.New("offset 0: truncated input")})

	if view := updated.(Model).View(); !strings.Contains(view, "Verify failed: offset 0: truncated input") {
		t.Errorf("error view = %s", view)
	}
}

func TestActionRun(t *testing.T) {
	dir := t.TempDir()
	midPath := filepath.Join(dir, "song.mid")
	if err := os.WriteFile(midPath, noteFile, 0644); err != nil {
		t.Fatal(err)
	}
	syxPath := filepath.Join(dir, "patch.syx")
	if err := os.WriteFile(syxPath, []byte{0xF0, 0x41, 0x10, 0xF7}, 0644); err != nil {
		t.Fatal(err)
	}

	conv := converter.New(nil)
	tests := []struct {
		action   string
		path     string
		contains string
		output   string
	}{
		{"Dump", midPath, "[96][Voice][Note Off][80 3C 40]", ""},
		{"Summary", midPath, `"ticks_per_quarter": 96`, ""},
		{"Hex", midPath, "60 80 3C 40", ""},
		{"Verify", midPath, "Notes per track: [1]", ""},
		{"Round trip", midPath, "34 byte(s) in, 34 byte(s) out", "song.roundtrip.mid"},
		{"SYX → MIDI", syxPath, "4 byte(s) in", "patch.mid"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			text, out, err := findAction(t, tt.action).Run(conv, tt.path)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !strings.Contains(text, tt.contains) {
				t.Errorf("Run() text = %q, want it to contain %q", text, tt.contains)
			}
			if filepath.Base(out) != tt.output && !(out == "" && tt.output == "") {
				t.Errorf("Run() output = %q, want %q", out, tt.output)
			}
			if out != "" {
				if _, err := os.Stat(out); err != nil {
					t.Errorf("output file: %v", err)
				}
			}
		})
	}

	if _, _, err := findAction(t, "MIDI → SYX").Run(conv, midPath); !errors.Is(err, converter.ErrNoSysEx) {
		t.Errorf("MIDI → SYX error = %v, want %v", err, converter.ErrNoSysEx)
	}
}
