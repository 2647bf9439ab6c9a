package keymap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultBindsCoreActions(t *testing.T) {
	m := Default()
	if m["q"] != Quit {
		t.Fatalf("expected q bound to quit, got %s", m["q"])
	}
	if m[" "] != TogglePlayback {
		t.Fatalf("expected space bound to toggle-playback, got %s", m[" "])
	}
	if m["esc"] != Back {
		t.Fatalf("expected esc bound to back, got %s", m["esc"])
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	m, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m) != len(Default()) {
		t.Fatalf("expected defaults, got %d bindings", len(m))
	}
}

func TestLoadOverridesReplaceDefaultKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keymap.yaml")
	content := "bindings:\n  toggle-playback: [\"x\"]\n  quit: [\"Q\", \"ctrl+q\"]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write keymap: %v", err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["x"] != TogglePlayback {
		t.Fatalf("expected x bound to toggle-playback, got %s", m["x"])
	}
	if _, ok := m[" "]; ok {
		t.Fatalf("expected default space binding removed after override")
	}
	if m["Q"] != Quit || m["ctrl+q"] != Quit {
		t.Fatalf("expected both new quit keys bound")
	}
	if _, ok := m["q"]; ok {
		t.Fatalf("expected default q binding removed after override")
	}
}

func TestLoadRejectsUnknownAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keymap.yaml")
	if err := os.WriteFile(path, []byte("bindings:\n  warp-speed: [\"w\"]\n"), 0o644); err != nil {
		t.Fatalf("write keymap: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
