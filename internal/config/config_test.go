package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("LoadArgs returned error: %v", err)
	}
	if cfg.App.KeymapPath != "" {
		t.Fatalf("expected empty keymap path, got %q", cfg.App.KeymapPath)
	}
	if cfg.App.Batch != "" {
		t.Fatalf("expected empty batch, got %q", cfg.App.Batch)
	}
	if cfg.Logging.Trace {
		t.Fatalf("expected trace disabled by default")
	}
}

func TestLoadArgsFlagsOverrideEnvironment(t *testing.T) {
	keymap := filepath.Join(t.TempDir(), "keys.yaml")
	if err := os.WriteFile(keymap, []byte("bindings: {}\n"), 0o644); err != nil {
		t.Fatalf("write keymap: %v", err)
	}

	environ := []string{
		"STREAMPANE_BATCH=playback",
		"STREAMPANE_TRACE=true",
	}
	cfg, err := LoadArgs([]string{"-keymap", keymap, "-batch", "next; playback"}, environ)
	if err != nil {
		t.Fatalf("LoadArgs returned error: %v", err)
	}
	if cfg.App.KeymapPath != keymap {
		t.Fatalf("expected keymap %q, got %q", keymap, cfg.App.KeymapPath)
	}
	if cfg.App.Batch != "next; playback" {
		t.Fatalf("expected flag to override env batch, got %q", cfg.App.Batch)
	}
	if !cfg.Logging.Trace {
		t.Fatalf("expected trace enabled from environment")
	}
	if cfg.Flags["batch"] != "next; playback" {
		t.Fatalf("expected flags map to record batch, got %q", cfg.Flags["batch"])
	}
}

func TestLoadArgsMissingKeymapFile(t *testing.T) {
	_, err := LoadArgs([]string{"-keymap", filepath.Join(t.TempDir(), "absent.yaml")}, nil)
	if err == nil {
		t.Fatalf("expected error for missing keymap file")
	}
}

func TestLoadArgsRejectsUnknownFlag(t *testing.T) {
	if _, err := LoadArgs([]string{"-unknown"}, nil); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}
