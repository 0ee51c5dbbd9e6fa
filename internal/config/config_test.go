package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, input := LoadOrDefault(filepath.Join(t.TempDir(), "nope.json"))
	if cfg.BufferSize == 0 {
		t.Error("expected default buffer size to be set")
	}
	if input != "" {
		t.Errorf("expected empty input folder for missing file, got %q", input)
	}
}

func TestLoadOrDefaultInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")
	if err := os.WriteFile(p, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _ := LoadOrDefault(p)
	if cfg.MaxItemsDirectory != 1000 {
		t.Errorf("expected fallback to built-in defaults, got MaxItemsDirectory=%d", cfg.MaxItemsDirectory)
	}
}

func TestLoadOrDefaultUnknownFieldFallsBack(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")
	if err := os.WriteFile(p, []byte(`{"NOT_A_REAL_FIELD": true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _ := LoadOrDefault(p)
	if cfg.BufferSize == 0 {
		t.Error("expected fallback to defaults on unknown field")
	}
}

func TestWriteDefaultRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")
	if err := WriteDefault(p); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteDefault(p); err != ErrConfigExists {
		t.Errorf("expected ErrConfigExists on second write, got %v", err)
	}
}

func TestWriteDefaultThenLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")
	if err := WriteDefault(p); err != nil {
		t.Fatal(err)
	}
	cfg, input := LoadOrDefault(p)
	if cfg.MaxItemsDirectory != 1000 {
		t.Errorf("round-tripped MaxItemsDirectory = %d, want 1000", cfg.MaxItemsDirectory)
	}
	if input != "." {
		t.Errorf("round-tripped input folder = %q, want \".\"", input)
	}
}
