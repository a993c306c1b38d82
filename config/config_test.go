package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "rondo.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rondo.yaml")
	content := "input: seal.rondo\nfont_dir: assets/fonts\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Input != "seal.rondo" || cfg.FontDir != "assets/fonts" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Output != Default().Output {
		t.Fatalf("unset fields should keep defaults, got %q", cfg.Output)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.Level())
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rondo.toml")
	content := "output = \"out/seal.pdf\"\ndata_file = \"data.json\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Output != "out/seal.pdf" || cfg.DataFile != "data.json" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rondo.ini")
	if err := os.WriteFile(path, []byte("x=1"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestLevelFallsBackToWarn(t *testing.T) {
	if got := (Config{LogLevel: "loud"}).Level(); got != slog.LevelWarn {
		t.Fatalf("expected warn, got %v", got)
	}
}
