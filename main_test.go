package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/ByLCY/rondo/config"
	"github.com/ByLCY/rondo/fonts"
	canvasrenderer "github.com/ByLCY/rondo/renderer/canvas"
)

func TestMergeFlagsOnlyOverridesChanged(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var flags config.Config
	fs.StringVar(&flags.Input, "in", "", "")
	fs.StringVar(&flags.Output, "out", "", "")
	fs.StringVar(&flags.Debug, "debug", "", "")
	fs.StringVar(&flags.Data, "data", "", "")
	fs.StringVar(&flags.DataFile, "data-file", "", "")
	fs.StringVar(&flags.FontDir, "font-dir", "", "")
	fs.StringVar(&flags.LogLevel, "log-level", "", "")
	if err := fs.Parse([]string{"--out", "x.pdf"}); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	base := config.Config{Input: "a.rondo", Output: "a.pdf", LogLevel: "info"}
	got := mergeFlags(base, flags, fs)
	if got.Output != "x.pdf" {
		t.Fatalf("expected flag to override output, got %q", got.Output)
	}
	if got.Input != "a.rondo" || got.LogLevel != "info" {
		t.Fatalf("unchanged flags must keep config values, got %+v", got)
	}
}

func TestGenerateWritesPDFAndDebugJSON(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		Input:  filepath.Join("examples", "demo.rondo"),
		Output: filepath.Join(dir, "out", "demo.pdf"),
		Debug:  filepath.Join(dir, "debug", "layout.json"),
	}
	provider := fonts.NewProvider("examples")
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Fonts: provider})
	if err := generate(cfg, map[string]any{"author": "Ada"}, provider, r); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	pdfBytes, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatalf("read pdf failed: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	debugBytes, err := os.ReadFile(cfg.Debug)
	if err != nil {
		t.Fatalf("read debug json failed: %v", err)
	}
	if !bytes.Contains(debugBytes, []byte(`"truncated": true`)) {
		t.Fatalf("expected demo frame to be truncated, got %s", debugBytes)
	}
}

func TestLoadDataPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{"k":"file"}`), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := loadData(config.Config{Data: `{"k":"inline"}`, DataFile: path})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if data.(map[string]any)["k"] != "file" {
		t.Fatalf("expected data file to win, got %v", data)
	}
}
