package fonts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/rondo/layout"
)

func TestLoadBuiltin(t *testing.T) {
	for _, src := range []string{"builtin:goregular", "built-in:goregular", "embed:goregular.ttf", "builtin:GoRegular"} {
		data, err := Load(src, "")
		if err != nil {
			t.Fatalf("Load(%q) failed: %v", src, err)
		}
		if !bytes.Equal(data, goregular.TTF) {
			t.Fatalf("Load(%q) returned unexpected bytes", src)
		}
	}
	if _, err := Load("builtin:nope", ""); err == nil {
		t.Fatalf("unknown builtin should fail")
	}
	if len(Builtin()) != 6 {
		t.Fatalf("unexpected builtin list %v", Builtin())
	}
}

func TestLoadPaths(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mono.ttf"), gomono.TTF, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := Load("mono.ttf", dir)
	if err != nil || !bytes.Equal(data, gomono.TTF) {
		t.Fatalf("relative path load failed: %v", err)
	}
	if _, err := Load("mono.ttf", ""); err == nil {
		t.Fatalf("relative path without base dir should be rejected")
	}
	if _, err := Load(filepath.Join(dir, "mono.ttf"), ""); err != nil {
		t.Fatalf("absolute path should load: %v", err)
	}
	if _, err := Load("", dir); err == nil {
		t.Fatalf("empty src should fail")
	}
}

func TestFaceGlyphsAndMetrics(t *testing.T) {
	f, err := Parse("goregular", goregular.TTF, 12)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if f.Name() != "goregular" || f.Size() != 12 {
		t.Fatalf("unexpected face %s %g", f.Name(), f.Size())
	}
	m := f.Metrics()
	if m.Ascent <= 0 || m.Descent <= 0 || m.Height <= 0 {
		t.Fatalf("unexpected metrics %+v", m)
	}

	id, ok := f.GlyphIndex('…')
	if !ok || id == 0 {
		t.Fatalf("goregular should encode U+2026")
	}
	if r, ok := f.Rune(id); !ok || r != '…' {
		t.Fatalf("reverse lookup failed: %q %v", r, ok)
	}
	if f.Advance(id) <= 0 {
		t.Fatalf("ellipsis advance should be positive")
	}
	if _, ok := f.GlyphIndex('\U0001F600'); ok {
		t.Fatalf("goregular has no emoji")
	}
}

func TestFaceShapeClusters(t *testing.T) {
	f, err := Parse("goregular", goregular.TTF, 10)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	text := []rune("Hello, world")
	glyphs := f.Shape(text)
	if len(glyphs) != len(text) {
		t.Fatalf("expected one glyph per character, got %d", len(glyphs))
	}
	for i, g := range glyphs {
		if g.Cluster != i {
			t.Fatalf("glyph %d cluster = %d", i, g.Cluster)
		}
		if want, _ := f.GlyphIndex(text[i]); g.ID != want {
			t.Fatalf("glyph %d id = %d, want %d", i, g.ID, want)
		}
		if g.Advance <= 0 {
			t.Fatalf("glyph %d has no advance", i)
		}
	}
	if f.Shape(nil) != nil {
		t.Fatalf("empty text should shape to nothing")
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	if _, err := Parse("bad", []byte("not a font"), 10); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := Parse("zero", goregular.TTF, 0); err == nil {
		t.Fatalf("expected size error")
	}
}

func TestProviderFallsBackAndCaches(t *testing.T) {
	p := NewProvider("")
	res := layout.FontResource{Name: "Body", Src: "missing/font.ttf"}
	if !bytes.Equal(p.Bytes(res), goregular.TTF) {
		t.Fatalf("missing font should fall back to goregular")
	}

	a, err := p.Face(layout.FontResource{Name: "Mono", Src: "builtin:gomono"}, 10)
	if err != nil {
		t.Fatalf("face failed: %v", err)
	}
	b, err := p.Face(layout.FontResource{Name: "Mono", Src: "builtin:gomono"}, 10)
	if err != nil {
		t.Fatalf("face failed: %v", err)
	}
	if a != b {
		t.Fatalf("faces with the same src and size should be shared")
	}
	c, err := p.Face(layout.FontResource{Name: "Mono", Src: "builtin:gomono"}, 12)
	if err != nil || c == a {
		t.Fatalf("a different size needs its own face")
	}
}
