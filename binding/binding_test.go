package binding

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInterpolate(t *testing.T) {
	data, err := Decode(`{"user":{"name":"Ada","tags":["x","y"]},"count":3,"price":2.5,"ok":true}`)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	cases := []struct {
		in   string
		want string
	}{
		{"Hello, ${user.name}!", "Hello, Ada!"},
		{"${data.user.name}", "Ada"},
		{"${ user.tags[1] }", "y"},
		{"${count} items at ${price}", "3 items at 2.5"},
		{"${ok}", "true"},
		{"${missing.path}", "${missing.path}"},
		{"${user.tags[9]}", "${user.tags[9]}"},
		{"${user.tags[x]}", "${user.tags[x]}"},
		{"no placeholders", "no placeholders"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("expected placeholder to stay, got %q", got)
	}
}

func TestLookupPrefersRealDataKey(t *testing.T) {
	data := map[string]any{"data": map[string]any{"v": "inner"}, "v": "outer"}
	got, ok := Lookup(data, "data.v")
	if !ok || got != "inner" {
		t.Fatalf("expected inner value, got %v (%v)", got, ok)
	}
}

func TestDecodeYAML(t *testing.T) {
	data, err := Decode("user:\n  name: Grace\nitems:\n  - 1\n  - 2\n")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got := Interpolate("${user.name} ${items[1]}", data); got != "Grace 2" {
		t.Fatalf("unexpected interpolation: %q", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.yml")
	if err := os.WriteFile(path, []byte("title: Seal\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := Interpolate("${title}", data); got != "Seal" {
		t.Fatalf("unexpected value %q", got)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
