package binding

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"screen": map[string]any{"w": float64(1920), "h": 1080},
		"docks":  []any{map[string]any{"h": 24}},
	}

	cases := map[string]string{
		"${screen.w}":                   "1920",
		"0 0 ${screen.w} ${ screen.h }": "0 0 1920 1080",
		"${docks[0].h}":                 "24",
		"${docks[3].h}":                 "${docks[3].h}",
		"${missing}":                    "${missing}",
		"plain":                         "plain",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}

	if got := Interpolate("${screen.w}", nil); got != "${screen.w}" {
		t.Fatalf("nil data should leave text untouched, got %q", got)
	}
}

func TestUnresolved(t *testing.T) {
	if m, ok := Unresolved("a ${b.c} d"); !ok || m != "${b.c}" {
		t.Fatalf("Unresolved = %q, %v", m, ok)
	}
	if _, ok := Unresolved("42"); ok {
		t.Fatalf("plain text has no placeholder")
	}
}

func TestLookupRejectsMalformedPath(t *testing.T) {
	data := map[string]any{"a": []any{1}}
	for _, path := range []string{"", "a[x]", "a[0", "a]0["} {
		if _, ok := Lookup(data, path); ok {
			t.Fatalf("Lookup(%q) should fail", path)
		}
	}
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "data.yaml")
	if err := os.WriteFile(yamlPath, []byte("screen:\n  w: 300\n  h: 150\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := LoadData(yamlPath)
	if err != nil {
		t.Fatalf("LoadData yaml: %v", err)
	}
	if got := Interpolate("${screen.w}x${screen.h}", data); got != "300x150" {
		t.Fatalf("yaml interpolation = %q", got)
	}

	jsonPath := filepath.Join(dir, "data.json")
	if err := os.WriteFile(jsonPath, []byte(`{"bar":{"h":12}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err = LoadData(jsonPath)
	if err != nil {
		t.Fatalf("LoadData json: %v", err)
	}
	if got := Interpolate("${bar.h}", data); got != "12" {
		t.Fatalf("json interpolation = %q", got)
	}

	badPath := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(badPath, []byte(`{`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadData(badPath); err == nil {
		t.Fatalf("expected error for malformed json")
	}
	if _, err := LoadData(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
