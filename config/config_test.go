package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/tilefit/geom"
	"github.com/ByLCY/tilefit/sizepolicy"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Scene.DefaultPolicy != sizepolicy.DefaultPolicy {
		t.Fatalf("default policy = %v", cfg.Scene.DefaultPolicy)
	}
	if got := cfg.Render.Scale.ToMM(); got != 0.5 {
		t.Fatalf("default scale = %gmm", got)
	}
}

func TestLoadFromReader(t *testing.T) {
	t.Setenv("TILEFIT_LOG_LEVEL", "")
	t.Setenv("TILEFIT_DEFAULT_POLICY", "")

	cfg, err := LoadFromReader(strings.NewReader(`
[log]
level = "debug"

[scene]
default_policy = "Free_Glue_East"

[render]
scale = "1pt"
palette = ["#abc", "#112233"]
`))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}
	want := sizepolicy.Policy{
		Category: sizepolicy.CategoryFreeGlue,
		Gravity:  geom.Gravity{H: geom.AnchorFar, V: geom.AnchorCenter},
	}
	if cfg.Scene.DefaultPolicy != want {
		t.Fatalf("default policy = %v", cfg.Scene.DefaultPolicy)
	}
	if cfg.Render.Scale != (Length{Value: 1, Unit: UnitPT}) {
		t.Fatalf("scale = %v", cfg.Render.Scale)
	}
	// 未写的字段保留默认值
	if cfg.Render.Margin.ToMM() != 10 {
		t.Fatalf("margin should keep its default, got %v", cfg.Render.Margin)
	}
	if len(cfg.Render.Palette) != 2 {
		t.Fatalf("palette = %v", cfg.Render.Palette)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("TILEFIT_LOG_LEVEL", "")
	t.Setenv("TILEFIT_DEFAULT_POLICY", "")

	cases := map[string]string{
		"unknown policy": "[scene]\ndefault_policy = \"sideways\"\n",
		"bad level":      "[log]\nlevel = \"loud\"\n",
		"bad length":     "[render]\nmargin = \"wide\"\n",
		"zero scale":     "[render]\nscale = \"0mm\"\n",
		"bad palette":    "[render]\npalette = [\"#12\"]\n",
		"bad toml":       "[render\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFromReader(strings.NewReader(input)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TILEFIT_LOG_LEVEL", "warn")
	t.Setenv("TILEFIT_DEFAULT_POLICY", "southwest")

	cfg, err := LoadFromReader(strings.NewReader("[log]\nlevel = \"debug\"\n"))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("env should override log level, got %q", cfg.Log.Level)
	}
	if name, _ := sizepolicy.Name(cfg.Scene.DefaultPolicy); name != "southwest" {
		t.Fatalf("env should override default policy, got %v", cfg.Scene.DefaultPolicy)
	}

	t.Setenv("TILEFIT_DEFAULT_POLICY", "nowhere")
	if _, err := LoadFromReader(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for unknown policy in env")
	}
}

func TestLoadPaths(t *testing.T) {
	t.Setenv("TILEFIT_LOG_LEVEL", "")
	t.Setenv("TILEFIT_DEFAULT_POLICY", "")
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	// 没有配置文件时返回默认配置
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load without file: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("expected defaults, got %+v", cfg.Log)
	}

	path := filepath.Join(dir, "tilefit", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"error\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load from XDG path: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Fatalf("expected XDG config, got %+v", cfg.Log)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatalf("an explicit missing path should be an error")
	}
}
