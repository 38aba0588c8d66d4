// Package config provides TOML-based configuration for tilefit.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/tilefit/sizepolicy"
)

// Config is the root of config.toml.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Scene  SceneConfig  `toml:"scene"`
	Render RenderConfig `toml:"render"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error, fatal.
	Level string `toml:"level"`
}

// SceneConfig holds scene building defaults.
type SceneConfig struct {
	// DefaultPolicy applies to regions that do not name a policy. Accepts
	// any table name ("northwest", "free_glue", ...) or a descriptor
	// ("free_glue[right,top]").
	DefaultPolicy sizepolicy.Policy `toml:"default_policy"`
}

// RenderConfig controls PDF output.
type RenderConfig struct {
	// Scale is the page length of one scene pixel.
	Scale Length `toml:"scale"`
	// Margin surrounds each frame on its page.
	Margin Length `toml:"margin"`
	// Palette fills regions without an explicit color, in order.
	Palette []string `toml:"palette"`
}

// Validate checks the values the decoder cannot check on its own.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Render.Scale.IsZero() {
		return fmt.Errorf("render.scale must be positive")
	}
	for i, hex := range c.Render.Palette {
		if err := checkHex(hex); err != nil {
			return fmt.Errorf("render.palette[%d]: %w", i, err)
		}
	}
	return nil
}

func checkHex(s string) error {
	v := strings.TrimPrefix(s, "#")
	switch len(v) {
	case 3, 6, 8:
	default:
		return fmt.Errorf("invalid color %q", s)
	}
	if _, err := strconv.ParseUint(v, 16, 32); err != nil {
		return fmt.Errorf("invalid color %q", s)
	}
	return nil
}
