// Package config loads editor settings from an optional TOML file with
// SCRIBE_* environment variable overrides. A missing file yields the
// defaults; malformed numeric overrides are ignored rather than surfaced.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/scribe-editor/scribe/internal/engine/style"
)

// EnvPrefix is the prefix shared by all environment overrides.
const EnvPrefix = "SCRIBE_"

// Config holds the user-tunable settings.
type Config struct {
	FontFamily  string `toml:"font_family"`
	FontSize    int    `toml:"font_size"`
	TabWidth    int    `toml:"tab_width"`
	Foreground  string `toml:"foreground"`
	SessionPath string `toml:"session_path"`
}

// Defaults returns the built-in settings: a monospaced 18px black style.
func Defaults() Config {
	return Config{
		FontFamily: "Monospaced",
		FontSize:   18,
		TabWidth:   4,
		Foreground: "#000000",
	}
}

// Load reads settings from path, layering environment overrides on top.
// A missing file is not an error; a file that exists but does not parse
// is.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults apply
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	cfg.validate()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvPrefix + "FONT_FAMILY"); ok {
		c.FontFamily = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "FONT_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.FontSize = n
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "TAB_WIDTH"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.TabWidth = n
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "FOREGROUND"); ok {
		c.Foreground = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "SESSION_PATH"); ok {
		c.SessionPath = v
	}
}

// validate clamps settings into usable ranges, falling back to the
// defaults for values the layout machinery cannot work with.
func (c *Config) validate() {
	def := Defaults()
	if c.FontFamily == "" {
		c.FontFamily = def.FontFamily
	}
	if c.FontSize < 1 {
		c.FontSize = def.FontSize
	}
	if c.TabWidth < 1 {
		c.TabWidth = def.TabWidth
	}
	if _, err := style.ColorFromHex(c.Foreground); err != nil {
		c.Foreground = def.Foreground
	}
}

// SessionPathOrDefault returns the configured session file path, or the
// per-user default under the home directory. An empty return disables
// session persistence.
func (c Config) SessionPathOrDefault() string {
	if c.SessionPath != "" {
		return c.SessionPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".scribe", "session.json")
}

// DefaultStyle produces the document default style these settings
// describe.
func (c Config) DefaultStyle() style.Style {
	col, err := style.ColorFromHex(c.Foreground)
	if err != nil {
		col = style.Color{}
	}
	return style.Style{
		Family: c.FontFamily,
		Size:   c.FontSize,
		Color:  col,
	}
}
