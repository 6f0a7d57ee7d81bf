// Package config holds viewer settings: defaults, an optional TOML file and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/iafilius/ChartDrilldown/src/logx"
	"github.com/iafilius/ChartDrilldown/src/subgraph"
)

const (
	minWidth  = 320
	minHeight = 200
	maxSide   = 8192
)

// Config is the viewer configuration. Field names double as TOML keys.
type Config struct {
	File         string            `toml:"file"`
	LogLevel     string            `toml:"log_level"`
	Follow       bool              `toml:"follow"`
	ParentWidth  int               `toml:"parent_width"`
	ParentHeight int               `toml:"parent_height"`
	SubWidth     int               `toml:"sub_width"`
	SubHeight    int               `toml:"sub_height"`
	Title        string            `toml:"title"`
	Colors       map[string]string `toml:"colors"` // series name -> "#rrggbb"
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:     "info",
		ParentWidth:  1000,
		ParentHeight: 420,
		SubWidth:     subgraph.DefaultWidth,
		SubHeight:    subgraph.DefaultHeight,
		Title:        "Series",
	}
}

// Load reads path over the defaults. An empty path returns the defaults; a missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	md, err := toml.Decode(string(b), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	for _, k := range md.Undecoded() {
		logx.Warnf("[config] %s: unknown key %q", path, k.String())
	}
	return cfg, nil
}

// ErrInvalidLogLevel is returned by Validate for an unknown log level.
var ErrInvalidLogLevel = errors.New("invalid log level")

// Validate clamps sizes into a usable range and checks the log level.
func (c *Config) Validate() error {
	c.ParentWidth = clamp(c.ParentWidth, minWidth, 1000)
	c.ParentHeight = clamp(c.ParentHeight, minHeight, 420)
	c.SubWidth = clamp(c.SubWidth, minWidth, subgraph.DefaultWidth)
	c.SubHeight = clamp(c.SubHeight, minHeight, subgraph.DefaultHeight)
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return nil
}

// clamp bounds v to [lo, maxSide]; zero means def.
func clamp(v, lo, def int) int {
	if v == 0 {
		return def
	}
	if v < lo {
		return lo
	}
	if v > maxSide {
		return maxSide
	}
	return v
}
