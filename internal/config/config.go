// Package config handles tool configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/tilekit/internal/engine/tilepattern"
)

// Config holds all settings shared by the tilekit tools.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Tileset TilesetConfig `yaml:"tileset"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds resource locations.
type DataConfig struct {
	Root     string   `yaml:"root"`     // Data directory containing tilesets/
	Archives []string `yaml:"archives"` // Zip archives mounted over Root, later ones win
}

// TilesetConfig holds pattern animation timing.
type TilesetConfig struct {
	FrameDelay    time.Duration `yaml:"frame_delay"`
	ScrollDelay   time.Duration `yaml:"scroll_delay"`
	ParallaxRatio int           `yaml:"parallax_ratio"`
}

// ViewerConfig holds preview window settings.
type ViewerConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Scale  int  `yaml:"scale"`
	VSync  bool `yaml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Format  string `yaml:"format"` // console or json
}

// Default returns a Config with sensible default values.
func Default() *Config {
	timing := tilepattern.DefaultTiming()

	return &Config{
		Data: DataConfig{
			Root: "data",
		},
		Tileset: TilesetConfig{
			FrameDelay:    timing.FrameDelay,
			ScrollDelay:   timing.ScrollDelay,
			ParallaxRatio: timing.ParallaxRatio,
		},
		Viewer: ViewerConfig{
			Width:  960,
			Height: 720,
			Scale:  2,
			VSync:  true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Timing returns the pattern timing described by the tileset section.
func (c *Config) Timing() tilepattern.Timing {
	return tilepattern.Timing{
		FrameDelay:    c.Tileset.FrameDelay,
		ScrollDelay:   c.Tileset.ScrollDelay,
		ParallaxRatio: c.Tileset.ParallaxRatio,
	}
}

// Validate rejects values no tool can work with.
func (c *Config) Validate() error {
	if c.Tileset.FrameDelay < 0 || c.Tileset.ScrollDelay < 0 {
		return fmt.Errorf("tileset delays must not be negative")
	}
	if c.Tileset.ParallaxRatio < 0 {
		return fmt.Errorf("tileset parallax_ratio must not be negative, got %d", c.Tileset.ParallaxRatio)
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("viewer size must be positive, got %dx%d", c.Viewer.Width, c.Viewer.Height)
	}
	if c.Viewer.Scale < 1 {
		return fmt.Errorf("viewer scale must be at least 1, got %d", c.Viewer.Scale)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}
