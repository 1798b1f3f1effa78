package grove

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime and window settings. Zero or negative numeric
// fields fall back to their defaults.
type Config struct {
	Title   string `yaml:"title"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	TPS     int    `yaml:"tps"`
	ShowFPS bool   `yaml:"show_fps"`

	// Debug enables per-frame stats and warnings on DebugOutput.
	Debug bool `yaml:"debug"`
	// PruneAfter is the number of consecutive passes an instance may go
	// unvisited before it is removed. Negative disables pruning.
	PruneAfter int `yaml:"prune_after"`
	// MaxTasks caps the number of spawned tasks running at once.
	MaxTasks int `yaml:"max_tasks"`

	ClearColor    Color  `yaml:"clear_color"`
	ScreenshotDir string `yaml:"screenshot_dir"`

	// DebugOutput receives debug logging. Defaults to stderr.
	DebugOutput io.Writer `yaml:"-"`
}

const (
	defaultTitle         = "grove"
	defaultWidth         = 640
	defaultHeight        = 480
	defaultTPS           = 60
	defaultPruneAfter    = 1
	defaultMaxTasks      = 16
	defaultScreenshotDir = "screenshots"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Title:         defaultTitle,
		Width:         defaultWidth,
		Height:        defaultHeight,
		TPS:           defaultTPS,
		PruneAfter:    defaultPruneAfter,
		MaxTasks:      defaultMaxTasks,
		ClearColor:    ColorBlack,
		ScreenshotDir: defaultScreenshotDir,
	}
}

// LoadConfig reads a YAML configuration file.
// Falls back to defaults if the file doesn't exist.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over the defaults. Keys absent from data keep
// their default values.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg.withDefaults(), nil
}

// withDefaults replaces out-of-range values with their defaults.
func (c Config) withDefaults() Config {
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if c.Height <= 0 {
		c.Height = defaultHeight
	}
	if c.TPS <= 0 {
		c.TPS = defaultTPS
	}
	if c.PruneAfter == 0 {
		c.PruneAfter = defaultPruneAfter
	}
	if c.MaxTasks <= 0 {
		c.MaxTasks = defaultMaxTasks
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = defaultScreenshotDir
	}
	return c
}
