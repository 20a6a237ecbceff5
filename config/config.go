// Package config loads the display's settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultYAML is the configuration used when no file is present.
const DefaultYAML = `window:
  title: doodlai
  width: 1280
  height: 720
  vsync: true
  resizable: true
assets:
  # empty: $DOODLAI_ASSETS_ROOT, then resources/external next to the binary
  root: ""
  workers: 2
debug: false
watch: false
`

type Window struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	VSync     bool   `yaml:"vsync"`
	Resizable bool   `yaml:"resizable"`
}

type Assets struct {
	Root    string `yaml:"root"`
	Workers int    `yaml:"workers"`
}

type Config struct {
	Window Window `yaml:"window"`
	Assets Assets `yaml:"assets"`
	Debug  bool   `yaml:"debug"`
	Watch  bool   `yaml:"watch"`
}

func Default() Config {
	var c Config
	if err := yaml.Unmarshal([]byte(DefaultYAML), &c); err != nil {
		panic(fmt.Sprintf("config: bad default: %v", err))
	}
	return c
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Assets.Workers < 1 {
		return fmt.Errorf("assets.workers must be at least 1, got %d", c.Assets.Workers)
	}
	return nil
}
