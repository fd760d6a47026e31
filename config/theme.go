package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"chartenginev1/internal/engine"
)

// Theme is the YAML-configurable paint layer: which optional subsystems
// run and which color tokens the overlay carries.
type Theme struct {
	Flags   engine.Flags   `yaml:"flags"`
	Palette engine.Palette `yaml:"palette"`
}

// DefaultTheme mirrors the engine defaults.
func DefaultTheme() Theme {
	d := engine.DefaultConfig()
	return Theme{Flags: d.Flags, Palette: d.Palette}
}

// LoadTheme reads a theme from a YAML file. An empty path or a missing
// file yields the defaults.
func LoadTheme(path string) (Theme, error) {
	t := DefaultTheme()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, fmt.Errorf("read theme: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse theme: %w", err)
	}
	if t.Palette == (engine.Palette{}) {
		t.Palette = DefaultTheme().Palette
	}
	return t, nil
}
