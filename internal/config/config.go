package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PAGEMASON_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: PAGEMASON_PORT -> port, etc.
	if err := k.Load(env.Provider("PAGEMASON_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "PAGEMASON_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validThemes is the set of recognized theme choices.
var validThemes = map[ThemeChoice]bool{
	ThemeLight: true,
	ThemeDark:  true,
	ThemeAuto:  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Project == "" {
		return fmt.Errorf("project is required")
	}

	if c.Theme != "" && !validThemes[c.Theme] {
		return fmt.Errorf("invalid theme %q: must be one of light, dark, auto", c.Theme)
	}

	if c.FrameMillis < 1 {
		return fmt.Errorf("frame_ms must be at least 1, got %d", c.FrameMillis)
	}

	if c.Export.Dir == "" {
		return fmt.Errorf("export.dir is required")
	}

	return nil
}
