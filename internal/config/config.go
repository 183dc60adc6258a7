package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/bpmnav/internal/diagram"
)

// EnvPrefix prefixes environment overrides: BPMNAV_OUTPUT_DIR -> output_dir.
const EnvPrefix = "BPMNAV_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (BPMNAV_*).
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

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
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

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	switch c.Mode {
	case "", ModeHierarchical, ModeFlat:
	default:
		return fmt.Errorf("invalid mode %q: must be one of hierarchical, flat", c.Mode)
	}

	if c.Input == "" {
		return fmt.Errorf("input is required")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	if c.OutputFile != "" && filepath.Base(c.OutputFile) != c.OutputFile {
		return fmt.Errorf("output_file %q must be a file name, not a path", c.OutputFile)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	return nil
}

// OutputPath is where export writes the document. Without an explicit
// output_file the name is derived from the project name.
func (c *Config) OutputPath() string {
	name := c.OutputFile
	if name == "" {
		slug := "process"
		if c.ProjectName != "" {
			slug = diagram.Slug(c.ProjectName)
		}
		name = slug + "-navigator.html"
	}
	return filepath.Join(c.OutputDir, name)
}
