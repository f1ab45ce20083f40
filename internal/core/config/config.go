package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultEndpoint = "http://localhost:5001"
	DefaultTimeout  = 3 * time.Minute
)

const DefaultExportTemplate = `# {{{title}}}

_{{kind}} · {{timestamp}}{{#time_since}} ({{time_since}}){{/time_since}}_
{{#is_single}}

## {{{product_name}}}

{{{analysis}}}
{{/is_single}}
{{#is_multi}}
{{#items}}

## {{{product_name}}}{{#has_review_count}} ({{review_count}} reviews){{/has_review_count}}

{{{analysis}}}
{{/items}}

## Recommendation

{{{recommendation}}}
{{/is_multi}}
`

type Config struct {
	Endpoint       string
	Timeout        time.Duration
	DBPath         string
	ExportTemplate string
	Dir            string // ~/.config/reviewrider, or the directory holding an explicit config file
}

type tomlConfig struct {
	Endpoint string `toml:"endpoint"`
	Timeout  string `toml:"timeout"`
	DBPath   string `toml:"db_path"`
}

// DefaultDir returns ~/.config/reviewrider
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "reviewrider"), nil
}

// Load reads config.toml and export_template.md. With an empty path the
// files are looked up in ~/.config/reviewrider/; missing files mean
// defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Endpoint:       DefaultEndpoint,
		Timeout:        DefaultTimeout,
		ExportTemplate: DefaultExportTemplate,
	}

	configDir := filepath.Dir(path)
	tomlPath := path
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			dir = "." // No home directory, keep everything local
		}
		configDir = dir
		tomlPath = filepath.Join(dir, "config.toml")
	}
	cfg.Dir = configDir
	cfg.DBPath = filepath.Join(configDir, "session.db")

	// Load TOML config if it exists
	if _, err := os.Stat(tomlPath); err == nil {
		var tc tomlConfig
		if _, err := toml.DecodeFile(tomlPath, &tc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", tomlPath, err)
		}
		if err := cfg.apply(tc); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", tomlPath, err)
		}
	} else if path != "" {
		return nil, fmt.Errorf("config file: %w", err)
	}

	// If custom template exists, use it
	if data, err := os.ReadFile(filepath.Join(configDir, "export_template.md")); err == nil {
		cfg.ExportTemplate = string(data)
	}

	return cfg, cfg.Validate()
}

func (c *Config) apply(tc tomlConfig) error {
	if tc.Endpoint != "" {
		c.Endpoint = strings.TrimRight(strings.TrimSpace(tc.Endpoint), "/")
	}
	if tc.Timeout != "" {
		d, err := time.ParseDuration(tc.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = d
	}
	if tc.DBPath != "" {
		c.DBPath = expandHome(tc.DBPath)
	}
	return nil
}

// Validate rejects settings the client cannot work with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// LogPath is where commands that own the terminal write their log
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, "reviewrider.log")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
