package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config but uses strings for durations and levels.
type FileConfig struct {
	Name             string `toml:"name" yaml:"name"`
	Debug            string `toml:"debug" yaml:"debug"`
	URL              string `toml:"url" yaml:"url"`
	Method           string `toml:"method" yaml:"method"`
	Body             string `toml:"body" yaml:"body"`
	Timeout          string `toml:"timeout" yaml:"timeout"`
	RequestIDHeader  string `toml:"request_id_header" yaml:"request_id_header"`
	ProgressInterval string `toml:"progress_interval" yaml:"progress_interval"`
	Debounce         string `toml:"debounce" yaml:"debounce"`
	Events           *bool  `toml:"events" yaml:"events"`
}

// LoadFileConfig reads a config file. Files ending in .yaml or .yml are parsed
// as YAML, everything else as TOML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &fc)
	default:
		err = toml.Unmarshal(b, &fc)
	}
	if err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.ajax/config.toml, or "" if the home directory
// is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".ajax", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("name", fc.Name, &cfg.Name)
	s.setString("debug", fc.Debug, &cfg.Debug)
	s.setString("url", fc.URL, &cfg.URL)
	s.setString("method", fc.Method, &cfg.Method)
	s.setString("body", fc.Body, &cfg.Body)
	s.setString("request-id-header", fc.RequestIDHeader, &cfg.RequestIDHeader)

	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setDuration("progress-interval", fc.ProgressInterval, &cfg.ProgressInterval); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}

	s.setBool("events", fc.Events, &cfg.Events)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
