package httpreplay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the file form of a recorder configuration.
type Config struct {
	// Mode is "record" or "playback".
	Mode string `yaml:"mode"`

	// CacheDir is the directory recordings are stored in.
	CacheDir string `yaml:"cache_dir"`

	// FilterParams lists parameter names redacted from fingerprints.
	FilterParams []string `yaml:"filter_params"`

	// FilterHeaders lists response headers stripped before persisting.
	// Absent means DefaultFilterHeaders.
	FilterHeaders []string `yaml:"filter_header"`
}

// LoadConfig reads a recorder configuration from a yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if cfg.Mode != "record" && cfg.Mode != "playback" {
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	if cfg.CacheDir == "" {
		return nil, fmt.Errorf("cache_dir is required")
	}

	return &cfg, nil
}

// Recorder builds a recorder from the configuration.
func (cfg *Config) Recorder() *Recorder {
	mode := Record
	if cfg.Mode == "playback" {
		mode = Playback
	}
	rec := New(mode, cfg.CacheDir)
	rec.FilterParams = cfg.FilterParams
	rec.FilterHeaders = cfg.FilterHeaders
	return rec
}
