package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// config holds tonemap defaults loaded from a TOML file.
type config struct {
	Format    string `toml:"format"`
	Quality   int    `toml:"quality"`
	MaxWidth  uint   `toml:"max_width"`
	MaxHeight uint   `toml:"max_height"`
	Workers   int    `toml:"workers"`
	Force     bool   `toml:"force"`
	EmbedSRGB *bool  `toml:"embed_srgb"`
}

func defaultConfig() config {
	embed := true
	return config{Quality: 90, EmbedSRGB: &embed}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.EmbedSRGB == nil {
		embed := true
		cfg.EmbedSRGB = &embed
	}
	return cfg, nil
}
