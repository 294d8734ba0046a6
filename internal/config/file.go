package config

// This file implements optional YAML config file loading. The file is named
// by --config or the STICKERPRESS_CONFIG environment variable; there is no
// automatic discovery, so configuration stays deterministic and auditable.

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML schema. Every field is optional; zero values
// leave the corresponding Config field untouched.
type fileConfig struct {
	Token        string `yaml:"token"`
	PollTimeout  int    `yaml:"poll_timeout"`
	Renderer     string `yaml:"renderer"`
	MaxFrames    int    `yaml:"max_frames"`
	MaxArchiveMB int64  `yaml:"max_archive_mb"`
	StagingRoot  string `yaml:"staging_root"`
	LogFile      string `yaml:"log_file"`
	Color        string `yaml:"color"`
}

// ResolveConfigFile returns the config file path: the flag value when set,
// otherwise the STICKERPRESS_CONFIG environment variable, otherwise "".
func ResolveConfigFile(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(ConfigEnv)
}

// LoadFile reads path and applies its values onto cfg. Unknown YAML keys are
// rejected so typos surface immediately instead of being silently ignored.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	return applyFile(cfg, data, path)
}

// applyFile parses YAML data and merges it into cfg. Split from LoadFile so
// tests can feed raw bytes.
func applyFile(cfg *Config, data []byte, path string) error {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Token != "" {
		cfg.Token = fc.Token
	}
	if fc.PollTimeout != 0 {
		cfg.PollTimeout = fc.PollTimeout
	}
	if fc.Renderer != "" {
		cfg.RendererCommand = fc.Renderer
	}
	if fc.MaxFrames != 0 {
		cfg.MaxFrames = fc.MaxFrames
	}
	if fc.MaxArchiveMB != 0 {
		cfg.MaxArchiveBytes = fc.MaxArchiveMB << 20
	}
	if fc.StagingRoot != "" {
		cfg.StagingRoot = fc.StagingRoot
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.Color != "" {
		cfg.ColorMode = ColorMode(fc.Color)
	}
	cfg.ConfigFile = path
	return nil
}
