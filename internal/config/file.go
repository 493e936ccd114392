package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors the subset of Config that may be set from a TOML file.
// Pointer fields distinguish "absent" from zero values so the file only
// overrides what it actually sets.
type fileConfig struct {
	Workers      *int      `toml:"workers"`
	Extensions   *[]string `toml:"extensions"`
	SkipExisting *bool     `toml:"skip_existing"`
	Color        *string   `toml:"color"`
	LogFile      *string   `toml:"log_file"`
}

// LoadFile merges settings from the TOML file at path into cfg. Unknown keys
// are rejected so typos surface instead of being silently ignored.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.Extensions != nil {
		cfg.Extensions = append([]string(nil), (*fc.Extensions)...)
	}
	if fc.SkipExisting != nil {
		cfg.SkipExisting = *fc.SkipExisting
	}
	if fc.Color != nil {
		cfg.ColorMode = ColorMode(*fc.Color)
	}
	if fc.LogFile != nil {
		cfg.LogFile = *fc.LogFile
	}
	return nil
}
