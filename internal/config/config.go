// Package config holds runtime configuration: defaults, optional TOML config
// file loading, and validation. CLI flags are bound in cmd/wavemill and
// override file values.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultExtensions are the recognized PCM container extensions, lowercase,
// without a leading dot.
var DefaultExtensions = []string{"wav", "wave", "pcm"}

// Config holds all runtime settings. It is populated by [Default], optionally
// merged with a TOML file via [LoadFile], mutated by CLI flags, and then
// passed (by pointer) to packages that need it.
type Config struct {
	// Path (set from the positional arg).
	InputDir string

	// Encoding batch settings.
	Workers    int      // Worker pool size. Default: runtime.NumCPU().
	Extensions []string // Recognized input extensions. Default: wav, wave, pcm.

	// Behavior flags.
	DryRun       bool // Preview only; do not encode.
	SkipExisting bool // Skip inputs whose .mp3 sibling already exists.
	NoLock       bool // Do not take the per-directory run lock.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// Default returns a Config with all defaults applied. Used as the base before
// the config file and CLI flags are layered on top.
func Default() Config {
	return Config{
		Workers:    runtime.NumCPU(),
		Extensions: append([]string(nil), DefaultExtensions...),
		ColorMode:  ColorAuto,
	}
}

// Validate checks field ranges and normalizes the extension set (lowercase,
// no leading dot). It is called after all config layers are applied.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("input directory not specified")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Workers > runtime.NumCPU()*4 {
		return fmt.Errorf("workers must not exceed %d (4x CPU cores), got %d", runtime.NumCPU()*4, c.Workers)
	}
	if len(c.Extensions) == 0 {
		return errors.New("extension set is empty")
	}
	for i, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			return fmt.Errorf("extension %d is empty", i)
		}
		c.Extensions[i] = ext
	}
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.ColorMode)
	}
	return nil
}

// ExtensionList returns the recognized extensions as a display string,
// e.g. ".wav .wave .pcm".
func (c *Config) ExtensionList() string {
	parts := make([]string, len(c.Extensions))
	for i, ext := range c.Extensions {
		parts[i] = "." + ext
	}
	return strings.Join(parts, " ")
}
