// Package config holds runtime configuration: defaults, CLI flag parsing,
// optional YAML config file loading, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// TokenEnv is the environment variable holding the Telegram bot token.
const TokenEnv = "STICKERPRESS_TOKEN"

// ConfigEnv names an optional YAML config file, overridden by --config.
const ConfigEnv = "STICKERPRESS_CONFIG"

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] (which also applies the config file) before
// being passed by pointer to packages that need it.
type Config struct {
	// Telegram.
	Token       string // Bot token from STICKERPRESS_TOKEN or config file, never a flag.
	PollTimeout int    // Long-poll timeout in seconds. Default: 30.

	// Conversion.
	RendererCommand string // External Lottie renderer binary. Default: "tgs-render".
	MaxFrames       int    // Upper bound on frames rendered per asset. Default: 1024.

	// Packing.
	MaxArchiveBytes int64 // Archive size bound. Default: 49 MiB (Telegram upload ceiling minus margin).

	// Staging.
	StagingRoot string // Root for per-request staging areas. Default: "output_stickers".

	// Config file (resolved from --config or STICKERPRESS_CONFIG).
	ConfigFile string

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults applied. Used as the base
// before the config file and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		PollTimeout:     30,
		RendererCommand: "tgs-render",
		MaxFrames:       1024,
		MaxArchiveBytes: 49 << 20,
		StagingRoot:     "output_stickers",
		ColorMode:       ColorAuto,
	}
}

// ResolveToken fills Token from the environment when the config file did not
// set it. The token never comes from a flag so it cannot leak via process
// listings.
func (c *Config) ResolveToken() {
	if c.Token == "" {
		c.Token = strings.TrimSpace(os.Getenv(TokenEnv))
	}
}

// Validate checks enum fields and numeric bounds. In CheckOnly mode the
// token requirement is waived so diagnostics can run without credentials.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.MaxArchiveBytes <= 0 {
		return fmt.Errorf("max archive size must be positive, got %d", c.MaxArchiveBytes)
	}
	if c.PollTimeout <= 0 {
		return fmt.Errorf("poll timeout must be positive, got %d", c.PollTimeout)
	}
	if c.MaxFrames <= 0 {
		return fmt.Errorf("max frames must be positive, got %d", c.MaxFrames)
	}
	if strings.TrimSpace(c.RendererCommand) == "" {
		return errors.New("renderer command must not be empty")
	}
	if strings.TrimSpace(c.StagingRoot) == "" {
		return errors.New("staging root must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.Token == "" {
		return fmt.Errorf("no bot token (set %s or 'token' in the config file)", TokenEnv)
	}
	return nil
}
