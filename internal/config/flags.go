package config

// This file implements CLI flag parsing and help text. Flags are grouped
// into conversion, packing, display, and utility. The config file (if any)
// is applied between defaults and flags, so precedence is:
// defaults < config file < flags.

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// ParseFlags parses args (without the program name) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil (e.g. unknown
// flag, invalid value).
func ParseFlags(cfg *Config, version string, args []string) error {
	fs := flag.NewFlagSet("stickerpress", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }
	fs.SortFlags = false

	var (
		configPath   string
		maxArchiveMB int64
		noColor      bool
		forceColor   bool
		showVersion  bool
	)

	fs.StringVar(&configPath, "config", "", "YAML config file (also via "+ConfigEnv+")")

	// Conversion.
	fs.StringVar(&cfg.RendererCommand, "renderer", cfg.RendererCommand, "External Lottie renderer binary")
	fs.IntVar(&cfg.MaxFrames, "max-frames", cfg.MaxFrames, "Frame cap per rendered asset")

	// Packing and staging.
	fs.Int64Var(&maxArchiveMB, "max-archive-size", cfg.MaxArchiveBytes>>20, "Archive size bound in MiB")
	fs.StringVar(&cfg.StagingRoot, "staging", cfg.StagingRoot, "Root directory for staging areas")

	// Telegram.
	fs.IntVar(&cfg.PollTimeout, "poll-timeout", cfg.PollTimeout, "Update long-poll timeout in seconds")

	// Display and logging.
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVar(&forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored logs")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append logs to file")

	// Utility.
	fs.BoolVarP(&cfg.CheckOnly, "check", "c", false, "Run system diagnostics and exit")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		return err
	}

	if showVersion {
		fmt.Fprintln(os.Stdout, "stickerpress v"+version)
		os.Exit(0)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	// Config file is applied before flag overrides take their final effect:
	// re-apply explicitly changed flags on top of the file values.
	if path := ResolveConfigFile(configPath); path != "" {
		fileCfg := *cfg
		if err := LoadFile(&fileCfg, path); err != nil {
			return err
		}
		mergeFlagOverrides(cfg, &fileCfg, fs, maxArchiveMB)
		*cfg = fileCfg
	} else {
		cfg.MaxArchiveBytes = maxArchiveMB << 20
	}

	// Color flags. --no-color wins when both are passed.
	if forceColor {
		cfg.ColorMode = ColorAlways
	}
	if noColor {
		cfg.ColorMode = ColorNever
	}

	cfg.ResolveToken()
	return nil
}

// mergeFlagOverrides copies flag values the user explicitly set from flags
// (held in base) onto fileCfg, preserving flag > file > default precedence.
func mergeFlagOverrides(base, fileCfg *Config, fs *flag.FlagSet, maxArchiveMB int64) {
	if fs.Changed("renderer") {
		fileCfg.RendererCommand = base.RendererCommand
	}
	if fs.Changed("max-frames") {
		fileCfg.MaxFrames = base.MaxFrames
	}
	if fs.Changed("max-archive-size") {
		fileCfg.MaxArchiveBytes = maxArchiveMB << 20
	}
	if fs.Changed("staging") {
		fileCfg.StagingRoot = base.StagingRoot
	}
	if fs.Changed("poll-timeout") {
		fileCfg.PollTimeout = base.PollTimeout
	}
	if fs.Changed("log") {
		fileCfg.LogFile = base.LogFile
	}
	fileCfg.Verbose = base.Verbose
	fileCfg.CheckOnly = base.CheckOnly
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `stickerpress - Telegram animated sticker converter bot

Usage:
  stickerpress [flags]

The bot token is read from %s or the 'token' key of the config file.

Flags:
%s`, TokenEnv, fs.FlagUsages())
}
