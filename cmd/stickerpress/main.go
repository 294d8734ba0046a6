// Command stickerpress is the entrypoint for the sticker conversion bot.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check) or connects to Telegram and serves conversion
// requests until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/stickerpress/stickerpress/internal/bot"
	"github.com/stickerpress/stickerpress/internal/check"
	"github.com/stickerpress/stickerpress/internal/config"
	"github.com/stickerpress/stickerpress/internal/display"
	"github.com/stickerpress/stickerpress/internal/logging"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: bootstrap. No logger exists yet, so errors go straight
	// to stderr. A .env file, if present, supplies the token before
	// flags and config are resolved.
	_ = godotenv.Load()

	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "stickerpress: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "stickerpress: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stickerpress: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: logger available. All output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	log.Info("=== stickerpress v%s (%s) ===", version, commit)

	// Fail fast if the renderer or staging root are unusable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		log.Error("Telegram authorization failed: %v", err)
		return 1
	}
	log.Success("Authorized as @%s", api.Self.UserName)

	// Phase 3: signal handling. Cancel the context on SIGINT/SIGTERM so
	// the update loop stops cleanly without leaving staging areas behind.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, shutting down…")
		cancel()
	}()

	// Phase 4: Serve updates until cancelled.
	if err := bot.New(api, &cfg, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Update loop failed: %v", err)
		return 1
	}
	return 0
}
