// Package check verifies that the external tools and directories
// stickerpress depends on are present and usable before any work starts.
package check

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/stickerpress/stickerpress/internal/config"
)

// Sentinel errors for dependency checks.
var (
	ErrRendererNotFound   = errors.New("renderer binary not found on PATH")
	ErrStagingNotWritable = errors.New("staging root is not writable")
)

// Logger is the minimal logging interface check needs. Defined here
// (rather than importing the logging package) so that check remains
// dependency-light and testable with a mock logger.
type Logger interface {
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// RunCheck performs the full diagnostics pass used by --check: renderer
// binary resolution and a staging-root write probe. It reports each
// result through log and returns true when everything passed.
func RunCheck(cfg *config.Config, log Logger) bool {
	ok := true

	log.Info("Checking renderer...")
	path, err := exec.LookPath(cfg.RendererCommand)
	if err != nil {
		log.Error("renderer %q not found on PATH", cfg.RendererCommand)
		ok = false
	} else {
		log.Success("renderer found: %s", path)
	}

	log.Info("Checking staging root...")
	if err := probeStaging(cfg.StagingRoot); err != nil {
		log.Error("staging root %q: %v", cfg.StagingRoot, err)
		ok = false
	} else {
		log.Success("staging root writable: %s", cfg.StagingRoot)
	}

	if ok {
		log.Success("All checks passed")
	} else {
		log.Error("One or more checks failed")
	}
	return ok
}

// CheckDeps is the fail-fast variant used at startup. It returns the
// first problem found instead of logging a report.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.RendererCommand); err != nil {
		return fmt.Errorf("%w: %q", ErrRendererNotFound, cfg.RendererCommand)
	}
	if err := probeStaging(cfg.StagingRoot); err != nil {
		return fmt.Errorf("%w: %v", ErrStagingNotWritable, err)
	}
	return nil
}

// probeStaging creates the staging root if needed and verifies a file
// can be written and removed inside it.
func probeStaging(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(root, ".stickerpress-check")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
