package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate_ColorMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    ColorMode
		wantErr bool
	}{
		{"auto is valid", ColorAuto, false},
		{"always is valid", ColorAlways, false},
		{"never is valid", ColorNever, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "rainbow", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true // skip token requirement
			cfg.ColorMode = tt.mode
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero archive bound", func(c *Config) { c.MaxArchiveBytes = 0 }},
		{"negative archive bound", func(c *Config) { c.MaxArchiveBytes = -1 }},
		{"zero poll timeout", func(c *Config) { c.PollTimeout = 0 }},
		{"zero frame cap", func(c *Config) { c.MaxFrames = 0 }},
		{"blank renderer", func(c *Config) { c.RendererCommand = "  " }},
		{"blank staging root", func(c *Config) { c.StagingRoot = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true
			tt.mutate(&cfg)
			if cfg.Validate() == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestValidate_TokenRequired(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() without token = nil, want error")
	}

	cfg.Token = "123:abc"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with token = %v", err)
	}
}

func TestResolveToken_FromEnv(t *testing.T) {
	t.Setenv(TokenEnv, "  42:xyz \n")
	cfg := DefaultConfig()
	cfg.ResolveToken()
	if cfg.Token != "42:xyz" {
		t.Errorf("Token = %q, want %q", cfg.Token, "42:xyz")
	}
}

func TestLoadFile_AppliesValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `token: "99:file"
max_archive_mb: 20
renderer: my-render
staging_root: /tmp/stage
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := LoadFile(&cfg, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Token != "99:file" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.MaxArchiveBytes != 20<<20 {
		t.Errorf("MaxArchiveBytes = %d, want %d", cfg.MaxArchiveBytes, 20<<20)
	}
	if cfg.RendererCommand != "my-render" {
		t.Errorf("RendererCommand = %q", cfg.RendererCommand)
	}
	if cfg.StagingRoot != "/tmp/stage" {
		t.Errorf("StagingRoot = %q", cfg.StagingRoot)
	}
	// Untouched fields keep defaults.
	if cfg.PollTimeout != 30 {
		t.Errorf("PollTimeout = %d, want 30", cfg.PollTimeout)
	}
}

func TestLoadFile_RejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("tokn: oops\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	err := LoadFile(&cfg, path)
	if err == nil || !strings.Contains(err.Error(), "tokn") {
		t.Errorf("LoadFile unknown key error = %v", err)
	}
}

func TestParseFlags_Overrides(t *testing.T) {
	cfg := DefaultConfig()
	err := ParseFlags(&cfg, "test", []string{
		"--max-archive-size", "10",
		"--renderer", "alt-render",
		"--no-color",
		"-v",
	})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.MaxArchiveBytes != 10<<20 {
		t.Errorf("MaxArchiveBytes = %d, want %d", cfg.MaxArchiveBytes, 10<<20)
	}
	if cfg.RendererCommand != "alt-render" {
		t.Errorf("RendererCommand = %q", cfg.RendererCommand)
	}
	if cfg.ColorMode != ColorNever {
		t.Errorf("ColorMode = %q, want never", cfg.ColorMode)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
}

func TestParseFlags_FlagBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("max_archive_mb: 20\nrenderer: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	err := ParseFlags(&cfg, "test", []string{
		"--config", path,
		"--max-archive-size", "5",
	})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.MaxArchiveBytes != 5<<20 {
		t.Errorf("MaxArchiveBytes = %d, want flag value %d", cfg.MaxArchiveBytes, 5<<20)
	}
	if cfg.RendererCommand != "from-file" {
		t.Errorf("RendererCommand = %q, want file value", cfg.RendererCommand)
	}
}

func TestParseFlags_RejectsPositionalArgs(t *testing.T) {
	cfg := DefaultConfig()
	if err := ParseFlags(&cfg, "test", []string{"stray"}); err == nil {
		t.Error("ParseFlags with positional arg = nil, want error")
	}
}
