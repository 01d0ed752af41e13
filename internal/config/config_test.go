package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jwulff/notula/internal/remote"
)

// isolate points the config dir at a temp dir and runs from an empty
// working directory so no real files leak in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NOTULA_CONFIG_DIR", dir)
	t.Chdir(t.TempDir())
	for _, kv := range os.Environ() {
		if k, _, _ := strings.Cut(kv, "="); strings.HasPrefix(k, "NOTULA_") && k != "NOTULA_CONFIG_DIR" {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
	}
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TranscribeURL != remote.DefaultTranscribeURL {
		t.Errorf("TranscribeURL = %v", cfg.TranscribeURL)
	}
	if cfg.ChatURL != remote.DefaultChatURL {
		t.Errorf("ChatURL = %v", cfg.ChatURL)
	}
	if cfg.Timeout != 120*time.Second {
		t.Errorf("Timeout = %v, want 2m", cfg.Timeout)
	}
	if cfg.MaxHistory != 0 {
		t.Errorf("MaxHistory = %v, want 0", cfg.MaxHistory)
	}
	if cfg.MPVPath != "mpv" {
		t.Errorf("MPVPath = %v", cfg.MPVPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadWithoutFiles(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogFile != filepath.Join(dir, "notula.log") {
		t.Errorf("LogFile = %v", cfg.LogFile)
	}
	if cfg.PrefsPath != filepath.Join(dir, "prefs.sqlite") {
		t.Errorf("PrefsPath = %v", cfg.PrefsPath)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := isolate(t)
	yaml := `
transcribe_url: http://localhost:8000/transcribe
chat_url: http://localhost:8000/chat
timeout: 30s
max_history: 4
download_dir: /tmp/exports
headless: true
theme: Green & Pink
`
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TranscribeURL != "http://localhost:8000/transcribe" {
		t.Errorf("TranscribeURL = %v", cfg.TranscribeURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.MaxHistory != 4 {
		t.Errorf("MaxHistory = %v", cfg.MaxHistory)
	}
	if !cfg.Headless {
		t.Error("Headless should be true")
	}
	if cfg.Theme != "Green & Pink" {
		t.Errorf("Theme = %v", cfg.Theme)
	}
	if cfg.DownloadDir != "/tmp/exports" {
		t.Errorf("DownloadDir = %v", cfg.DownloadDir)
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoadBadTimeout(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("timeout: soon\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected timeout parse error")
	}
}

func TestEnvOverridesDotenvOverridesFile(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile),
		[]byte("chat_url: http://file/chat\ntranscribe_url: http://file/transcribe\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// Working directory is a fresh temp dir from isolate.
	dotenv := "NOTULA_CHAT_URL=http://dotenv/chat\nNOTULA_TRANSCRIBE_URL=http://dotenv/transcribe\nNOTULA_MAX_HISTORY=2\n"
	if err := os.WriteFile(DefaultEnvFile, []byte(dotenv), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NOTULA_CHAT_URL", "http://env/chat")
	t.Setenv("NOTULA_DEBUG", "1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChatURL != "http://env/chat" {
		t.Errorf("ChatURL = %v, want env value", cfg.ChatURL)
	}
	if cfg.TranscribeURL != "http://dotenv/transcribe" {
		t.Errorf("TranscribeURL = %v, want .env value", cfg.TranscribeURL)
	}
	if cfg.MaxHistory != 2 {
		t.Errorf("MaxHistory = %v, want 2", cfg.MaxHistory)
	}
	if !cfg.Debug || cfg.LogLevelOrDebug() != "debug" {
		t.Error("NOTULA_DEBUG should enable debug")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bad transcribe url", func(c *Config) { c.TranscribeURL = "not a url" }, false},
		{"ftp chat url", func(c *Config) { c.ChatURL = "ftp://host/chat" }, false},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, false},
		{"negative history", func(c *Config) { c.MaxHistory = -1 }, false},
		{"no mpv", func(c *Config) { c.MPVPath = "" }, false},
		{"no mpv headless", func(c *Config) { c.MPVPath = ""; c.Headless = true }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := expandPath("~/notes"); got != filepath.Join(home, "notes") {
		t.Errorf("expandPath = %v", got)
	}
	if got := expandPath("/abs"); got != "/abs" {
		t.Errorf("expandPath = %v", got)
	}
}
