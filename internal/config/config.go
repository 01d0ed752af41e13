// Package config loads notula settings from YAML, a .env file, environment
// variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jwulff/notula/internal/remote"
)

// Default configuration values.
const (
	DefaultMPVPath    = "mpv"
	DefaultLogLevel   = "info"
	DefaultConfigDir  = ".notula"
	DefaultConfigFile = "config.yaml"
	DefaultEnvFile    = ".env"
)

// Config holds every runtime setting.
type Config struct {
	// TranscribeURL receives the multipart upload.
	TranscribeURL string `yaml:"transcribe_url"`

	// ChatURL receives chat messages.
	ChatURL string `yaml:"chat_url"`

	// Timeout bounds each remote call.
	Timeout time.Duration `yaml:"timeout"`

	// MaxHistory is sent with every chat message.
	MaxHistory int `yaml:"max_history"`

	// DownloadDir is where exports are written. Empty means the working directory.
	DownloadDir string `yaml:"download_dir,omitempty"`

	MPVPath  string `yaml:"mpv_path"`
	Headless bool   `yaml:"headless,omitempty"`

	// PrefsPath is the SQLite preferences database.
	PrefsPath string `yaml:"prefs_path,omitempty"`

	LogFile   string `yaml:"log_file,omitempty"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format,omitempty"`

	// Theme is the preset used when no preference is stored.
	Theme string `yaml:"theme,omitempty"`

	Debug bool `yaml:"debug,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		TranscribeURL: remote.DefaultTranscribeURL,
		ChatURL:       remote.DefaultChatURL,
		Timeout:       remote.DefaultTimeout,
		MPVPath:       DefaultMPVPath,
		LogLevel:      DefaultLogLevel,
		LogFormat:     "console",
	}
}

// ConfigDir returns the configuration directory path.
// Uses $NOTULA_CONFIG_DIR if set, otherwise ~/.notula
func ConfigDir() (string, error) {
	if dir := os.Getenv("NOTULA_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// Load builds the configuration. Later sources override earlier ones:
//  1. Default values
//  2. Config file (path, or ~/.notula/config.yaml when path is empty)
//  3. .env in the working directory
//  4. NOTULA_* environment variables
//
// Flags are applied by the caller afterwards.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("getting config path: %w", err)
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	dotenv, err := readDotenv(DefaultEnvFile)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", DefaultEnvFile, err)
	}
	loadFromEnv(cfg, func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	})

	if err := cfg.ResolvePaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readDotenv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	return godotenv.Read(path)
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Timeout is written as a duration string.
	type configFile struct {
		TranscribeURL string `yaml:"transcribe_url"`
		ChatURL       string `yaml:"chat_url"`
		Timeout       string `yaml:"timeout"`
		MaxHistory    *int   `yaml:"max_history"`
		DownloadDir   string `yaml:"download_dir"`
		MPVPath       string `yaml:"mpv_path"`
		Headless      bool   `yaml:"headless"`
		PrefsPath     string `yaml:"prefs_path"`
		LogFile       string `yaml:"log_file"`
		LogLevel      string `yaml:"log_level"`
		LogFormat     string `yaml:"log_format"`
		Theme         string `yaml:"theme"`
		Debug         bool   `yaml:"debug"`
	}

	var fileCfg configFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.TranscribeURL != "" {
		cfg.TranscribeURL = fileCfg.TranscribeURL
	}
	if fileCfg.ChatURL != "" {
		cfg.ChatURL = fileCfg.ChatURL
	}
	if fileCfg.Timeout != "" {
		timeout, err := time.ParseDuration(fileCfg.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	if fileCfg.MaxHistory != nil {
		cfg.MaxHistory = *fileCfg.MaxHistory
	}
	if fileCfg.DownloadDir != "" {
		cfg.DownloadDir = fileCfg.DownloadDir
	}
	if fileCfg.MPVPath != "" {
		cfg.MPVPath = fileCfg.MPVPath
	}
	if fileCfg.PrefsPath != "" {
		cfg.PrefsPath = fileCfg.PrefsPath
	}
	if fileCfg.LogFile != "" {
		cfg.LogFile = fileCfg.LogFile
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogFormat != "" {
		cfg.LogFormat = fileCfg.LogFormat
	}
	if fileCfg.Theme != "" {
		cfg.Theme = fileCfg.Theme
	}
	cfg.Headless = fileCfg.Headless
	cfg.Debug = fileCfg.Debug

	return nil
}

// loadFromEnv overlays NOTULA_* variables read through getenv.
func loadFromEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("NOTULA_TRANSCRIBE_URL"); v != "" {
		cfg.TranscribeURL = v
	}
	if v := getenv("NOTULA_CHAT_URL"); v != "" {
		cfg.ChatURL = v
	}
	if v := getenv("NOTULA_TIMEOUT"); v != "" {
		if timeout, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = timeout
		}
	}
	if v := getenv("NOTULA_MAX_HISTORY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxHistory = n
		}
	}
	if v := getenv("NOTULA_DOWNLOAD_DIR"); v != "" {
		cfg.DownloadDir = v
	}
	if v := getenv("NOTULA_MPV_PATH"); v != "" {
		cfg.MPVPath = v
	}
	if v := getenv("NOTULA_HEADLESS"); v == "true" || v == "1" {
		cfg.Headless = true
	}
	if v := getenv("NOTULA_PREFS_PATH"); v != "" {
		cfg.PrefsPath = v
	}
	if v := getenv("NOTULA_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := getenv("NOTULA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("NOTULA_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := getenv("NOTULA_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}
}

// ResolvePaths expands ~ and fills the log and preferences paths under the
// config directory.
func (c *Config) ResolvePaths() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(dir, "notula.log")
	}
	if c.PrefsPath == "" {
		c.PrefsPath = filepath.Join(dir, "prefs.sqlite")
	}
	c.LogFile = expandPath(c.LogFile)
	c.PrefsPath = expandPath(c.PrefsPath)
	c.DownloadDir = expandPath(c.DownloadDir)
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{"transcribe_url": c.TranscribeURL, "chat_url": c.ChatURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", name, raw)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxHistory < 0 {
		return fmt.Errorf("max_history must not be negative")
	}
	if !c.Headless && c.MPVPath == "" {
		return fmt.Errorf("mpv_path is required unless headless")
	}
	return nil
}

// LogLevelOrDebug returns "debug" when Debug is set, otherwise LogLevel.
func (c *Config) LogLevelOrDebug() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}
