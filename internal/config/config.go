// Package config handles the configuration directory, the config file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "tasktrack"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.yaml"

	// LogFile receives log records while the interactive UI owns the terminal.
	LogFile = "tasktrack.log"

	// OAuthClientFile is the OAuth client credentials filename (google backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename (google backend).
	TokenFile = "token.json"
)

// Backend names.
const (
	BackendREST   = "rest"
	BackendGoogle = "google"
)

// Defaults.
const (
	DefaultAPIURL     = "http://localhost:8000"
	DefaultTimeout    = 5 * time.Second
	DefaultGoogleList = "@default"
	DefaultServeAddr  = ":8000"
	DefaultFluentPort = 24224
)

// FluentSettings configures optional log forwarding to fluentd.
type FluentSettings struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Tag     string `yaml:"tag"`
}

// Settings are the tunable values read from config.yaml and the environment.
type Settings struct {
	Backend    string         `yaml:"backend"`
	APIURL     string         `yaml:"api_url"`
	APIToken   string         `yaml:"api_token"`
	Timeout    time.Duration  `yaml:"timeout"`
	LogLevel   string         `yaml:"log_level"`
	GoogleList string         `yaml:"google_list"`
	ServeAddr  string         `yaml:"serve_addr"`
	Fluent     FluentSettings `yaml:"fluent"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Backend:    BackendREST,
		APIURL:     DefaultAPIURL,
		Timeout:    DefaultTimeout,
		LogLevel:   "info",
		GoogleList: DefaultGoogleList,
		ServeAddr:  DefaultServeAddr,
		Fluent: FluentSettings{
			Port: DefaultFluentPort,
			Tag:  AppName,
		},
	}
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Logger is set by the dispatcher once the log sink is known.
	Logger *slog.Logger

	Settings
}

// Log returns the configured logger, or one that discards everything.
func (c *Config) Log() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// New creates a Config with default settings for the default or specified
// config directory. If configDir is empty, uses XDG_CONFIG_HOME/tasktrack or
// $HOME/.config/tasktrack.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Settings: DefaultSettings()}, nil
}

// Load creates a Config and layers config.yaml, .env and the environment
// over the defaults.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	// A missing .env is the normal case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.ConfigPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}
	if err := yaml.Unmarshal(data, &c.Settings); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return nil
}

// applyEnv overrides settings from environment variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("TASKTRACK_API_URL", &c.APIURL)
	str("TASKTRACK_API_TOKEN", &c.APIToken)
	str("TASKTRACK_BACKEND", &c.Backend)
	str("TASKTRACK_LOG_LEVEL", &c.LogLevel)
	str("TASKTRACK_GOOGLE_LIST", &c.GoogleList)
	str("FLUENT_HOST", &c.Fluent.Host)

	if v, ok := lookup("TASKTRACK_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TASKTRACK_TIMEOUT: %s", v)
		}
		c.Timeout = d
	}
	if v, ok := lookup("FLUENT_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid FLUENT_ENABLED: %s", v)
		}
		c.Fluent.Enabled = b
	}
	if v, ok := lookup("FLUENT_PORT"); ok && v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid FLUENT_PORT: %s", v)
		}
		c.Fluent.Port = p
	}
	return nil
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendREST, BackendGoogle:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	if c.Backend == BackendREST && strings.TrimSpace(c.APIURL) == "" {
		return errors.New("api_url is required for the rest backend")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	if c.Fluent.Enabled && c.Fluent.Host == "" {
		return errors.New("fluent.host is required when fluent forwarding is enabled")
	}
	return nil
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LogPath returns the path to the log file used by the interactive UI.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
