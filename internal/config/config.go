package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// AppName is used for the config directory and the environment prefix.
const AppName = "etravel"

// DefaultBaseURL is the planning backend used when nothing else is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Config represents the complete etravel configuration
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Locale    LocaleConfig    `mapstructure:"locale"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Export    ExportConfig    `mapstructure:"export"`
	History   HistoryConfig   `mapstructure:"history"`
	DevServer DevServerConfig `mapstructure:"devserver"`
	TUI       TUIConfig       `mapstructure:"tui"`
}

// APIConfig controls how the client reaches the planning backend
type APIConfig struct {
	// BaseURL is the scheme and host of the backend (default: http://127.0.0.1:8000)
	BaseURL string `mapstructure:"base_url"`
	// TimeoutSeconds bounds every HTTP call. Plan generation can be slow, so keep it generous.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// LocaleConfig controls the default language
type LocaleConfig struct {
	// Default is used when no language has been persisted yet.
	// Options: "zh", "en"
	Default string `mapstructure:"default"`
}

// StorageConfig controls where persistent client state lives
type StorageConfig struct {
	// Dir holds the token, email and language values.
	// Empty means <config dir>/state.
	Dir string `mapstructure:"dir"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Enabled controls whether a log file is written (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum level to log: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Dir is the log directory. Empty means <config dir>/logs.
	Dir string `mapstructure:"dir"`
}

// ExportConfig controls plan export
type ExportConfig struct {
	// Dir is where exported documents are written. Empty means the OS temp dir.
	Dir string `mapstructure:"dir"`
	// AutoPrint embeds the print-on-load script in HTML exports (default: true)
	AutoPrint bool `mapstructure:"auto_print"`
}

// HistoryConfig controls the search-history cache
type HistoryConfig struct {
	// Limit is the maximum number of entries kept (default and maximum: 10)
	Limit int `mapstructure:"limit"`
}

// DevServerConfig controls the local stub backend
type DevServerConfig struct {
	// Addr is the listen address (default: 127.0.0.1:8000)
	Addr string `mapstructure:"addr"`
	// CORSOrigins lists origins allowed to call the stub backend
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// Theme is the color theme for the TUI (default: "default")
	// Options: "default", "nord", "dracula", "solarized-light"
	Theme string `mapstructure:"theme"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: 120,
		},
		Locale: LocaleConfig{
			Default: "zh",
		},
		Storage: StorageConfig{
			Dir: "",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
		Export: ExportConfig{
			Dir:       "",
			AutoPrint: true,
		},
		History: HistoryConfig{
			Limit: 10,
		},
		DevServer: DevServerConfig{
			Addr:        "127.0.0.1:8000",
			CORSOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		},
		TUI: TUIConfig{
			Theme: "default",
		},
	}
}

// Timeout returns the API timeout as a time.Duration
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveStorageDir returns the directory holding persisted client state.
func (c *Config) ResolveStorageDir() string {
	if c.Storage.Dir != "" {
		return c.Storage.Dir
	}
	return filepath.Join(ConfigDir(), "state")
}

// ResolveLogDir returns the directory the log file is written to.
func (c *Config) ResolveLogDir() string {
	if c.Logging.Dir != "" {
		return c.Logging.Dir
	}
	return filepath.Join(ConfigDir(), "logs")
}

// ResolveExportDir returns the directory exported documents are written to.
func (c *Config) ResolveExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	return filepath.Join(os.TempDir(), AppName)
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// API defaults
	viper.SetDefault("api.base_url", defaults.API.BaseURL)
	viper.SetDefault("api.timeout_seconds", defaults.API.TimeoutSeconds)

	// Locale defaults
	viper.SetDefault("locale.default", defaults.Locale.Default)

	// Storage defaults
	viper.SetDefault("storage.dir", defaults.Storage.Dir)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	// Export defaults
	viper.SetDefault("export.dir", defaults.Export.Dir)
	viper.SetDefault("export.auto_print", defaults.Export.AutoPrint)

	// History defaults
	viper.SetDefault("history.limit", defaults.History.Limit)

	// Dev server defaults
	viper.SetDefault("devserver.addr", defaults.DevServer.Addr)
	viper.SetDefault("devserver.cors_origins", defaults.DevServer.CORSOrigins)

	// TUI defaults
	viper.SetDefault("tui.theme", defaults.TUI.Theme)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	// Fall back to ~/.config/etravel
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
