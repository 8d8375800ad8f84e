// Package config provides Viper-based configuration loading for colonybot.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendJSON     = "json"
	BackendPostgres = "postgres"
)

// ContentConfig locates the static game corpus.
type ContentConfig struct {
	// Dir is the corpus root holding careers/, talents/, skills/, and the item tables.
	Dir string `mapstructure:"dir"`
}

// StoreConfig selects where committed characters are persisted.
type StoreConfig struct {
	// Backend is "json" or "postgres".
	Backend string `mapstructure:"backend"`
	// Path is the JSON document used by the json backend.
	Path string `mapstructure:"path"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	// ConnectTimeout bounds how long startup waits for the server to answer.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	// AutoMigrate applies pending schema migrations at startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// TelnetConfig holds Telnet acceptor settings.
type TelnetConfig struct {
	// Enabled turns the Telnet front-end on.
	Enabled bool `mapstructure:"enabled"`
	// Host is the bind address for the Telnet listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the Telnet listener.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for Telnet connections.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// MaxConns caps concurrent callers; zero means no cap.
	MaxConns int `mapstructure:"max_conns"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
	// PollTimeout is the long-poll timeout in seconds.
	PollTimeout int  `mapstructure:"poll_timeout"`
	Debug       bool `mapstructure:"debug"`
}

// ProviderConfig configures one LLM provider. An empty APIKey disables it.
type ProviderConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether the provider has credentials.
func (p ProviderConfig) Enabled() bool {
	return p.APIKey != ""
}

// LLMConfig holds the chat-bot providers.
type LLMConfig struct {
	Anthropic ProviderConfig `mapstructure:"anthropic"`
	OpenAI    ProviderConfig `mapstructure:"openai"`
}

// DialogConfig tunes creation dialogs.
type DialogConfig struct {
	// IdleTimeout drops drafts and dialogs with no input for this long.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// SweepInterval is how often idle drafts are swept.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	// InboxSize is the per-user buffered message count.
	InboxSize int `mapstructure:"inbox_size"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout", or a file path.
	Output string `mapstructure:"output"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Content  ContentConfig  `mapstructure:"content"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Telnet   TelnetConfig   `mapstructure:"telnet"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Dialog   DialogConfig   `mapstructure:"dialog"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Content.Dir == "" {
		errs = append(errs, "content.dir must not be empty")
	}
	if err := validateStore(c.Store); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Store.Backend == BackendPostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateTelnet(c.Telnet); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Telegram.Enabled && c.Telegram.Token == "" {
		errs = append(errs, "telegram.token must be set when telegram is enabled")
	}
	if c.Telegram.PollTimeout < 0 {
		errs = append(errs, "telegram.poll_timeout must not be negative")
	}
	if !c.Telnet.Enabled && !c.Telegram.Enabled {
		errs = append(errs, "at least one of telnet.enabled or telegram.enabled must be true")
	}
	for name, p := range map[string]ProviderConfig{"anthropic": c.LLM.Anthropic, "openai": c.LLM.OpenAI} {
		if p.Enabled() && p.Model == "" {
			errs = append(errs, fmt.Sprintf("llm.%s.model must be set when an api key is configured", name))
		}
		if p.MaxTokens < 0 {
			errs = append(errs, fmt.Sprintf("llm.%s.max_tokens must not be negative", name))
		}
	}
	if err := validateDialog(c.Dialog); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStore(s StoreConfig) error {
	switch s.Backend {
	case BackendJSON:
		if s.Path == "" {
			return errors.New("store.path must not be empty for the json backend")
		}
	case BackendPostgres:
	default:
		return fmt.Errorf("store.backend must be one of [json, postgres], got %q", s.Backend)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.ConnectTimeout < 0 {
		errs = append(errs, "database.connect_timeout must not be negative")
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTelnet(t TelnetConfig) error {
	if !t.Enabled {
		return nil
	}
	var errs []string
	if t.Port < 1 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("telnet.port must be 1-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "telnet.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if t.MaxConns < 0 {
		errs = append(errs, "telnet.max_conns must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDialog(d DialogConfig) error {
	var errs []string
	if d.IdleTimeout <= 0 {
		errs = append(errs, "dialog.idle_timeout must be positive")
	}
	if d.SweepInterval <= 0 {
		errs = append(errs, "dialog.sweep_interval must be positive")
	}
	if d.InboxSize < 1 {
		errs = append(errs, fmt.Sprintf("dialog.inbox_size must be >= 1, got %d", d.InboxSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and COLONY_ environment
// overrides applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("COLONY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("content.dir", "content")

	v.SetDefault("store.backend", BackendJSON)
	v.SetDefault("store.path", "data/characters.json")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "colony")
	v.SetDefault("database.password", "colony")
	v.SetDefault("database.name", "colony")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.connect_timeout", "30s")
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("telnet.enabled", true)
	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.read_timeout", "30m")
	v.SetDefault("telnet.write_timeout", "30s")
	v.SetDefault("telnet.max_conns", 64)

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.poll_timeout", 60)
	v.SetDefault("telegram.debug", false)

	// Keys must have defaults for COLONY_ environment overrides to reach Unmarshal.
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.anthropic.model", "claude-sonnet-4-5")
	v.SetDefault("llm.anthropic.max_tokens", 1024)
	v.SetDefault("llm.anthropic.timeout", "60s")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.openai.max_tokens", 1024)
	v.SetDefault("llm.openai.timeout", "60s")

	v.SetDefault("dialog.idle_timeout", "30m")
	v.SetDefault("dialog.sweep_interval", "1m")
	v.SetDefault("dialog.inbox_size", 16)
}
