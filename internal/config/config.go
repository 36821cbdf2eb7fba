// Package config loads application settings. Values come from defaults,
// then an optional YAML file, then SLACK_CLI_* environment variables.
// Workspace tokens live in the profile store, not here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/chrisedwards/slack-cli/internal/profile"
	"github.com/chrisedwards/slack-cli/internal/timeutil"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. SLACK_CLI_TIMEZONE.
	EnvPrefix = "SLACK_CLI"

	// TokenEnv supplies a token directly, bypassing the profile store.
	TokenEnv = EnvPrefix + "_TOKEN"

	configName = "slack-cli"
	fileMode   = 0o600
	dirMode    = 0o700
)

// Config holds application settings.
type Config struct {
	ConfigDir         string        `yaml:"config_dir" mapstructure:"config_dir"`
	APIURL            string        `yaml:"api_url" mapstructure:"api_url"`
	Timezone          string        `yaml:"timezone" mapstructure:"timezone"`
	HTTPTimeout       time.Duration `yaml:"http_timeout" mapstructure:"http_timeout"`
	Concurrency       int           `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimitCooldown time.Duration `yaml:"rate_limit_cooldown" mapstructure:"rate_limit_cooldown"`
	UnreadDelay       time.Duration `yaml:"unread_delay" mapstructure:"unread_delay"`
	UnreadCap         int           `yaml:"unread_cap" mapstructure:"unread_cap"`
	MaxPages          int           `yaml:"max_pages" mapstructure:"max_pages"`
	ChannelsPageSize  int           `yaml:"channels_page_size" mapstructure:"channels_page_size"`
	LogLevel          string        `yaml:"log_level" mapstructure:"log_level"`

	configFile string
}

// fileConfig is the YAML form written by Save. Durations are strings.
type fileConfig struct {
	ConfigDir         string `yaml:"config_dir,omitempty"`
	APIURL            string `yaml:"api_url,omitempty"`
	Timezone          string `yaml:"timezone,omitempty"`
	HTTPTimeout       string `yaml:"http_timeout,omitempty"`
	Concurrency       int    `yaml:"concurrency,omitempty"`
	RateLimitCooldown string `yaml:"rate_limit_cooldown,omitempty"`
	UnreadDelay       string `yaml:"unread_delay,omitempty"`
	UnreadCap         int    `yaml:"unread_cap,omitempty"`
	MaxPages          int    `yaml:"max_pages,omitempty"`
	ChannelsPageSize  int    `yaml:"channels_page_size,omitempty"`
	LogLevel          string `yaml:"log_level,omitempty"`
}

// DefaultConfigPath returns ~/.config/slack-cli/slack-cli.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	path, _ := filepath.Abs(filepath.Join(home, ".config", configName, configName+".yaml"))
	return path
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config_dir", profile.DefaultDir())
	v.SetDefault("api_url", "https://slack.com/api/")
	v.SetDefault("timezone", "Local")
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("concurrency", 3)
	v.SetDefault("rate_limit_cooldown", 5*time.Second)
	v.SetDefault("unread_delay", 100*time.Millisecond)
	v.SetDefault("unread_cap", 100)
	v.SetDefault("max_pages", 1000)
	v.SetDefault("channels_page_size", 1000)
	v.SetDefault("log_level", "warn")
}

// Default returns the built-in settings.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads settings. An explicit path must exist; with an empty path
// the default location is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(filepath.Dir(DefaultConfigPath()))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.configFile = v.ConfigFileUsed()
	return &cfg, nil
}

// ConfigFile returns the file the settings were read from, or "" when
// only defaults and environment were used.
func (c *Config) ConfigFile() string {
	return c.configFile
}

// Save writes the settings as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(c.file())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, fileMode); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return os.Chmod(path, fileMode)
}

func (c *Config) file() fileConfig {
	dur := func(d time.Duration) string {
		if d == 0 {
			return ""
		}
		return d.String()
	}
	return fileConfig{
		ConfigDir:         c.ConfigDir,
		APIURL:            c.APIURL,
		Timezone:          c.Timezone,
		HTTPTimeout:       dur(c.HTTPTimeout),
		Concurrency:       c.Concurrency,
		RateLimitCooldown: dur(c.RateLimitCooldown),
		UnreadDelay:       dur(c.UnreadDelay),
		UnreadCap:         c.UnreadCap,
		MaxPages:          c.MaxPages,
		ChannelsPageSize:  c.ChannelsPageSize,
		LogLevel:          c.LogLevel,
	}
}

// Validate checks the settings and creates the profile directory.
func (c *Config) Validate() error {
	if _, err := timeutil.LoadLocation(c.Timezone); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.UnreadCap < 1 || c.UnreadCap > 1000 {
		return fmt.Errorf("unread_cap must be between 1 and 1000, got %d", c.UnreadCap)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("max_pages must be at least 1, got %d", c.MaxPages)
	}
	if c.ChannelsPageSize < 1 || c.ChannelsPageSize > 1000 {
		return fmt.Errorf("channels_page_size must be between 1 and 1000, got %d", c.ChannelsPageSize)
	}
	if c.HTTPTimeout < 0 || c.RateLimitCooldown < 0 || c.UnreadDelay < 0 {
		return errors.New("durations must not be negative")
	}

	if c.ConfigDir != "" {
		if err := os.MkdirAll(c.ConfigDir, dirMode); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}
	return nil
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	return timeutil.LoadLocation(c.Timezone)
}

// Level returns the configured log level, warn when unset or invalid.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zapcore.WarnLevel
	}
	return lvl
}
