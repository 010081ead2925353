// Package config loads newsboard settings from defaults, an optional YAML file,
// an optional .env file and NEWSBOARD_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "NEWSBOARD"

var ErrMissingAPIKey = errors.New("api key is required (set NEWSBOARD_API_KEY)")

// Config is the resolved application configuration.
type Config struct {
	API        APIConfig     `mapstructure:"api"`
	Log        LogConfig     `mapstructure:"log"`
	Enrich     EnrichConfig  `mapstructure:"enrich"`
	Publishers PublishConfig `mapstructure:"publishers"`
}

// APIConfig describes the remote news API.
type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Key           string        `mapstructure:"key"`
	DefaultSource string        `mapstructure:"default_source"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EnrichConfig toggles description scraping for articles without one.
type EnrichConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
}

// PublishConfig points at the event publishers registry file.
type PublishConfig struct {
	File string `mapstructure:"file"`
}

// Options are the inputs to Load, usually taken from CLI flags.
type Options struct {
	ConfigFile string
	EnvFile    string
	Overrides  map[string]any
}

// Load resolves the configuration. A missing default .env file is not an error,
// an explicitly named one is.
func Load(opts Options) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("newsboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/newsboard")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	for k, val := range opts.Overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.sanitize()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err == nil {
			if err := godotenv.Load(".env"); err != nil {
				return fmt.Errorf("loading .env: %w", err)
			}
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://newsapi.org")
	v.SetDefault("api.key", "")
	v.SetDefault("api.default_source", "reddit-r-all")
	v.SetDefault("api.timeout", 15*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("enrich.enabled", false)
	v.SetDefault("enrich.request_delay", 0)

	v.SetDefault("publishers.file", "")
}

// bindLegacyEnv maps the flat variable names documented in the README onto
// nested keys.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("api.base_url", envPrefix+"_BASE_URL", envPrefix+"_API_BASE_URL")
	_ = v.BindEnv("api.key", envPrefix+"_API_KEY")
	_ = v.BindEnv("api.default_source", envPrefix+"_DEFAULT_SOURCE", envPrefix+"_API_DEFAULT_SOURCE")
	_ = v.BindEnv("api.timeout", envPrefix+"_HTTP_TIMEOUT", envPrefix+"_API_TIMEOUT")
	_ = v.BindEnv("log.level", envPrefix+"_LOG_LEVEL")
	_ = v.BindEnv("log.format", envPrefix+"_LOG_FORMAT")
	_ = v.BindEnv("enrich.enabled", envPrefix+"_ENRICH", envPrefix+"_ENRICH_ENABLED")
	_ = v.BindEnv("publishers.file", envPrefix+"_PUBLISHERS_FILE")
}

func (c *Config) sanitize() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	c.API.Key = strings.TrimSpace(c.API.Key)
	c.API.DefaultSource = strings.TrimSpace(c.API.DefaultSource)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Publishers.File = strings.TrimSpace(c.Publishers.File)
}

func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("api.base_url has no host")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Enrich.RequestDelay < 0 {
		return fmt.Errorf("enrich.request_delay must not be negative, got %s", c.Enrich.RequestDelay)
	}
	return nil
}

// RequireAPIKey reports ErrMissingAPIKey when no key is configured. Only the
// commands that talk to the API call it.
func (c *Config) RequireAPIKey() error {
	if c.API.Key == "" {
		return ErrMissingAPIKey
	}
	return nil
}
