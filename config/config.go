package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Requests  RequestsConfig  `yaml:"requests"`
	Responder ResponderConfig `yaml:"responder"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Pushover  PushoverConfig  `yaml:"pushover"`
	Log       LogConfig       `yaml:"log"`
}

type StoreConfig struct {
	// Driver is one of memory, redis, sqlite or postgres.
	Driver   string      `yaml:"driver"`
	SeedFile string      `yaml:"seed_file"`
	Redis    RedisConfig `yaml:"redis"`
	SQL      SQLConfig   `yaml:"sql"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SQLConfig struct {
	DSN string `yaml:"dsn"`
}

type RequestsConfig struct {
	// File is read line by line; empty means stdin.
	File            string `yaml:"file"`
	DefaultCustomer string `yaml:"default_customer"`
}

type ResponderConfig struct {
	// Provider is one of template, anthropic or gemini.
	Provider string `yaml:"provider"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type PushoverConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
	Title   string `yaml:"title"`
	Enabled bool   `yaml:"enabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config after expanding ${VAR} references from the
// environment.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default is the configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

// ApplyDefaults fills unset fields. It only touches empty values, so it
// can run again after fields are overridden.
func (c *Config) ApplyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = "localhost:6379"
	}
	if c.Store.SQL.DSN == "" && c.Store.Driver == "sqlite" {
		c.Store.SQL.DSN = "file:smart-home.db?_pragma=busy_timeout(5000)"
	}
	if c.Responder.Provider == "" {
		c.Responder.Provider = "template"
	}
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = "claude-sonnet-4-20250514"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "redis", "sqlite":
	case "postgres":
		if c.Store.SQL.DSN == "" {
			return fmt.Errorf("store.sql.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Responder.Provider {
	case "template":
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("anthropic.api_key is required for the anthropic responder")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini.api_key is required for the gemini responder")
		}
	default:
		return fmt.Errorf("unknown responder provider %q", c.Responder.Provider)
	}

	return nil
}
