package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Lookup    LookupConfig    `yaml:"lookup"`
	Storage   StorageConfig   `yaml:"storage"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Roster    []string        `yaml:"roster"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// LookupConfig selects and configures the external record-lookup adapters.
type LookupConfig struct {
	Provider       string         `yaml:"provider"` // stub, http
	TimeoutSeconds int            `yaml:"timeout_seconds"`
	Publication    EndpointConfig `yaml:"publication"`
	Benefit        EndpointConfig `yaml:"benefit"`
}

type EndpointConfig struct {
	APIURL   string `yaml:"api_url"`
	APIToken string `yaml:"api_token"`
}

type StorageConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

// ArchiveConfig configures the signed two-step archive confirmation.
type ArchiveConfig struct {
	ConfirmSecret     string `yaml:"confirm_secret"`
	ConfirmTTLMinutes int    `yaml:"confirm_ttl_minutes"`
}

type CatalogConfig struct {
	Seed bool `yaml:"seed"`
}

type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
}

var GlobalConfig *Config

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Lookup.Provider == "" {
		cfg.Lookup.Provider = "stub"
	}
	if cfg.Lookup.TimeoutSeconds == 0 {
		cfg.Lookup.TimeoutSeconds = 30
	}
	if cfg.Storage.ExpireDays == 0 {
		cfg.Storage.ExpireDays = 7
	}
	if cfg.Archive.ConfirmTTLMinutes == 0 {
		cfg.Archive.ConfirmTTLMinutes = 5
	}
	if cfg.RateLimit.PerMinute == 0 {
		cfg.RateLimit.PerMinute = 100
	}
	if len(cfg.Roster) == 0 {
		cfg.Roster = DefaultRoster()
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

// DefaultRoster returns the built-in roster of responsible lawyers used when
// the config file does not define one.
func DefaultRoster() []string {
	return []string{
		"Dr. Carlos Mendes",
		"Dra. Ana Paula Ferreira",
		"Dr. Roberto Lima",
		"Dra. Juliana Castro",
	}
}

// InRoster reports whether name is one of the configured responsible lawyers.
func (c *Config) InRoster(name string) bool {
	for _, r := range c.Roster {
		if r == name {
			return true
		}
	}
	return false
}
