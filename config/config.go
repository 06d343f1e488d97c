package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "TREND_STORY"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	API    APIConfig    `mapstructure:"api"`
	Sync   SyncConfig   `mapstructure:"sync"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CorsOrigins []string `mapstructure:"cors_origins"`
	Mode        string   `mapstructure:"mode"`
}

type StoreConfig struct {
	Path      string `mapstructure:"path"`
	ImagesDir string `mapstructure:"images_dir"`
}

// APIConfig controls how responses are built.
type APIConfig struct {
	// Domain is the public base URL used for image and browse links.
	Domain        string `mapstructure:"domain"`
	Tags          bool   `mapstructure:"tags"`
	LookupWorkers int    `mapstructure:"lookup_workers"`
}

type SyncConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	RepoURL  string        `mapstructure:"repo_url"`
	Dir      string        `mapstructure:"dir"`
	Remote   string        `mapstructure:"remote"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var defaults = map[string]any{
	"server.addr":         "127.0.0.1:3003",
	"server.cors_origins": []string{"*"},
	"server.mode":         "release",
	"store.path":          "trends-story/trends_data.db",
	"store.images_dir":    "trends-story/images",
	"api.domain":          "https://trend-story-api.oopus.info",
	"api.tags":            true,
	"api.lookup_workers":  8,
	"sync.enabled":        true,
	"sync.interval":       "20m",
	"sync.repo_url":       "https://github.com/sudoghut/trends-story",
	"sync.dir":            "trends-story",
	"sync.remote":         "origin",
	"log.level":           "info",
}

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence. Variables from a .env file
// in the working directory are loaded first when present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.API.Domain = strings.TrimRight(strings.TrimSpace(c.API.Domain), "/")
	c.Sync.Remote = strings.TrimSpace(c.Sync.Remote)

	origins := make([]string, 0, len(c.Server.CorsOrigins))
	for _, o := range c.Server.CorsOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.Server.CorsOrigins = origins
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be one of debug, release, test, got %q", c.Server.Mode)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if c.API.Domain == "" {
		return fmt.Errorf("api.domain must not be empty")
	}
	if c.API.LookupWorkers <= 0 {
		return fmt.Errorf("api.lookup_workers must be positive")
	}
	if c.Sync.Enabled {
		if c.Sync.Interval <= 0 {
			return fmt.Errorf("sync.interval must be positive")
		}
		if c.Sync.RepoURL == "" || c.Sync.Dir == "" || c.Sync.Remote == "" {
			return fmt.Errorf("sync.repo_url, sync.dir and sync.remote are required when sync is enabled")
		}
	}
	return nil
}
