package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        "127.0.0.1:0",
			CorsOrigins: []string{"*"},
			Mode:        "test",
		},
		Store: StoreConfig{
			Path:      "trends_data.db",
			ImagesDir: "images",
		},
		API: APIConfig{
			Domain:        "https://example.test",
			Tags:          true,
			LookupWorkers: 4,
		},
		Sync: SyncConfig{
			Enabled:  false,
			Interval: time.Minute,
			Remote:   "origin",
		},
		Log: LogConfig{Level: "debug"},
	}
}
