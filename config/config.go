package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Prefix of every environment variable, e.g. NAMESPACE_STORAGE_ROOT.
const Prefix = "NAMESPACE"

// Config holds the namespace configuration.
type Config struct {
	StorageRoot      string `envconfig:"STORAGE_ROOT" default:"./storage"`
	SnapshotPath     string `envconfig:"SNAPSHOT_PATH" default:"./namespace.snapshot"`
	SnapshotCompress bool   `envconfig:"SNAPSHOT_COMPRESS" default:"true"`
	HistoryPath      string `envconfig:"HISTORY_PATH" default:"./history.db"`
	HistoryCacheSize int    `envconfig:"HISTORY_CACHE_SIZE" default:"128"`
	GatewayEndpoint  string `envconfig:"GATEWAY_ENDPOINT" default:"127.0.0.1:6789"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.WithMessage(err, "failed to load config")
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		StorageRoot:      "./storage",
		SnapshotPath:     "./namespace.snapshot",
		SnapshotCompress: true,
		HistoryPath:      "./history.db",
		HistoryCacheSize: 128,
		GatewayEndpoint:  "127.0.0.1:6789",
	}
}
