package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init(configPath string) error {
	once.Do(func() {
		// Set default values
		setDefaults()

		// Set up environment variable reading for overrides
		viper.SetEnvPrefix("PODCATCH")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		if configPath == "" {
			configPath = "./config/podcatch.yaml"
		}
		viper.SetConfigFile(filepath.Clean(configPath))

		// Try to read the config file
		if err := viper.ReadInConfig(); err != nil {
			// If the config file doesn't exist, just use defaults and env vars
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		// Validate the configuration
		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct.
// Init must be called first. The returned value is passed down to
// components explicitly; nothing reads viper after this point.
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("database.path") == "" {
		return fmt.Errorf("database path is not configured")
	}

	initial := viper.GetDuration("fetch.initial_backoff")
	ceiling := viper.GetDuration("fetch.backoff_ceiling")
	if initial <= 0 {
		return fmt.Errorf("fetch initial backoff must be positive, got %s", initial)
	}
	if ceiling <= initial {
		return fmt.Errorf("fetch backoff ceiling %s must exceed initial backoff %s", ceiling, initial)
	}

	// Auto-correct invalid concurrency
	if viper.GetInt("sync.concurrency") <= 0 {
		viper.Set("sync.concurrency", 5)
	}

	if viper.GetBool("catalog.enabled") {
		if viper.GetString("catalog.endpoint") == "" {
			return fmt.Errorf("catalog is enabled but no endpoint is configured")
		}
		if viper.GetString("catalog.bucket") == "" {
			return fmt.Errorf("catalog is enabled but no bucket is configured")
		}
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is not configured")
	}

	if c.Fetch.InitialBackoff <= 0 {
		return fmt.Errorf("fetch initial backoff must be positive, got %s", c.Fetch.InitialBackoff)
	}
	if c.Fetch.BackoffCeiling <= c.Fetch.InitialBackoff {
		return fmt.Errorf("fetch backoff ceiling %s must exceed initial backoff %s", c.Fetch.BackoffCeiling, c.Fetch.InitialBackoff)
	}

	if c.Sync.Concurrency <= 0 {
		c.Sync.Concurrency = 5
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/podcatch.db")
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.max_idle_connections", 5)
	viper.SetDefault("database.connection_max_lifetime", 30*time.Minute)
	viper.SetDefault("database.log_queries", false)

	// Fetch defaults
	viper.SetDefault("fetch.user_agent", "podcatch/1.0")
	viper.SetDefault("fetch.requests_per_minute", 60)
	viper.SetDefault("fetch.burst", 5)
	viper.SetDefault("fetch.initial_backoff", time.Second)
	viper.SetDefault("fetch.backoff_ceiling", 64*time.Second)
	viper.SetDefault("fetch.timeout", time.Duration(0))

	// Download defaults
	viper.SetDefault("download.directory", "")
	viper.SetDefault("download.probe_duration", true)

	// Sync defaults
	viper.SetDefault("sync.concurrency", 5)
	viper.SetDefault("sync.suppressed_titles", []string{"Wedgie diplomacy: Bugle 4083"})
	viper.SetDefault("sync.lock_path", "./data/sync.lock")

	// Catalog defaults
	viper.SetDefault("catalog.enabled", false)
	viper.SetDefault("catalog.endpoint", "")
	viper.SetDefault("catalog.access_key", "")
	viper.SetDefault("catalog.secret_key", "")
	viper.SetDefault("catalog.bucket", "")
	viper.SetDefault("catalog.region", "")
	viper.SetDefault("catalog.use_ssl", true)
	viper.SetDefault("catalog.directory", "")

	// Logging defaults
	viper.SetDefault("logging.debug", false)
}
