package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Download DownloadConfig `mapstructure:"download"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path                  string        `mapstructure:"path"`
	MaxConnections        int           `mapstructure:"max_connections"`
	MaxIdleConnections    int           `mapstructure:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `mapstructure:"connection_max_lifetime"`
	LogQueries            bool          `mapstructure:"log_queries"`
}

// FetchConfig contains HTTP fetch and retry settings
type FetchConfig struct {
	UserAgent         string        `mapstructure:"user_agent"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Burst             int           `mapstructure:"burst"`
	InitialBackoff    time.Duration `mapstructure:"initial_backoff"`
	BackoffCeiling    time.Duration `mapstructure:"backoff_ceiling"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// DownloadConfig contains episode download settings
type DownloadConfig struct {
	Directory     string `mapstructure:"directory"`
	ProbeDuration bool   `mapstructure:"probe_duration"`
}

// SyncConfig contains sync orchestration settings
type SyncConfig struct {
	Concurrency      int      `mapstructure:"concurrency"`
	SuppressedTitles []string `mapstructure:"suppressed_titles"`
	LockPath         string   `mapstructure:"lock_path"`
}

// CatalogConfig contains music catalog settings
type CatalogConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Directory string `mapstructure:"directory"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Debug bool `mapstructure:"debug"`
}
