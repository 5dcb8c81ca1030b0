// Package config provides configuration management for Strativerse.
//
// This package has no I/O dependencies. Loading from files, flags and
// environment variables happens in internal/ioconfig.
//
// Precedence (highest to lowest): CLI flags > env vars > config file >
// defaults. Environment variables use the STRATIVERSE_ prefix with
// underscores for nesting (database.host -> STRATIVERSE_DATABASE_HOST).
package config

import (
	"fmt"
	"runtime"
)

// Config represents the complete Strativerse configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Import contains settings for bibliographic imports.
	Import ImportConfig `mapstructure:"import" yaml:"import"`

	// Logging configures the application log.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// JobsNumber is the number of concurrent workers for parallel
	// maintenance operations (recache). Defaults to the number of CPUs.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full".
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// MaxConnections caps the connection pool size.
	MaxConnections int `mapstructure:"max_connections" yaml:"max_connections"`

	// MinConnections keeps this many connections warm.
	MinConnections int `mapstructure:"min_connections" yaml:"min_connections"`
}

// ImportConfig contains settings for bibliographic imports.
type ImportConfig struct {
	// BatchSize is the number of CSL-JSON entries committed per
	// transaction during bulk imports. Each batch is one audited,
	// atomic unit; a validation error aborts only its batch.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// UpdateAuthors controls whether imports replace the authorship
	// list of publications that already exist.
	UpdateAuthors bool `mapstructure:"update_authors" yaml:"update_authors"`
}

// LoggingConfig provides typical settings for application logs.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `mapstructure:"level" yaml:"level"`

	// Format is "json" or "text".
	Format string `mapstructure:"format" yaml:"format"`

	// Destination is "stderr", "stdout", or "file".
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// Defaults returns a Config populated with built-in defaults.
func Defaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			User:           "postgres",
			Password:       "postgres",
			Database:       "strativerse",
			SSLMode:        "disable",
			MaxConnections: 10,
			MinConnections: 2,
		},
		Import: ImportConfig{
			BatchSize:     100,
			UpdateAuthors: true,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "text",
			Destination: "stderr",
		},
		JobsNumber: runtime.NumCPU(),
	}
}

// MergeWithDefaults fills zero-valued fields from Defaults so a
// partially specified config file still yields a usable Config.
func (c *Config) MergeWithDefaults() {
	d := Defaults()

	if c.Database.Host == "" {
		c.Database.Host = d.Database.Host
	}
	if c.Database.Port == 0 {
		c.Database.Port = d.Database.Port
	}
	if c.Database.User == "" {
		c.Database.User = d.Database.User
	}
	if c.Database.Password == "" {
		c.Database.Password = d.Database.Password
	}
	if c.Database.Database == "" {
		c.Database.Database = d.Database.Database
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = d.Database.SSLMode
	}
	if c.Database.MaxConnections == 0 {
		c.Database.MaxConnections = d.Database.MaxConnections
	}
	if c.Database.MinConnections == 0 {
		c.Database.MinConnections = d.Database.MinConnections
	}
	if c.Import.BatchSize == 0 {
		c.Import.BatchSize = d.Import.BatchSize
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	if c.Logging.Destination == "" {
		c.Logging.Destination = d.Logging.Destination
	}
	if c.JobsNumber == 0 {
		c.JobsNumber = d.JobsNumber
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	switch c.Database.SSLMode {
	case "disable", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("invalid ssl_mode: %q", c.Database.SSLMode)
	}

	if c.Import.BatchSize < 1 {
		return fmt.Errorf("invalid import batch_size: %d", c.Import.BatchSize)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %q", c.Logging.Format)
	}

	if c.JobsNumber < 1 {
		return fmt.Errorf("invalid jobs_number: %d", c.JobsNumber)
	}

	return nil
}
