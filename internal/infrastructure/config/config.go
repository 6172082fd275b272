package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	WordFreq   WordFreqConfig   `mapstructure:"wordfreq"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	HTTPPort int    `mapstructure:"http_port"`
	Mode     string `mapstructure:"mode"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	LogSQL bool   `mapstructure:"log_sql"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PaginationConfig holds listing configuration
type PaginationConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// ArchiveConfig holds archive export configuration
type ArchiveConfig struct {
	Dir string `mapstructure:"dir"`
}

// WordFreqConfig holds word frequency scorer configuration
type WordFreqConfig struct {
	Language string `mapstructure:"language"`
	Path     string `mapstructure:"path"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	setDefaults()

	// Enable reading from environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read configuration file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.http_port", 8080)
	viper.SetDefault("server.mode", "release")

	// Database defaults
	viper.SetDefault("database.driver", "sqlite3")
	viper.SetDefault("database.dsn", "database.db")
	viper.SetDefault("database.log_sql", false)

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	// Listing defaults
	viper.SetDefault("pagination.page_size", 10)

	// Archive defaults
	viper.SetDefault("archive.dir", "archives")

	// Word frequency defaults
	viper.SetDefault("wordfreq.language", "en")
	viper.SetDefault("wordfreq.path", "")
}

// DatabaseDriver validates and returns the configured sql driver name.
func (c *Config) DatabaseDriver() (string, error) {
	driver := strings.TrimSpace(strings.ToLower(c.Database.Driver))
	switch driver {
	case "sqlite3", "sqlite":
		return "sqlite3", nil
	case "postgres", "postgresql":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
}

// DatabaseDSN returns the connection string for the configured driver.
func (c *Config) DatabaseDSN() (string, error) {
	dsn := strings.TrimSpace(c.Database.DSN)
	if dsn == "" {
		return "", fmt.Errorf("database dsn is required")
	}
	return dsn, nil
}
