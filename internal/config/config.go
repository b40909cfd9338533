package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Roster configuration
	Roster RosterConfig

	// Barcode generation configuration
	Codes CodesConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// RosterConfig holds roster file settings
type RosterConfig struct {
	// Path is an explicit roster file; when empty the default
	// candidates are probed in order.
	Path          string
	MaxUploadSize int64 // in bytes
}

// CodesConfig holds barcode output settings
type CodesConfig struct {
	// OutputDir receives one PNG per participant.
	OutputDir string
	// PathTemplate is the QR column value in the manifest; {filename}
	// is replaced with the PNG file name.
	PathTemplate string
	// Scale is the rendered image edge length in pixels.
	Scale int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// DefaultRosterCandidates are probed in order when ROSTER_PATH is unset.
var DefaultRosterCandidates = []string{
	"Ignition 1.0 - QR.csv",
	"teams.csv",
	"teams.xlsx",
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Roster: RosterConfig{
			Path:          getEnv("ROSTER_PATH", ""),
			MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 32*1024*1024), // 32MB
		},
		Codes: CodesConfig{
			OutputDir:    getEnv("CODES_DIR", "./qrcodes"),
			PathTemplate: getEnv("QR_PATH_TEMPLATE", "{filename}"),
			Scale:        getIntEnv("CODES_SCALE", 512),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Codes.OutputDir == "" {
		return fmt.Errorf("CODES_DIR is required")
	}
	if c.Codes.Scale < 64 {
		return fmt.Errorf("CODES_SCALE must be at least 64")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
