package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"shopledger/internal/logger"
)

// Supported document store drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type Config struct {
	// Document store
	StoreDriver string
	DataDir     string
	SQLiteDSN   string

	// Ledger behaviour
	RestoreStockOnDelete bool

	// Google Sheets sync (optional)
	GoogleSheetURL          string
	GoogleSheetWorksheet    string
	GoogleCredentialsFile   string
	GoogleCredentialsInline string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from the environment. A .env file is expected
// to have been applied by the caller.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SHOPLEDGER_STORE_DRIVER", DriverFile)
	v.SetDefault("SHOPLEDGER_DATA_DIR", "./data")
	v.SetDefault("SHOPLEDGER_SQLITE_DSN", "")
	v.SetDefault("SHOPLEDGER_RESTORE_STOCK_ON_DELETE", true)
	v.SetDefault("GOOGLE_SHEET_WORKSHEET", "Invoices")
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00")
	v.SetDefault("LOG_OUTPUT", "stderr")

	config := &Config{
		StoreDriver:             strings.ToLower(v.GetString("SHOPLEDGER_STORE_DRIVER")),
		DataDir:                 v.GetString("SHOPLEDGER_DATA_DIR"),
		SQLiteDSN:               v.GetString("SHOPLEDGER_SQLITE_DSN"),
		RestoreStockOnDelete:    v.GetBool("SHOPLEDGER_RESTORE_STOCK_ON_DELETE"),
		GoogleSheetURL:          v.GetString("GOOGLE_SHEET_URL"),
		GoogleSheetWorksheet:    v.GetString("GOOGLE_SHEET_WORKSHEET"),
		GoogleCredentialsFile:   v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
		GoogleCredentialsInline: v.GetString("GOOGLE_CREDENTIALS"),
		LogLevel:                v.GetString("LOG_LEVEL"),
		LogFormat:               v.GetString("LOG_FORMAT"),
		LogTimeFormat:           v.GetString("LOG_TIME_FORMAT"),
		LogOutput:               v.GetString("LOG_OUTPUT"),
	}

	if config.StoreDriver == DriverSQLite && config.SQLiteDSN == "" {
		config.SQLiteDSN = filepath.Join(config.DataDir, "shopledger.db")
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverFile, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("SHOPLEDGER_STORE_DRIVER must be one of file, sqlite, memory (got %q)", c.StoreDriver)
	}
	if c.StoreDriver == DriverFile && c.DataDir == "" {
		return fmt.Errorf("SHOPLEDGER_DATA_DIR is required for the file store")
	}
	return nil
}

// ValidateSheets checks the settings needed by the Google Sheets sync.
func (c *Config) ValidateSheets() error {
	if c.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL is required")
	}
	if c.GoogleCredentialsFile == "" && c.GoogleCredentialsInline == "" {
		return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}
