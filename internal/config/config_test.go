package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHOPLEDGER_STORE_DRIVER", "")
	t.Setenv("SHOPLEDGER_DATA_DIR", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverFile, cfg.StoreDriver)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.True(t, cfg.RestoreStockOnDelete)
	assert.Equal(t, "Invoices", cfg.GoogleSheetWorksheet)
	assert.Equal(t, "warn", cfg.GetLoggerConfig().Level)
}

func TestLoadSQLiteDefaultsDSN(t *testing.T) {
	t.Setenv("SHOPLEDGER_STORE_DRIVER", "SQLite")
	t.Setenv("SHOPLEDGER_DATA_DIR", "/var/lib/shop")
	t.Setenv("SHOPLEDGER_SQLITE_DSN", "")
	t.Setenv("SHOPLEDGER_RESTORE_STOCK_ON_DELETE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, filepath.Join("/var/lib/shop", "shopledger.db"), cfg.SQLiteDSN)
	assert.False(t, cfg.RestoreStockOnDelete)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("SHOPLEDGER_STORE_DRIVER", "redis")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHOPLEDGER_STORE_DRIVER")
}

func TestValidateSheets(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateSheets())

	cfg.GoogleSheetURL = "https://docs.google.com/spreadsheets/d/abc"
	assert.Error(t, cfg.ValidateSheets())

	cfg.GoogleCredentialsInline = "{}"
	assert.NoError(t, cfg.ValidateSheets())
}
