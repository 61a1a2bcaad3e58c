// Package config provides runtime configuration values for the storefront.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store kinds accepted in STOREFRONT_STORE.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite3"
)

// Log formats accepted in LOG_FORMAT.
const (
	LogJSON = "json"
	LogText = "text"
)

// Config holds the knobs shared by every storefront command.
type Config struct {
	CatalogPath     string
	StoreKind       string
	DSN             string
	HTTPAddr        string
	LogLevel        slog.Level
	LogFormat       string
	ShutdownTimeout time.Duration
	CustomerName    string
	CustomerTaxID   string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

func levelenv(key string, def slog.Level) slog.Level {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		return def
	}
	return l
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		CatalogPath:     getenv("STOREFRONT_CATALOG", "catalog.json"),
		StoreKind:       strings.ToLower(getenv("STOREFRONT_STORE", StoreFile)),
		DSN:             getenv("STOREFRONT_DSN", ""),
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		LogLevel:        levelenv("LOG_LEVEL", slog.LevelInfo),
		LogFormat:       strings.ToLower(getenv("LOG_FORMAT", LogJSON)),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		CustomerName:    getenv("CUSTOMER_NAME", ""),
		CustomerTaxID:   getenv("CUSTOMER_TAX_ID", ""),
	}
}

// Location is the argument handed to store.Open for the configured kind.
func (c Config) Location() string {
	if c.StoreKind == StoreFile {
		return c.CatalogPath
	}
	return c.DSN
}

// Validate rejects combinations no command can run with.
func (c Config) Validate() error {
	switch c.StoreKind {
	case StoreFile:
		if c.CatalogPath == "" {
			return fmt.Errorf("catalog path is required for the %s store", StoreFile)
		}
	case StorePostgres, StoreSQLite:
		if c.DSN == "" {
			return fmt.Errorf("dsn is required for the %s store", c.StoreKind)
		}
	default:
		return fmt.Errorf("unknown store kind %q", c.StoreKind)
	}
	switch c.LogFormat {
	case LogJSON, LogText:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}
