package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// History storage drivers understood by the dashboard.
const (
	HistoryDriverMemory   = "memory"
	HistoryDriverSQLite   = "sqlite"
	HistoryDriverPostgres = "postgres"
	HistoryDriverRedis    = "redis"
)

// DashboardConfig configures the terminal dashboard (cmd/dialer).
//
// Example:
//
//	apiBaseURL: http://localhost:8080
//	timeout: 30s
//	history:
//	  driver: sqlite
//	  dsn: /home/me/.config/outbound-caller/history.db
type DashboardConfig struct {
	APIBaseURL string        `yaml:"apiBaseURL"`
	Timeout    time.Duration `yaml:"timeout"`
	History    HistoryConfig `yaml:"history"`
}

type HistoryConfig struct {
	Driver string `yaml:"driver"`
	// DSN is a file path for sqlite, a connection string for postgres and a
	// redis:// URL for redis. Unused for memory.
	DSN string `yaml:"dsn"`
}

// LoadDashboard reads the YAML file at path. An empty path yields defaults;
// DIALER_API_URL overrides the API base URL either way.
func LoadDashboard(path string) (DashboardConfig, error) {
	var c DashboardConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return DashboardConfig{}, fmt.Errorf("read dashboard config: %w", err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return DashboardConfig{}, fmt.Errorf("parse dashboard config %s: %w", path, err)
		}
	}
	if v := strings.TrimSpace(os.Getenv("DIALER_API_URL")); v != "" {
		c.APIBaseURL = v
	}
	c = c.withDefaults()
	if err := c.Validate(); err != nil {
		return DashboardConfig{}, err
	}
	return c, nil
}

func (c DashboardConfig) withDefaults() DashboardConfig {
	out := c
	if out.APIBaseURL == "" {
		out.APIBaseURL = "http://localhost:8080"
	}
	if out.Timeout <= 0 {
		out.Timeout = 30 * time.Second
	}
	if out.History.Driver == "" {
		out.History.Driver = HistoryDriverSQLite
	}
	if out.History.Driver == HistoryDriverSQLite && out.History.DSN == "" {
		out.History.DSN = DefaultHistoryPath()
	}
	return out
}

func (c DashboardConfig) Validate() error {
	var errs []error
	if !isHTTPURL(c.APIBaseURL) {
		errs = append(errs, fmt.Errorf("apiBaseURL must be an absolute http(s) URL, got %q", c.APIBaseURL))
	}
	switch c.History.Driver {
	case HistoryDriverMemory:
	case HistoryDriverSQLite, HistoryDriverPostgres, HistoryDriverRedis:
		if c.History.DSN == "" {
			errs = append(errs, fmt.Errorf("history.dsn is required for driver %q", c.History.Driver))
		}
	default:
		errs = append(errs, errors.New("history.driver must be one of memory, sqlite, postgres, redis"))
	}
	return joinErrors(errs)
}

// DefaultHistoryPath is the per-user sqlite file used when none is configured.
func DefaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "outbound-caller", "history.db")
}
