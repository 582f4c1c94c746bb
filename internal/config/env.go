// Package config provides configuration helpers for go-sway commands:
// environment lookups, the TOML config file and live reload.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults used when the environment does not override them.
const (
	DefaultConfigPath = "sway.toml"
	DefaultPort       = 8090
	DefaultLogLevel   = "info"
)

// ConfigPath returns the config file path from SWAY_CONFIG.
// Falls back to the provided default, then DefaultConfigPath.
func ConfigPath(defaultPath string) string {
	if p := os.Getenv("SWAY_CONFIG"); p != "" {
		return p
	}
	if defaultPath != "" {
		return defaultPath
	}
	return DefaultConfigPath
}

// Port returns the dashboard port from SWAY_PORT or the default.
// Unparseable or out-of-range values fall back to the default.
func Port(defaultPort int) int {
	if v := os.Getenv("SWAY_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p < 65536 {
			return p
		}
	}
	if defaultPort > 0 {
		return defaultPort
	}
	return DefaultPort
}

// ListenAddr returns the dashboard listen address for port.
func ListenAddr(port int) string {
	return fmt.Sprintf(":%d", port)
}

// LogLevel returns the log level from SWAY_LOG_LEVEL or default.
func LogLevel() string {
	if lvl := os.Getenv("SWAY_LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return DefaultLogLevel
}

// LogFile returns the rotated log file path from SWAY_LOG_FILE.
// Empty means log to stdout only.
func LogFile() string {
	return os.Getenv("SWAY_LOG_FILE")
}
