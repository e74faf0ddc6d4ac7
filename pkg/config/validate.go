package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks a configuration for invalid or inconsistent values.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must not be empty")
	}
	if !strings.Contains(cfg.Server.ListenAddress, ":") {
		return fmt.Errorf("server.listen_address %q must be host:port", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 || cfg.Server.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	if cfg.Server.MaxHeaderBytes < 0 {
		return fmt.Errorf("server.max_header_bytes must not be negative")
	}

	if cfg.Catalog.Path == "" {
		return fmt.Errorf("catalog.path must not be empty")
	}
	if cfg.Catalog.ReloadDebounce < 0 {
		return fmt.Errorf("catalog.reload_debounce must not be negative")
	}

	if _, err := ParseLogLevel(cfg.Logging.Level); err != nil {
		return err
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format %q must be json or text", cfg.Logging.Format)
	}
	return nil
}

// ParseLogLevel maps a configured level name to its slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("logging.level %q must be one of debug, info, warn, error", level)
}
