package config

import "time"

// Config is the root configuration for the Polaris quoting service.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the host:port the API server binds to.
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum keep-alive idle time.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// MaxHeaderBytes limits request header size.
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// CatalogConfig contains catalog loading settings.
type CatalogConfig struct {
	// Path is the catalog JSON document to load at startup.
	Path string `yaml:"path"`

	// HotReload enables the fsnotify watcher that reloads the catalog
	// when the file changes. Off by default; the engines themselves never
	// invalidate the cached catalog.
	HotReload bool `yaml:"hot_reload"`

	// ReloadDebounce is the quiet period before a detected change
	// triggers a reload.
	ReloadDebounce time.Duration `yaml:"reload_debounce"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`
}
