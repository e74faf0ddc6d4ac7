// Package config provides YAML-based configuration for the Polaris
// quoting service: server settings, catalog location and hot-reload
// behavior, and logging.
//
// Configuration loads in four steps: read YAML, apply defaults, apply
// POLARIS_* environment overrides, validate. A process-wide singleton is
// available for the CLI entry points; tests should inject explicit Config
// values instead.
package config
