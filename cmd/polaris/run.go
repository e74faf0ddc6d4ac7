package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"polaris-hq/borealis/pkg/catalog"
	"polaris-hq/borealis/pkg/config"
	"polaris-hq/borealis/pkg/server"
)

var runFlags struct {
	listenAddress string
	catalogPath   string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Polaris API server",
	Long: `Start the Polaris API server with the specified configuration.

The server loads the catalog once at startup and serves the quoting API
over it. With hot reload enabled in the configuration, the catalog file
is watched and reloaded on change; a broken edit keeps the last good
catalog in service.

Examples:
  # Start with default config
  polaris run

  # Start with custom config
  polaris run --config /etc/polaris/config.yaml

  # Override listen address
  polaris run --listen 0.0.0.0:8080

  # Validate config and catalog without starting the server
  polaris run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.catalogPath, "catalog", "", "override catalog path")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config and catalog without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	if err := config.Initialize(cfgFile); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.GetConfig()

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.catalogPath != "" {
		cfg.Catalog.Path = runFlags.catalogPath
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if err := setupLogging(&cfg.Logging); err != nil {
		return err
	}

	// Load the catalog before binding the listener so a broken catalog
	// fails fast.
	store, err := catalog.NewStore(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		fmt.Printf("✓ Catalog loaded: %s\n", cfg.Catalog.Path)
		return nil
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.Catalog.HotReload {
		watcher, err := catalog.NewWatcher(store, cfg.Catalog.ReloadDebounce, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to start catalog watcher: %w", err)
		}
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				slog.Error("catalog watcher stopped", "error", err)
			}
		}()
	}

	srv := server.NewServer(&cfg.Server, store)
	return srv.Start(ctx)
}

// setupLogging installs the process-wide slog handler from the logging
// configuration.
func setupLogging(cfg *config.LoggingConfig) error {
	level, err := config.ParseLogLevel(cfg.Level)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
