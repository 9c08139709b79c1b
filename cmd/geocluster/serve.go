package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lennartvoss/geocluster/pkg/api/rest"
	"github.com/lennartvoss/geocluster/pkg/api/rest/middleware"
	"github.com/lennartvoss/geocluster/pkg/config"
	"github.com/lennartvoss/geocluster/pkg/dataset"
	"github.com/lennartvoss/geocluster/pkg/observability"
	"github.com/lennartvoss/geocluster/pkg/resultcache"
	"github.com/lennartvoss/geocluster/pkg/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the geocluster REST API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("config", "", "path to YAML configuration file")
	serveCmd.Flags().String("host", "", "server host (overrides config/env)")
	serveCmd.Flags().Int("port", 0, "server port (overrides config/env)")
}

func runServe(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")

	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.LoadFromEnv()
	}

	if host != "" {
		cfg.Server.Host = host
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := store.Open(cfg.Database.DataDir+"/geocluster.db", cfg.Database.EnableWAL, cfg.Database.SyncWrites)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	datasets, err := dataset.NewManagerWithStore(db)
	if err != nil {
		return fmt.Errorf("loading persisted datasets: %w", err)
	}

	var cache *resultcache.LRUCache
	if cfg.Cache.Enabled {
		cache = resultcache.NewLRUCache(cfg.Cache.Capacity, cfg.Cache.TTL)
	}

	metrics := observability.NewMetrics()

	serverCfg := rest.ServerConfig{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		CORSEnabled: true,
		CORSOrigins: []string{"*"},
		Auth: middleware.AuthConfig{
			Enabled:     cfg.Auth.Enabled,
			JWTSecret:   cfg.Auth.JWTSecret,
			PublicPaths: cfg.Auth.PublicPaths,
			AdminPaths:  cfg.Auth.AdminPaths,
		},
		RateLimit: middleware.RateLimitConfig{
			Enabled:        cfg.RateLimit.Enabled,
			RequestsPerSec: cfg.RateLimit.RequestsPerSec,
			Burst:          cfg.RateLimit.Burst,
			PerIP:          cfg.RateLimit.PerIP,
		},
	}

	server := rest.NewServer(serverCfg, cfg, datasets, cache, metrics)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		log.Printf("received signal: %v", sig)
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Stop(ctx)
}
