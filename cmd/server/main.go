package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lennartvoss/geocluster/pkg/api/rest"
	"github.com/lennartvoss/geocluster/pkg/api/rest/middleware"
	"github.com/lennartvoss/geocluster/pkg/config"
	"github.com/lennartvoss/geocluster/pkg/dataset"
	"github.com/lennartvoss/geocluster/pkg/observability"
	"github.com/lennartvoss/geocluster/pkg/resultcache"
	"github.com/lennartvoss/geocluster/pkg/store"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version and exit")
		showHelp    = flag.Bool("help", false, "show help and exit")
		configFile  = flag.String("config", "", "path to YAML configuration file (optional)")
		host        = flag.String("host", "", "server host (overrides config/env)")
		port        = flag.Int("port", 0, "server port (overrides config/env)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("geocluster server v%s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	if *showHelp {
		showUsage()
		os.Exit(0)
	}

	printBanner()

	cfg := loadConfig(*configFile)

	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Println("Initializing geocluster server...")

	db, err := store.Open(cfg.Database.DataDir+"/geocluster.db", cfg.Database.EnableWAL, cfg.Database.SyncWrites)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	datasets, err := dataset.NewManagerWithStore(db)
	if err != nil {
		log.Fatalf("Failed to load persisted datasets: %v", err)
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

	restServer := rest.NewServer(serverCfg, cfg, datasets, cache, metrics)

	printStartupInfo(cfg)

	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting REST API server...")
		if err := restServer.Start(); err != nil {
			errChan <- fmt.Errorf("REST server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	log.Println("Server is ready. Press Ctrl+C to stop.")
	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-errChan:
		log.Printf("Server error: %v", err)
	}

	log.Println("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := restServer.Stop(ctx); err != nil {
		log.Printf("Error stopping REST server: %v", err)
	}

	log.Println("Server stopped. Goodbye!")
}

func loadConfig(configFile string) *config.Config {
	if configFile != "" {
		cfg, err := config.LoadFromFile(configFile)
		if err != nil {
			log.Fatalf("Failed to load config file: %v", err)
		}
		return cfg
	}
	return config.LoadFromEnv()
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                                                           ║
║    __ _  ___  ___   ___| |_   _ ___| |_ ___ _ __         ║
║   / _` + "`" + ` |/ _ \/ _ \ / __| | | | / __| __/ _ \ '__|        ║
║  | (_| |  __/ (_) | (__| | |_| \__ \ ||  __/ |           ║
║   \__, |\___|\___/ \___|_|\__,_|___/\__\___|_|           ║
║   |___/                                                  ║
║                                                           ║
║   Density-based 2-D spatial clustering engine            ║
║                                                           ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
	fmt.Printf("Version: %s (commit: %s)\n\n", version, commit)
}

func printStartupInfo(cfg *config.Config) {
	fmt.Println("\n╔════════════════════════════════════════════════════════╗")
	fmt.Println("║            REST API Configuration                      ║")
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Printf("║ Address:          %-35s ║\n", cfg.Server.Address())
	fmt.Printf("║ Auth Enabled:     %-35v ║\n", cfg.Auth.Enabled)
	fmt.Printf("║ Rate Limiting:    %-35v ║\n", cfg.RateLimit.Enabled)
	if cfg.RateLimit.Enabled {
		fmt.Printf("║ Rate:             %-35s ║\n", fmt.Sprintf("%.1f req/s (burst: %d)", cfg.RateLimit.RequestsPerSec, cfg.RateLimit.Burst))
	}
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Println("║               Cluster Configuration                    ║")
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Printf("║ Default eps:      %-35v ║\n", cfg.Cluster.DefaultEps)
	fmt.Printf("║ Default min_pts:  %-35d ║\n", cfg.Cluster.DefaultMinPts)
	fmt.Printf("║ Strict noise:     %-35v ║\n", cfg.Cluster.StrictNoise)
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Println("║               Cache Configuration                      ║")
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Printf("║ Enabled:          %-35v ║\n", cfg.Cache.Enabled)
	fmt.Printf("║ Capacity:         %-35d ║\n", cfg.Cache.Capacity)
	fmt.Printf("║ TTL:              %-35s ║\n", cfg.Cache.TTL)
	fmt.Println("╚════════════════════════════════════════════════════════╝")
	fmt.Println()
}

func showUsage() {
	fmt.Println("geocluster server - density-based 2-D spatial clustering as a service")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  geocluster-server [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -help             Show this help message")
	fmt.Println("  -version          Show version information")
	fmt.Println("  -config PATH      Path to configuration file (YAML)")
	fmt.Println("  -host HOST        Server host (default: 0.0.0.0)")
	fmt.Println("  -port PORT        Server port (default: 8080)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEOCLUSTER_HOST              Server host")
	fmt.Println("  GEOCLUSTER_PORT              Server port")
	fmt.Println("  GEOCLUSTER_DEFAULT_EPS       Default clustering radius")
	fmt.Println("  GEOCLUSTER_DEFAULT_MIN_PTS   Default minimum neighborhood size")
	fmt.Println("  GEOCLUSTER_STRICT_NOISE      Collapse remaining noise into one bucket (true/false)")
	fmt.Println("  GEOCLUSTER_CACHE_ENABLED     Enable result cache (true/false)")
	fmt.Println("  GEOCLUSTER_CACHE_CAPACITY    Result cache capacity")
	fmt.Println("  GEOCLUSTER_CACHE_TTL         Result cache TTL (e.g., 5m)")
	fmt.Println("  GEOCLUSTER_DATA_DIR          Data directory path")
	fmt.Println("  GEOCLUSTER_JWT_SECRET        JWT secret, enables auth when set")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Start with default configuration")
	fmt.Println("  geocluster-server")
	fmt.Println()
	fmt.Println("  # Start on a custom port")
	fmt.Println("  geocluster-server -port 9090")
	fmt.Println()
	fmt.Println("  # Start with a config file")
	fmt.Println("  geocluster-server -config config.yaml")
	fmt.Println()
}
