// Package config loads and validates geocluster's runtime configuration,
// following the teacher's layered Default / LoadFromEnv / LoadFromFile /
// Validate convention.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the entire server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Cluster   ClusterConfig   `yaml:"cluster"`
	Cache     CacheConfig     `yaml:"cache"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds REST server configuration.
type ServerConfig struct {
	Host            string        `yaml:"host"`             // Server host (default: "0.0.0.0")
	Port            int           `yaml:"port"`              // Server port (default: 8080)
	MaxConnections  int           `yaml:"max_connections"`   // Max concurrent connections
	RequestTimeout  time.Duration `yaml:"request_timeout"`   // Request timeout
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`  // Graceful shutdown timeout
	EnableTLS       bool          `yaml:"enable_tls"`        // Enable TLS
	CertFile        string        `yaml:"cert_file"`         // TLS certificate file
	KeyFile         string        `yaml:"key_file"`          // TLS key file
}

// ClusterConfig holds default clustering parameters, used whenever a
// request omits eps/min_pts.
type ClusterConfig struct {
	DefaultEps     float64 `yaml:"default_eps"`
	DefaultMinPts  int     `yaml:"default_min_pts"`
	Seed           int64   `yaml:"seed"`            // 0 means derive from wall-clock time
	StrictNoise    bool    `yaml:"strict_noise"`
}

// CacheConfig holds result cache configuration.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Capacity int           `yaml:"capacity"`
	TTL      time.Duration `yaml:"ttl"`
}

// DatabaseConfig holds storage configuration.
type DatabaseConfig struct {
	DataDir         string `yaml:"data_dir"`
	EnableWAL       bool   `yaml:"enable_wal"`
	SyncWrites      bool   `yaml:"sync_writes"`
	MaxDatasets     int    `yaml:"max_datasets"`
}

// AuthConfig holds REST authentication configuration.
type AuthConfig struct {
	Enabled      bool     `yaml:"enabled"`
	JWTSecret    string   `yaml:"jwt_secret"`
	PublicPaths  []string `yaml:"public_paths"`
	AdminPaths   []string `yaml:"admin_paths"`
}

// RateLimitConfig holds REST rate limiting configuration.
type RateLimitConfig struct {
	Enabled        bool    `yaml:"enabled"`
	RequestsPerSec float64 `yaml:"requests_per_sec"`
	Burst          int     `yaml:"burst"`
	PerIP          bool    `yaml:"per_ip"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			MaxConnections:  1000,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			EnableTLS:       false,
		},
		Cluster: ClusterConfig{
			DefaultEps:    0.5,
			DefaultMinPts: 5,
			Seed:          0,
			StrictNoise:   false,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 1000,
			TTL:      5 * time.Minute,
		},
		Database: DatabaseConfig{
			DataDir:     "./data",
			EnableWAL:   true,
			SyncWrites:  false,
			MaxDatasets: 100,
		},
		Auth: AuthConfig{
			Enabled:     false,
			PublicPaths: []string{"/v1/health"},
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			RequestsPerSec: 50,
			Burst:          100,
			PerIP:          true,
		},
	}
}

// LoadFromEnv loads configuration from environment variables, layering
// overrides onto Default().
func LoadFromEnv() *Config {
	cfg := Default()

	if host := os.Getenv("GEOCLUSTER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("GEOCLUSTER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if maxConn := os.Getenv("GEOCLUSTER_MAX_CONNECTIONS"); maxConn != "" {
		if mc, err := strconv.Atoi(maxConn); err == nil {
			cfg.Server.MaxConnections = mc
		}
	}
	if timeout := os.Getenv("GEOCLUSTER_REQUEST_TIMEOUT"); timeout != "" {
		if t, err := time.ParseDuration(timeout); err == nil {
			cfg.Server.RequestTimeout = t
		}
	}
	if enableTLS := os.Getenv("GEOCLUSTER_ENABLE_TLS"); enableTLS == "true" {
		cfg.Server.EnableTLS = true
		cfg.Server.CertFile = os.Getenv("GEOCLUSTER_TLS_CERT")
		cfg.Server.KeyFile = os.Getenv("GEOCLUSTER_TLS_KEY")
	}

	if eps := os.Getenv("GEOCLUSTER_DEFAULT_EPS"); eps != "" {
		if e, err := strconv.ParseFloat(eps, 64); err == nil {
			cfg.Cluster.DefaultEps = e
		}
	}
	if minPts := os.Getenv("GEOCLUSTER_DEFAULT_MIN_PTS"); minPts != "" {
		if mp, err := strconv.Atoi(minPts); err == nil {
			cfg.Cluster.DefaultMinPts = mp
		}
	}
	if seed := os.Getenv("GEOCLUSTER_SEED"); seed != "" {
		if s, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Cluster.Seed = s
		}
	}
	if strict := os.Getenv("GEOCLUSTER_STRICT_NOISE"); strict == "true" {
		cfg.Cluster.StrictNoise = true
	}

	if cacheEnabled := os.Getenv("GEOCLUSTER_CACHE_ENABLED"); cacheEnabled == "false" {
		cfg.Cache.Enabled = false
	}
	if capacity := os.Getenv("GEOCLUSTER_CACHE_CAPACITY"); capacity != "" {
		if c, err := strconv.Atoi(capacity); err == nil {
			cfg.Cache.Capacity = c
		}
	}
	if ttl := os.Getenv("GEOCLUSTER_CACHE_TTL"); ttl != "" {
		if t, err := time.ParseDuration(ttl); err == nil {
			cfg.Cache.TTL = t
		}
	}

	if dataDir := os.Getenv("GEOCLUSTER_DATA_DIR"); dataDir != "" {
		cfg.Database.DataDir = dataDir
	}
	if wal := os.Getenv("GEOCLUSTER_ENABLE_WAL"); wal == "false" {
		cfg.Database.EnableWAL = false
	}
	if sync := os.Getenv("GEOCLUSTER_SYNC_WRITES"); sync == "true" {
		cfg.Database.SyncWrites = true
	}

	if jwtSecret := os.Getenv("GEOCLUSTER_JWT_SECRET"); jwtSecret != "" {
		cfg.Auth.JWTSecret = jwtSecret
		cfg.Auth.Enabled = true
	}

	return cfg
}

// LoadFromFile reads a YAML configuration file and layers it onto
// Default(), so a partial file only overrides the fields it sets.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks whether the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.MaxConnections < 1 {
		return fmt.Errorf("invalid max connections: %d (must be > 0)", c.Server.MaxConnections)
	}
	if c.Server.EnableTLS {
		if c.Server.CertFile == "" || c.Server.KeyFile == "" {
			return fmt.Errorf("TLS enabled but cert or key file not specified")
		}
	}

	if c.Cluster.DefaultEps <= 0 {
		return fmt.Errorf("invalid default eps: %v (must be > 0)", c.Cluster.DefaultEps)
	}
	if c.Cluster.DefaultMinPts < 1 {
		return fmt.Errorf("invalid default min_pts: %d (must be >= 1)", c.Cluster.DefaultMinPts)
	}

	if c.Cache.Enabled && c.Cache.Capacity < 1 {
		return fmt.Errorf("invalid cache capacity: %d (must be > 0)", c.Cache.Capacity)
	}

	if c.Database.DataDir == "" {
		return fmt.Errorf("data directory not specified")
	}

	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth enabled but jwt_secret not specified")
	}

	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSec <= 0 {
		return fmt.Errorf("invalid rate limit: %v requests/sec (must be > 0)", c.RateLimit.RequestsPerSec)
	}

	return nil
}

// Address returns the server address (host:port).
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
